package usecases_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/ports"
	"github.com/samirrijal/saferoute/internal/core/safety"
	"github.com/samirrijal/saferoute/internal/core/usecases"
	"github.com/samirrijal/saferoute/internal/pkg/geospatial"
)

func newService(cat ports.HazardCatalog, dir ports.DirectionsProvider, pub ports.EventPublisher) *usecases.AssessmentService {
	return usecases.NewAssessmentService(cat, dir, pub, safety.DefaultParams())
}

func TestAssessmentService_AssessPoints_Safe(t *testing.T) {
	pub := &mockPublisher{}
	svc := newService(staticCatalog(testZone(1, ptCenter, 30, domain.CategoryHarassment)), nil, pub)

	ra, err := svc.AssessPoints(context.Background(), domain.Route{ptFar, ptFar2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ra.Assessment.Score != 100 || ra.Assessment.Label != domain.LabelSafe {
		t.Errorf("expected 100/safe, got %d/%s", ra.Assessment.Score, ra.Assessment.Label)
	}
	if len(ra.Segments) != 1 || ra.Segments[0].Color != domain.ColorGreen {
		t.Errorf("expected one green segment, got %+v", ra.Segments)
	}
	if ra.Warning != nil {
		t.Error("no warning expected for an untouched route")
	}
	if len(pub.warnings) != 0 {
		t.Errorf("expected no published warnings, got %d", len(pub.warnings))
	}
	if ra.Bounds == nil || !geospatial.Contains(*ra.Bounds, ptFar) || !geospatial.Contains(*ra.Bounds, ptFar2) {
		t.Errorf("bounds %+v should contain the route", ra.Bounds)
	}
}

func TestAssessmentService_AssessPoints_WarningPublished(t *testing.T) {
	pub := &mockPublisher{}
	svc := newService(staticCatalog(testZone(1, ptCenter, 30, domain.CategoryHarassment)), nil, pub)

	ra, err := svc.AssessPoints(context.Background(), domain.Route{ptCenter})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ra.Assessment.Score != 13 || ra.Assessment.Label != domain.LabelDangerous {
		t.Errorf("expected 13/dangerous, got %d/%s", ra.Assessment.Score, ra.Assessment.Label)
	}
	if ra.Warning == nil {
		t.Fatal("expected a warning")
	}
	if !strings.Contains(ra.Warning.Message, "1 hazardous zone") {
		t.Errorf("unexpected message %q", ra.Warning.Message)
	}
	if len(pub.warnings) != 1 || pub.warnings[0].ID != ra.Warning.ID {
		t.Errorf("expected the warning to be published once, got %+v", pub.warnings)
	}
}

func TestAssessmentService_AssessPoints_PublisherErrorIgnored(t *testing.T) {
	pub := &mockPublisher{err: errors.New("broker down")}
	svc := newService(staticCatalog(testZone(1, ptCenter, 30, domain.CategoryHarassment)), nil, pub)

	if _, err := svc.AssessPoints(context.Background(), domain.Route{ptCenter}); err != nil {
		t.Fatalf("publisher failure must not fail the assessment: %v", err)
	}
}

func TestAssessmentService_AssessPoints_InvalidRoute(t *testing.T) {
	svc := newService(staticCatalog(), nil, nil)

	_, err := svc.AssessPoints(context.Background(), domain.Route{{Lat: math.NaN(), Lon: 0}})
	if !errors.Is(err, domain.ErrInvalidRoute) {
		t.Errorf("expected ErrInvalidRoute, got %v", err)
	}
}

func TestAssessmentService_AssessPoints_CatalogError(t *testing.T) {
	cat := &mockCatalog{
		listFn: func(ctx context.Context) ([]domain.HazardZone, error) { return nil, errors.New("boom") },
	}
	svc := newService(cat, nil, nil)

	if _, err := svc.AssessPoints(context.Background(), domain.Route{ptFar}); err == nil {
		t.Error("expected catalog error to propagate")
	}
}

func TestAssessmentService_AssessPolyline(t *testing.T) {
	svc := newService(staticCatalog(testZone(1, ptCenter, 30, domain.CategoryHarassment)), nil, nil)
	encoded := geospatial.EncodePolyline(domain.Route{ptFar, ptCenter, ptFar2})

	ra, err := svc.AssessPolyline(context.Background(), encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ra.Route) != 3 || len(ra.Segments) != 2 {
		t.Fatalf("expected 3 points / 2 segments, got %d / %d", len(ra.Route), len(ra.Segments))
	}
	if got := ra.Assessment.TriggeredZoneIDs; len(got) != 1 || got[0] != 1 {
		t.Errorf("expected zone 1 triggered, got %v", got)
	}
}

func TestAssessmentService_AssessPolyline_Malformed(t *testing.T) {
	svc := newService(staticCatalog(), nil, nil)

	_, err := svc.AssessPolyline(context.Background(), "_p~iF~ps|U_")
	if !errors.Is(err, domain.ErrInvalidRoute) {
		t.Errorf("expected ErrInvalidRoute, got %v", err)
	}
}

func TestAssessmentService_AssessTrip_RanksAlternatives(t *testing.T) {
	risky := domain.Route{ptFar, ptCenter, ptFar2}
	clean := domain.Route{ptFar, ptFar2}

	var gotReq domain.TripRequest
	dir := &mockDirections{
		routesFn: func(ctx context.Context, req domain.TripRequest) ([]domain.Route, error) {
			gotReq = req
			return []domain.Route{risky, clean}, nil
		},
	}
	pub := &mockPublisher{}
	svc := newService(staticCatalog(testZone(1, ptCenter, 30, domain.CategoryHarassment)), dir, pub)

	results, err := svc.AssessTrip(context.Background(), domain.TripRequest{Origin: ptFar, Destination: ptFar2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotReq.Mode != domain.TravelWalking {
		t.Errorf("expected default walking mode, got %q", gotReq.Mode)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 alternatives, got %d", len(results))
	}
	if results[0].Assessment.Score != 100 || len(results[0].Route) != 2 {
		t.Errorf("expected the clean route first, got %+v", results[0].Assessment)
	}
	if results[1].Warning != nil {
		t.Error("only the recommended route carries a warning")
	}
	if len(pub.warnings) != 0 {
		t.Errorf("recommended route is clean; expected no warning, got %d", len(pub.warnings))
	}
}

func TestAssessmentService_AssessTrip_NoRoute(t *testing.T) {
	svc := newService(staticCatalog(), &mockDirections{}, nil)

	_, err := svc.AssessTrip(context.Background(), domain.TripRequest{Origin: ptFar, Destination: ptFar2})
	if !errors.Is(err, domain.ErrNoRoute) {
		t.Errorf("expected ErrNoRoute, got %v", err)
	}
}

func TestAssessmentService_AssessTrip_NoProvider(t *testing.T) {
	svc := newService(staticCatalog(), nil, nil)

	_, err := svc.AssessTrip(context.Background(), domain.TripRequest{Origin: ptFar, Destination: ptFar2})
	if !errors.Is(err, domain.ErrDirectionsUnavailable) {
		t.Errorf("expected ErrDirectionsUnavailable, got %v", err)
	}
}

func TestAssessmentService_AssessTrip_BadMode(t *testing.T) {
	svc := newService(staticCatalog(), &mockDirections{}, nil)

	_, err := svc.AssessTrip(context.Background(), domain.TripRequest{Origin: ptFar, Destination: ptFar2, Mode: "teleport"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
