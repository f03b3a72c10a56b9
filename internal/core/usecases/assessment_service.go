package usecases

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/ports"
	"github.com/samirrijal/saferoute/internal/core/safety"
	"github.com/samirrijal/saferoute/internal/pkg/geospatial"
	"github.com/samirrijal/saferoute/internal/pkg/logging"
	"github.com/samirrijal/saferoute/internal/pkg/metrics"
)

var tracer = otel.Tracer("github.com/samirrijal/saferoute/internal/core/usecases")

// viewportPadMeters grows route bounds so endpoints are not drawn on the map edge.
const viewportPadMeters = 50

// AssessmentService scores routes against the hazard catalog.
type AssessmentService struct {
	hazards    ports.HazardCatalog
	directions ports.DirectionsProvider
	publisher  ports.EventPublisher
	params     safety.Params
	now        func() time.Time
}

// NewAssessmentService creates a new AssessmentService. directions and
// publisher may be nil; trip planning and warning events are then disabled.
func NewAssessmentService(
	hazards ports.HazardCatalog,
	directions ports.DirectionsProvider,
	publisher ports.EventPublisher,
	params safety.Params,
) *AssessmentService {
	return &AssessmentService{
		hazards:    hazards,
		directions: directions,
		publisher:  publisher,
		params:     params,
		now:        time.Now,
	}
}

// AssessPoints scores and colors an already decoded route.
func (s *AssessmentService) AssessPoints(ctx context.Context, route domain.Route) (*domain.RouteAssessment, error) {
	ctx, span := tracer.Start(ctx, "AssessmentService.AssessPoints")
	defer span.End()

	if err := geospatial.ValidateRoute(route); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	zones, err := s.hazards.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list hazards: %w", err)
	}

	ra := s.assess(route, zones)
	span.SetAttributes(
		attribute.Int("route.points", len(route)),
		attribute.Int("hazards.zones", len(zones)),
		attribute.Int("assessment.score", ra.Assessment.Score),
		attribute.String("assessment.label", string(ra.Assessment.Label)),
	)

	s.publishWarning(ctx, ra.Warning)
	return &ra, nil
}

// AssessPolyline decodes a Google encoded polyline and assesses it.
func (s *AssessmentService) AssessPolyline(ctx context.Context, encoded string) (*domain.RouteAssessment, error) {
	route, err := geospatial.DecodePolyline(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRoute, err)
	}
	return s.AssessPoints(ctx, route)
}

// AssessTrip asks the directions provider for routes between two points,
// assesses every alternative and returns them safest first. Alternatives with
// equal scores keep the provider's order. Only the recommended route raises a
// warning event.
func (s *AssessmentService) AssessTrip(ctx context.Context, req domain.TripRequest) ([]domain.RouteAssessment, error) {
	ctx, span := tracer.Start(ctx, "AssessmentService.AssessTrip")
	defer span.End()

	if s.directions == nil {
		return nil, domain.ErrDirectionsUnavailable
	}
	if err := geospatial.ValidateRoute(domain.Route{req.Origin, req.Destination}); err != nil {
		return nil, err
	}
	mode, ok := domain.ParseTravelMode(string(req.Mode))
	if !ok {
		return nil, fmt.Errorf("%w: unsupported travel mode %q", domain.ErrInvalidInput, req.Mode)
	}
	req.Mode = mode

	routes, err := s.directions.Routes(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("plan route: %w", err)
	}
	if len(routes) == 0 {
		return nil, domain.ErrNoRoute
	}

	zones, err := s.hazards.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hazards: %w", err)
	}

	results := make([]domain.RouteAssessment, len(routes))
	g, _ := errgroup.WithContext(ctx)
	for i, r := range routes {
		g.Go(func() error {
			if err := geospatial.ValidateRoute(r); err != nil {
				return fmt.Errorf("alternative %d: %w", i, err)
			}
			results[i] = s.assess(r, zones)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Assessment.Score > results[j].Assessment.Score
	})
	for i := 1; i < len(results); i++ {
		results[i].Warning = nil
	}

	span.SetAttributes(
		attribute.Int("trip.alternatives", len(results)),
		attribute.Int("assessment.score", results[0].Assessment.Score),
	)
	s.publishWarning(ctx, results[0].Warning)
	return results, nil
}

// assess runs the scorer and the colorer over one route.
func (s *AssessmentService) assess(route domain.Route, zones []domain.HazardZone) domain.RouteAssessment {
	assessment := s.params.Score(route, zones)
	segments := s.params.ColorSegments(route, zones)

	metrics.RouteAssessments.WithLabelValues(string(assessment.Label)).Inc()
	metrics.TriggeredZones.Observe(float64(len(assessment.TriggeredZoneIDs)))
	metrics.RoutePoints.Observe(float64(len(route)))
	for _, seg := range segments {
		metrics.SegmentsColored.WithLabelValues(string(seg.Color)).Inc()
	}

	return domain.RouteAssessment{
		Route:      route,
		Assessment: assessment,
		Segments:   segments,
		Bounds:     geospatial.RouteBounds(route, viewportPadMeters),
		Warning:    s.warningFor(assessment),
	}
}

func (s *AssessmentService) warningFor(a domain.RiskAssessment) *domain.HazardWarning {
	n := len(a.TriggeredZoneIDs)
	if n == 0 {
		return nil
	}

	msg := fmt.Sprintf("The route passes near %d hazardous zones.", n)
	if n == 1 {
		msg = "The route passes near 1 hazardous zone."
	}

	return &domain.HazardWarning{
		ID:               uuid.NewString(),
		Time:             s.now().UTC(),
		Score:            a.Score,
		Label:            a.Label,
		TriggeredZoneIDs: a.TriggeredZoneIDs,
		Message:          msg,
	}
}

// publishWarning is best effort: a broker outage must not fail an assessment.
func (s *AssessmentService) publishWarning(ctx context.Context, w *domain.HazardWarning) {
	if w == nil || s.publisher == nil {
		return
	}
	if err := s.publisher.PublishHazardWarning(ctx, w); err != nil {
		metrics.WarningsPublished.WithLabelValues("error").Inc()
		logging.FromContext(ctx).Warn("publish hazard warning failed", "warning_id", w.ID, "error", err)
		return
	}
	metrics.WarningsPublished.WithLabelValues("ok").Inc()
}
