package usecases_test

import (
	"context"
	"sync"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

// --- Mock HazardCatalog ---

type mockCatalog struct {
	listFn    func(ctx context.Context) ([]domain.HazardZone, error)
	getByIDFn func(ctx context.Context, id int) (*domain.HazardZone, error)
}

func (m *mockCatalog) List(ctx context.Context) ([]domain.HazardZone, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockCatalog) GetByID(ctx context.Context, id int) (*domain.HazardZone, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrHazardNotFound
}

func staticCatalog(zones ...domain.HazardZone) *mockCatalog {
	return &mockCatalog{
		listFn: func(ctx context.Context) ([]domain.HazardZone, error) { return zones, nil },
	}
}

// --- Mock DirectionsProvider ---

type mockDirections struct {
	routesFn func(ctx context.Context, req domain.TripRequest) ([]domain.Route, error)
}

func (m *mockDirections) Routes(ctx context.Context, req domain.TripRequest) ([]domain.Route, error) {
	if m.routesFn != nil {
		return m.routesFn(ctx, req)
	}
	return nil, nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu       sync.Mutex
	warnings []domain.HazardWarning
	err      error
}

func (m *mockPublisher) PublishHazardWarning(ctx context.Context, w *domain.HazardWarning) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.warnings = append(m.warnings, *w)
	return nil
}

// --- Fixtures ---

var (
	ptCenter = domain.GeoPoint{Lat: -11.984, Lon: -77.007}
	ptFar    = domain.GeoPoint{Lat: -11.985, Lon: -77.005}
	ptFar2   = domain.GeoPoint{Lat: -11.990, Lon: -77.000}
)

func testZone(id int, p domain.GeoPoint, weight float64, cat domain.HazardCategory) domain.HazardZone {
	return domain.HazardZone{
		ID: id, Lat: p.Lat, Lon: p.Lon, Category: cat,
		ThresholdMeters: 100, Weight: weight,
	}
}
