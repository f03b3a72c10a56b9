package usecases

import (
	"context"
	"fmt"
	"sort"

	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/ports"
	"github.com/samirrijal/saferoute/internal/pkg/geospatial"
)

// HazardService exposes the hazard catalog.
type HazardService struct {
	catalog ports.HazardCatalog
}

// NewHazardService creates a new HazardService.
func NewHazardService(catalog ports.HazardCatalog) *HazardService {
	return &HazardService{catalog: catalog}
}

// List returns every zone in the catalog.
func (s *HazardService) List(ctx context.Context) ([]domain.HazardZone, error) {
	return s.catalog.List(ctx)
}

// GetByID returns a single zone.
func (s *HazardService) GetByID(ctx context.Context, id int) (*domain.HazardZone, error) {
	return s.catalog.GetByID(ctx, id)
}

// ListByCategory returns the zones of one category. An empty category lists all.
func (s *HazardService) ListByCategory(ctx context.Context, category domain.HazardCategory) ([]domain.HazardZone, error) {
	if category == "" {
		return s.catalog.List(ctx)
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown hazard category %q", domain.ErrInvalidInput, category)
	}

	zones, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.HazardZone, 0, len(zones))
	for _, z := range zones {
		if z.Category == category {
			out = append(out, z)
		}
	}
	return out, nil
}

// Nearby returns zones whose center lies within radiusMeters of p, closest first.
func (s *HazardService) Nearby(ctx context.Context, p domain.GeoPoint, radiusMeters float64) ([]domain.HazardZone, error) {
	if err := geospatial.ValidatePoint(p); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if radiusMeters <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive, got %v", domain.ErrInvalidInput, radiusMeters)
	}

	zones, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	box := geospatial.BoundsAround(p, radiusMeters)

	type hit struct {
		zone domain.HazardZone
		dist float64
	}
	var hits []hit
	for _, z := range zones {
		if !geospatial.Contains(box, z.Center()) {
			continue
		}
		if d := geospatial.Distance(p, z.Center()); d <= radiusMeters {
			hits = append(hits, hit{zone: z, dist: d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	out := make([]domain.HazardZone, len(hits))
	for i, h := range hits {
		out[i] = h.zone
	}
	return out, nil
}
