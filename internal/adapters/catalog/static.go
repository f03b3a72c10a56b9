// Package catalog serves the hazard zone catalog supplied through configuration.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

// Static implements ports.HazardCatalog over an in-memory zone list.
// It is immutable after construction and safe for concurrent use.
type Static struct {
	zones []domain.HazardZone
	byID  map[int]int // zone id -> index into zones
}

// NewStatic builds a catalog from zones, sorted by id. Duplicate ids are rejected.
func NewStatic(zones []domain.HazardZone) (*Static, error) {
	sorted := make([]domain.HazardZone, len(zones))
	copy(sorted, zones)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	byID := make(map[int]int, len(sorted))
	for i, z := range sorted {
		if _, dup := byID[z.ID]; dup {
			return nil, fmt.Errorf("duplicate hazard zone id %d", z.ID)
		}
		byID[z.ID] = i
	}
	return &Static{zones: sorted, byID: byID}, nil
}

// List returns a copy of every zone, ordered by id.
func (s *Static) List(ctx context.Context) ([]domain.HazardZone, error) {
	out := make([]domain.HazardZone, len(s.zones))
	copy(out, s.zones)
	return out, nil
}

// GetByID returns the zone with the given id.
func (s *Static) GetByID(ctx context.Context, id int) (*domain.HazardZone, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrHazardNotFound
	}
	z := s.zones[i]
	return &z, nil
}

// Len returns the number of zones.
func (s *Static) Len() int {
	return len(s.zones)
}
