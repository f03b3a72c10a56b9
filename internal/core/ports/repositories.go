package ports

import (
	"context"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

// HazardCatalog serves the hazard zones supplied by the application.
// Implementations are read-only; the catalog does not change while serving.
type HazardCatalog interface {
	List(ctx context.Context) ([]domain.HazardZone, error)
	GetByID(ctx context.Context, id int) (*domain.HazardZone, error)
}

// DirectionsProvider plans routes between two points.
type DirectionsProvider interface {
	// Routes returns the decoded route alternatives, best-first as ranked by
	// the provider. An empty result means no route exists.
	Routes(ctx context.Context, req domain.TripRequest) ([]domain.Route, error)
}
