package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/saferoute/internal/adapters/valkey"
	"github.com/samirrijal/saferoute/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Hazards     *usecases.HazardService
	Assessments *usecases.AssessmentService
	NATS        *nats.Conn
	Cache       *valkey.Cache

	// DirectionsEnabled reports whether trip planning is configured.
	DirectionsEnabled bool
}
