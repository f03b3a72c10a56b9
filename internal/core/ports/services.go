package ports

import (
	"context"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

// EventPublisher publishes hazard warnings to a message broker.
type EventPublisher interface {
	PublishHazardWarning(ctx context.Context, w *domain.HazardWarning) error
}

// WarningHandler processes one delivered warning. A returned error asks the
// broker to redeliver it.
type WarningHandler func(ctx context.Context, w *domain.HazardWarning) error

// WarningSubscriber attaches durable consumers to the warning feed.
type WarningSubscriber interface {
	SubscribeHazardWarnings(ctx context.Context, durable string, handler WarningHandler) error
}

// CacheService stores opaque values under a key. A missing key is a nil
// value with a nil error; ttlSeconds <= 0 stores nothing.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
