package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/ports"
)

// TripAssessor plans and scores a trip. *usecases.AssessmentService satisfies it.
type TripAssessor interface {
	AssessTrip(ctx context.Context, req domain.TripRequest) ([]domain.RouteAssessment, error)
}

// TripAuditActivities holds the activity implementations for the trip audit workflow.
// Assessor should be built without a publisher; PublishWarning owns event delivery.
type TripAuditActivities struct {
	Assessor  TripAssessor
	Publisher ports.EventPublisher
}

// AssessTrip plans the trip and returns the recommended route with the number
// of alternatives considered.
func (a *TripAuditActivities) AssessTrip(ctx context.Context, req domain.TripRequest) (*TripAuditResult, error) {
	results, err := a.Assessor.AssessTrip(ctx, req)
	if errors.Is(err, domain.ErrNoRoute) || errors.Is(err, domain.ErrInvalidRoute) || errors.Is(err, domain.ErrInvalidInput) {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), "TripNotAssessable", err)
	}
	if err != nil {
		return nil, fmt.Errorf("assess trip: %w", err)
	}
	return &TripAuditResult{
		Recommended:  results[0],
		Alternatives: len(results),
	}, nil
}

// PublishWarning delivers a hazard warning to the broker.
func (a *TripAuditActivities) PublishWarning(ctx context.Context, w domain.HazardWarning) error {
	if a.Publisher == nil {
		slog.Info("WARNING (no publisher)", "warning_id", w.ID, "score", w.Score, "message", w.Message)
		return nil
	}
	if err := a.Publisher.PublishHazardWarning(ctx, &w); err != nil {
		return fmt.Errorf("publish warning %s: %w", w.ID, err)
	}
	return nil
}
