package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

// TripAuditResult is the outcome of a trip audit.
type TripAuditResult struct {
	Recommended  domain.RouteAssessment `json:"recommended"`
	Alternatives int                    `json:"alternatives"`
	Published    bool                   `json:"published"`
}

// TripAuditWorkflow plans a trip, scores every alternative and publishes a
// hazard warning when the recommended route still passes near a zone.
// A failed publish does not fail the audit.
func TripAuditWorkflow(ctx workflow.Context, req domain.TripRequest) (*TripAuditResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting trip audit workflow", "mode", req.Mode)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: plan and assess
	var result TripAuditResult
	if err := workflow.ExecuteActivity(ctx, "AssessTrip", req).Get(ctx, &result); err != nil {
		return nil, err
	}

	// Step 2: warn when the best route is still hazardous
	w := result.Recommended.Warning
	if w == nil {
		logger.Info("Trip audit clean", "score", result.Recommended.Assessment.Score)
		return &result, nil
	}

	if err := workflow.ExecuteActivity(ctx, "PublishWarning", *w).Get(ctx, nil); err != nil {
		logger.Warn("publish warning failed", "warning_id", w.ID, "error", err)
		return &result, nil
	}
	result.Published = true

	logger.Info("Trip audit warning published", "warning_id", w.ID, "score", result.Recommended.Assessment.Score)
	return &result, nil
}
