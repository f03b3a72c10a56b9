package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/saferoute/internal/adapters/catalog"
	"github.com/samirrijal/saferoute/internal/adapters/directions"
	natsadapter "github.com/samirrijal/saferoute/internal/adapters/nats"
	"github.com/samirrijal/saferoute/internal/adapters/valkey"
	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/ports"
	"github.com/samirrijal/saferoute/internal/core/usecases"
	"github.com/samirrijal/saferoute/internal/pkg/config"
	"github.com/samirrijal/saferoute/internal/pkg/logging"
	"github.com/samirrijal/saferoute/internal/workflows"
)

// auditDurable is the JetStream consumer that records every published warning.
const auditDurable = "warning-auditor"

func main() {
	cfg, err := config.Load("saferoute-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !cfg.Directions.Enabled() {
		log.Fatalf("directions api key not set: trip audits need a directions provider")
	}

	hazards, err := catalog.NewStatic(cfg.Hazards)
	if err != nil {
		log.Fatalf("hazard catalog: %v", err)
	}

	opts := []directions.Option{
		directions.WithBaseURL(cfg.Directions.BaseURL),
		directions.WithHTTPClient(&nethttp.Client{Timeout: time.Duration(cfg.Directions.Timeout) * time.Second}),
		directions.WithRateLimit(cfg.Directions.RatePerSecond, cfg.Directions.Burst),
		directions.WithRetries(cfg.Directions.Retries),
	}
	if cache, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		opts = append(opts, directions.WithCache(cache, cfg.Directions.CacheTTL))
	}
	planner := directions.NewGoogle(cfg.Directions.APIKey, opts...)

	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, warnings will only be logged", "error", err)
	} else {
		publisher = pub
		defer pub.Close()
	}

	// Warning audit log
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		slog.Warn("warning auditor disabled", "error", err)
	} else {
		defer sub.Close()
		if err := startAuditor(ctx, sub); err != nil {
			slog.Warn("warning auditor subscribe failed", "error", err)
		}
	}

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// The assessor publishes nothing itself; PublishWarning owns delivery.
	w.RegisterWorkflow(workflows.TripAuditWorkflow)
	w.RegisterActivity(&workflows.TripAuditActivities{
		Assessor:  usecases.NewAssessmentService(hazards, planner, nil, cfg.Scoring),
		Publisher: publisher,
	})

	slog.Info("trip audit worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

// startAuditor logs every warning delivered to the durable audit consumer.
func startAuditor(ctx context.Context, sub ports.WarningSubscriber) error {
	return sub.SubscribeHazardWarnings(ctx, auditDurable, func(_ context.Context, w *domain.HazardWarning) error {
		slog.Info("hazard warning",
			"warning_id", w.ID,
			"score", w.Score,
			"label", w.Label,
			"zones", w.TriggeredZoneIDs,
		)
		return nil
	})
}
