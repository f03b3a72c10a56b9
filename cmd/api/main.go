package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/saferoute/internal/adapters/catalog"
	"github.com/samirrijal/saferoute/internal/adapters/directions"
	"github.com/samirrijal/saferoute/internal/adapters/http"
	natsadapter "github.com/samirrijal/saferoute/internal/adapters/nats"
	"github.com/samirrijal/saferoute/internal/adapters/valkey"
	"github.com/samirrijal/saferoute/internal/core/ports"
	"github.com/samirrijal/saferoute/internal/core/usecases"
	"github.com/samirrijal/saferoute/internal/pkg/config"
	"github.com/samirrijal/saferoute/internal/pkg/logging"
	"github.com/samirrijal/saferoute/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("saferoute-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Hazard catalog
	hazards, err := catalog.NewStatic(cfg.Hazards)
	if err != nil {
		log.Fatalf("hazard catalog: %v", err)
	}
	slog.Info("hazard catalog loaded", "zones", hazards.Len())

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	// Directions provider (optional)
	var planner ports.DirectionsProvider
	if cfg.Directions.Enabled() {
		opts := []directions.Option{
			directions.WithBaseURL(cfg.Directions.BaseURL),
			directions.WithHTTPClient(&nethttp.Client{Timeout: time.Duration(cfg.Directions.Timeout) * time.Second}),
			directions.WithRateLimit(cfg.Directions.RatePerSecond, cfg.Directions.Burst),
			directions.WithRetries(cfg.Directions.Retries),
		}
		if cache != nil {
			opts = append(opts, directions.WithCache(cache, cfg.Directions.CacheTTL))
		}
		planner = directions.NewGoogle(cfg.Directions.APIKey, opts...)
	} else {
		slog.Info("directions api key not set, trip planning disabled")
	}

	// NATS
	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		publisher = pub
		defer pub.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
		natsConn = nil
	} else {
		defer natsConn.Close()
	}

	// Use cases
	hazardSvc := usecases.NewHazardService(hazards)
	assessmentSvc := usecases.NewAssessmentService(hazards, planner, publisher, cfg.Scoring)

	deps := &http.Dependencies{
		Hazards:           hazardSvc,
		Assessments:       assessmentSvc,
		NATS:              natsConn,
		Cache:             cache,
		DirectionsEnabled: planner != nil,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "SafeRoute API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
