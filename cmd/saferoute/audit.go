package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/workflows"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Start a trip audit on the worker",
	Long: `Plan a trip with the directions provider on the Temporal worker, score every
alternative and publish a hazard warning when the safest route still crosses
a zone.

Examples:
  saferoute audit --origin "-11.984,-77.007" --destination "-11.990,-77.000"
  saferoute audit --origin "-11.984,-77.007" --destination "-11.990,-77.000" --mode driving --wait`,
	RunE: runAudit,
}

func init() {
	f := auditCmd.Flags()
	f.String("origin", "", `trip origin as "lat,lon"`)
	f.String("destination", "", `trip destination as "lat,lon"`)
	f.String("mode", "walking", "travel mode: walking, driving, bicycling or transit")
	f.Bool("wait", false, "wait for the audit to finish and print the result")
	_ = auditCmd.MarkFlagRequired("origin")
	_ = auditCmd.MarkFlagRequired("destination")

	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	req, err := tripRequestFromFlags(cmd)
	if err != nil {
		return err
	}
	wait, _ := cmd.Flags().GetBool("wait")

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("temporal client: %w", err)
	}
	defer c.Close()

	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        "trip-audit-" + uuid.NewString(),
		TaskQueue: cfg.Temporal.TaskQueue,
	}, workflows.TripAuditWorkflow, req)
	if err != nil {
		return fmt.Errorf("start trip audit: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "started trip audit %s (run %s)\n", run.GetID(), run.GetRunID())
	if !wait {
		return nil
	}

	var result workflows.TripAuditResult
	if err := run.Get(ctx, &result); err != nil {
		return fmt.Errorf("trip audit %s: %w", run.GetID(), err)
	}
	fmt.Fprintf(out, "alternatives considered: %d\n", result.Alternatives)
	fmt.Fprintf(out, "warning published: %t\n\n", result.Published)
	formatAssessment(out, &result.Recommended)
	return nil
}

func tripRequestFromFlags(cmd *cobra.Command) (domain.TripRequest, error) {
	originFlag, _ := cmd.Flags().GetString("origin")
	destFlag, _ := cmd.Flags().GetString("destination")
	modeFlag, _ := cmd.Flags().GetString("mode")

	origin, err := parsePoint(originFlag)
	if err != nil {
		return domain.TripRequest{}, fmt.Errorf("--origin: %w", err)
	}
	dest, err := parsePoint(destFlag)
	if err != nil {
		return domain.TripRequest{}, fmt.Errorf("--destination: %w", err)
	}
	mode, ok := domain.ParseTravelMode(strings.ToLower(modeFlag))
	if !ok {
		return domain.TripRequest{}, fmt.Errorf("--mode: unknown travel mode %q", modeFlag)
	}
	return domain.TripRequest{Origin: origin, Destination: dest, Mode: mode}, nil
}

// parsePoint parses a single "lat,lon".
func parsePoint(s string) (domain.GeoPoint, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return domain.GeoPoint{}, fmt.Errorf("expected lat,lon, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("invalid latitude %q", parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("invalid longitude %q", parts[1])
	}
	return domain.GeoPoint{Lat: lat, Lon: lon}, nil
}
