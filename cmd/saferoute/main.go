package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/samirrijal/saferoute/internal/pkg/config"
	"github.com/samirrijal/saferoute/internal/pkg/logging"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "saferoute",
	Short: "Score routes against a catalog of hazardous zones",
	Long: `Scores a route from 0 (most dangerous) to 100 (safest) against the
configured hazard catalog, colors every segment green, orange or red, and
starts trip audits on the Temporal worker.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load("saferoute-cli")
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		// stdout carries command output
		slog.SetDefault(logging.New(os.Stderr, cfg.Log.Level, "text"))
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
