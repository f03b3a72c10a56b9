package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/samirrijal/saferoute/internal/adapters/catalog"
	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/usecases"
)

var hazardsCmd = &cobra.Command{
	Use:   "hazards",
	Short: "List the configured hazard zones",
	RunE:  runHazards,
}

func init() {
	hazardsCmd.Flags().String("category", "", "only list zones of this category")
	rootCmd.AddCommand(hazardsCmd)
}

func runHazards(cmd *cobra.Command, _ []string) error {
	category, _ := cmd.Flags().GetString("category")

	hazards, err := catalog.NewStatic(cfg.Hazards)
	if err != nil {
		return fmt.Errorf("hazard catalog: %w", err)
	}
	zones, err := usecases.NewHazardService(hazards).ListByCategory(cmd.Context(), domain.HazardCategory(category))
	if err != nil {
		return err
	}

	formatHazards(cmd.OutOrStdout(), zones)
	return nil
}

func formatHazards(w io.Writer, zones []domain.HazardZone) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tCENTER\tRADIUS (m)\tWEIGHT\tDESCRIPTION")
	for _, z := range zones {
		fmt.Fprintf(tw, "%d\t%s\t%.6f,%.6f\t%.0f\t%.0f\t%s\n",
			z.ID, z.Category, z.Lat, z.Lon, z.ThresholdMeters, z.Weight, z.Description)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "\n%d zones\n", len(zones))
}
