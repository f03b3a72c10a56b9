package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/samirrijal/saferoute/internal/adapters/catalog"
	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/usecases"
	"github.com/samirrijal/saferoute/internal/pkg/geospatial"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Score and color a route against the hazard catalog",
	Long: `Score a route given as points or as a Google encoded polyline.

Examples:
  # Two points in Comas, Lima
  saferoute assess --points "-11.984,-77.007;-11.985,-77.005"

  # Encoded polyline, segments written as GeoJSON
  saferoute assess --polyline "_p~iF~ps|U_ulLnnqC" --geojson route.geojson`,
	RunE: runAssess,
}

func init() {
	f := assessCmd.Flags()
	f.String("points", "", `route points as "lat,lon;lat,lon;..."`)
	f.String("polyline", "", "route as a Google encoded polyline")
	f.String("geojson", "", "write colored segments as a GeoJSON FeatureCollection to this file")
	assessCmd.MarkFlagsMutuallyExclusive("points", "polyline")

	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, _ []string) error {
	pointsFlag, _ := cmd.Flags().GetString("points")
	polylineFlag, _ := cmd.Flags().GetString("polyline")
	geojsonPath, _ := cmd.Flags().GetString("geojson")

	if pointsFlag == "" && polylineFlag == "" {
		return errors.New("one of --points or --polyline is required")
	}

	hazards, err := catalog.NewStatic(cfg.Hazards)
	if err != nil {
		return fmt.Errorf("hazard catalog: %w", err)
	}
	svc := usecases.NewAssessmentService(hazards, nil, nil, cfg.Scoring)

	var ra *domain.RouteAssessment
	if polylineFlag != "" {
		ra, err = svc.AssessPolyline(cmd.Context(), polylineFlag)
	} else {
		route, perr := parsePoints(pointsFlag)
		if perr != nil {
			return perr
		}
		ra, err = svc.AssessPoints(cmd.Context(), route)
	}
	if err != nil {
		return err
	}

	formatAssessment(cmd.OutOrStdout(), ra)

	if geojsonPath != "" {
		data, err := geospatial.SegmentsToGeoJSON(ra.Segments)
		if err != nil {
			return fmt.Errorf("encode geojson: %w", err)
		}
		if err := os.WriteFile(geojsonPath, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", geojsonPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nwrote %d segments to %s\n", len(ra.Segments), geojsonPath)
	}
	return nil
}

// parsePoints parses "lat,lon;lat,lon;...". Blank entries are skipped.
func parsePoints(s string) (domain.Route, error) {
	var route domain.Route
	for i, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		p, err := parsePoint(pair)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		route = append(route, p)
	}
	return route, nil
}

// formatAssessment writes the score summary followed by a segment table.
func formatAssessment(w io.Writer, ra *domain.RouteAssessment) {
	a := ra.Assessment
	fmt.Fprintf(w, "Score:  %d/100 (%s)\n", a.Score, a.Label)
	if len(a.TriggeredZoneIDs) == 0 {
		fmt.Fprintln(w, "Zones:  none")
	} else {
		ids := make([]string, len(a.TriggeredZoneIDs))
		for i, id := range a.TriggeredZoneIDs {
			ids[i] = strconv.Itoa(id)
		}
		fmt.Fprintf(w, "Zones:  %s\n", strings.Join(ids, ", "))
	}
	if ra.Warning != nil {
		fmt.Fprintf(w, "Alert:  %s\n", ra.Warning.Message)
	}
	if len(ra.Segments) == 0 {
		return
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tFROM\tTO\tCOLOR")
	for i, seg := range ra.Segments {
		fmt.Fprintf(tw, "%d\t%.6f,%.6f\t%.6f,%.6f\t%s\n",
			i, seg.From.Lat, seg.From.Lon, seg.To.Lat, seg.To.Lon, seg.Color)
	}
	_ = tw.Flush()
}
