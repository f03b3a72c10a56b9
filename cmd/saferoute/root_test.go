package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"assess", "hazards", "audit"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "saferoute", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestAssessCommand_Flags(t *testing.T) {
	for _, name := range []string{"points", "polyline", "geojson"} {
		assert.NotNil(t, assessCmd.Flags().Lookup(name), "assess should have --%s flag", name)
	}
}

func TestAuditCommand_Flags(t *testing.T) {
	mode := auditCmd.Flags().Lookup("mode")
	require.NotNil(t, mode)
	assert.Equal(t, "walking", mode.DefValue)

	wait := auditCmd.Flags().Lookup("wait")
	require.NotNil(t, wait)
	assert.Equal(t, "false", wait.DefValue)
}

func TestParsePoints(t *testing.T) {
	route, err := parsePoints("-11.984,-77.007; -11.985 , -77.005;")
	require.NoError(t, err)
	assert.Equal(t, domain.Route{
		{Lat: -11.984, Lon: -77.007},
		{Lat: -11.985, Lon: -77.005},
	}, route)
}

func TestParsePoints_Errors(t *testing.T) {
	for _, in := range []string{"-11.984", "a,-77.0", "-11.984,b", "1,2,3"} {
		_, err := parsePoints(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParsePoints_Empty(t *testing.T) {
	route, err := parsePoints("")
	require.NoError(t, err)
	assert.Empty(t, route)
}

func TestTripRequestFromFlags(t *testing.T) {
	newCmd := func() *cobra.Command {
		c := &cobra.Command{}
		c.Flags().String("origin", "", "")
		c.Flags().String("destination", "", "")
		c.Flags().String("mode", "walking", "")
		return c
	}

	c := newCmd()
	require.NoError(t, c.Flags().Set("origin", "-11.984,-77.007"))
	require.NoError(t, c.Flags().Set("destination", "-11.990,-77.000"))
	require.NoError(t, c.Flags().Set("mode", "DRIVING"))

	req, err := tripRequestFromFlags(c)
	require.NoError(t, err)
	assert.Equal(t, domain.GeoPoint{Lat: -11.984, Lon: -77.007}, req.Origin)
	assert.Equal(t, domain.GeoPoint{Lat: -11.990, Lon: -77.000}, req.Destination)
	assert.Equal(t, domain.TravelDriving, req.Mode)

	bad := newCmd()
	require.NoError(t, bad.Flags().Set("origin", "-11.984,-77.007"))
	require.NoError(t, bad.Flags().Set("destination", "-11.990,-77.000"))
	require.NoError(t, bad.Flags().Set("mode", "teleport"))
	_, err = tripRequestFromFlags(bad)
	assert.ErrorContains(t, err, "--mode")
}

func TestFormatAssessment(t *testing.T) {
	ra := &domain.RouteAssessment{
		Assessment: domain.RiskAssessment{Score: 13, Label: domain.LabelDangerous, TriggeredZoneIDs: []int{1, 4}},
		Segments: []domain.ColoredSegment{
			{From: domain.GeoPoint{Lat: -11.984, Lon: -77.007}, To: domain.GeoPoint{Lat: -11.985, Lon: -77.005}, Color: domain.ColorOrange},
		},
		Warning: &domain.HazardWarning{Message: "route passes near 2 hazard zones"},
	}

	var buf bytes.Buffer
	formatAssessment(&buf, ra)

	out := buf.String()
	assert.Contains(t, out, "13/100 (dangerous)")
	assert.Contains(t, out, "Zones:  1, 4")
	assert.Contains(t, out, "Alert:  route passes near 2 hazard zones")
	assert.Contains(t, out, "COLOR")
	assert.Contains(t, out, "-11.984000,-77.007000")
	assert.Contains(t, out, "orange")
}

func TestFormatAssessment_Clean(t *testing.T) {
	ra := &domain.RouteAssessment{
		Assessment: domain.RiskAssessment{Score: 100, Label: domain.LabelSafe, TriggeredZoneIDs: []int{}},
	}

	var buf bytes.Buffer
	formatAssessment(&buf, ra)

	assert.Contains(t, buf.String(), "100/100 (safe)")
	assert.Contains(t, buf.String(), "Zones:  none")
	assert.NotContains(t, buf.String(), "Alert")
	assert.NotContains(t, buf.String(), "COLOR")
}

func TestFormatHazards(t *testing.T) {
	zones := []domain.HazardZone{
		{ID: 1, Lat: -11.984, Lon: -77.007, Category: domain.CategoryHarassment, ThresholdMeters: 50, Weight: 30, Description: "Av. Universitaria"},
		{ID: 2, Lat: -11.985, Lon: -77.005, Category: domain.CategoryCrime, ThresholdMeters: 50, Weight: 50},
	}

	var buf bytes.Buffer
	formatHazards(&buf, zones)

	out := buf.String()
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "harassment")
	assert.Contains(t, out, "Av. Universitaria")
	assert.Contains(t, out, "crime")
	assert.Contains(t, out, "2 zones")
}
