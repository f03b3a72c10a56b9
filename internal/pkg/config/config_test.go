package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/safety"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load("saferoute-api", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, safety.DefaultParams(), cfg.Scoring)
	assert.Equal(t, "saferoute-api", cfg.Telemetry.ServiceName)
	assert.False(t, cfg.Directions.Enabled())

	require.Len(t, cfg.Hazards, 9)
	first := cfg.Hazards[0]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, -11.984, first.Lat)
	assert.Equal(t, -77.007, first.Lon)
	assert.Equal(t, domain.CategoryHarassment, first.Category)
	assert.Equal(t, 100.0, first.ThresholdMeters)
	assert.Equal(t, 30.0, first.Weight)
	assert.Equal(t, domain.CategoryVandalism, cfg.Hazards[8].Category)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9000
scoring:
  zone_weight_ceiling: 100
hazards:
  - id: 7
    lat: 40.0
    lon: -3.7
    category: crime
    threshold_meters: 250
    weight: 80
directions:
  api_key: abc
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := load("svc", dir)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 100.0, cfg.Scoring.ZoneWeightCeiling)
	assert.Equal(t, 75, cfg.Scoring.SafeMinScore)
	require.Len(t, cfg.Hazards, 1)
	assert.Equal(t, domain.HazardZone{
		ID: 7, Lat: 40.0, Lon: -3.7, Category: domain.CategoryCrime, ThresholdMeters: 250, Weight: 80,
	}, cfg.Hazards[0])
	assert.True(t, cfg.Directions.Enabled())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("SAFEROUTE_SERVER_PORT", "9191")
	t.Setenv("SAFEROUTE_DIRECTIONS_API_KEY", "from-env")

	cfg, err := load("svc", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Directions.APIKey)
}

func validConfig() Config {
	return Config{
		Server:  ServerConfig{Port: 8080, ReadTimeout: 10, WriteTimeout: 10},
		Scoring: safety.DefaultParams(),
		Hazards: []domain.HazardZone{
			{ID: 1, Lat: -11.984, Lon: -77.007, Category: domain.CategoryCrime, ThresholdMeters: 100, Weight: 30},
		},
		NATS:     NATSConfig{URL: "nats://localhost:4222"},
		Valkey:   ValkeyConfig{Addr: "localhost:6379"},
		Temporal: TemporalConfig{TaskQueue: "trip-audit"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Hazards = nil
	assert.NoError(t, cfg.Validate(), "an empty catalog is valid")
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"no nats", func(c *Config) { c.NATS.URL = "" }, "nats.url"},
		{"zero ceiling", func(c *Config) { c.Scoring.ZoneWeightCeiling = 0 }, "zone_weight_ceiling"},
		{"bands inverted", func(c *Config) { c.Scoring.ModerateMinScore = 80 }, "scoring bands"},
		{"cut-offs inverted", func(c *Config) { c.Scoring.OrangeAbove = 60 }, "cut-offs"},
		{"nan lat", func(c *Config) { c.Hazards[0].Lat = math.NaN() }, "lat must be"},
		{"lon out of range", func(c *Config) { c.Hazards[0].Lon = 200 }, "lon must be"},
		{"zero threshold", func(c *Config) { c.Hazards[0].ThresholdMeters = 0 }, "threshold_meters"},
		{"negative weight", func(c *Config) { c.Hazards[0].Weight = -1 }, "weight must be"},
		{"unknown category", func(c *Config) { c.Hazards[0].Category = "arson" }, "unknown category"},
		{"duplicate id", func(c *Config) { c.Hazards = append(c.Hazards, c.Hazards[0]) }, "duplicate id"},
		{"directions without url", func(c *Config) {
			c.Directions = DirectionsConfig{APIKey: "k", Timeout: 5}
		}, "directions.base_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = -1
	cfg.Hazards[0].Weight = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, 2, strings.Count(err.Error(), "\n  - "))
}
