package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"

	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/safety"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig        `mapstructure:"server"`
	Scoring    safety.Params       `mapstructure:"scoring"`
	Hazards    []domain.HazardZone `mapstructure:"hazards"`
	Directions DirectionsConfig    `mapstructure:"directions"`
	NATS       NATSConfig          `mapstructure:"nats"`
	Valkey     ValkeyConfig        `mapstructure:"valkey"`
	Temporal   TemporalConfig      `mapstructure:"temporal"`
	Telemetry  TelemetryConfig     `mapstructure:"telemetry"`
	Log        LogConfig           `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// DirectionsConfig configures the route planning provider. An empty APIKey
// disables trip planning.
type DirectionsConfig struct {
	BaseURL       string  `mapstructure:"base_url"`
	APIKey        string  `mapstructure:"api_key"`
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`
	Retries       int     `mapstructure:"retries"`
	CacheTTL      int     `mapstructure:"cache_ttl"`
	Timeout       int     `mapstructure:"timeout"`
}

// Enabled reports whether a directions provider can be built.
func (d DirectionsConfig) Enabled() bool {
	return d.APIKey != ""
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	return load(service, ".", "./configs")
}

func load(service string, paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: SAFEROUTE_DIRECTIONS_API_KEY → directions.api_key
	v.SetEnvPrefix("SAFEROUTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)

	def := safety.DefaultParams()
	v.SetDefault("scoring.zone_weight_ceiling", def.ZoneWeightCeiling)
	v.SetDefault("scoring.safe_min_score", def.SafeMinScore)
	v.SetDefault("scoring.moderate_min_score", def.ModerateMinScore)
	v.SetDefault("scoring.segment_orange_above", def.OrangeAbove)
	v.SetDefault("scoring.segment_red_above", def.RedAbove)

	v.SetDefault("hazards", defaultHazards())

	v.SetDefault("directions.base_url", "https://maps.googleapis.com/maps/api/directions/json")
	v.SetDefault("directions.api_key", "")
	v.SetDefault("directions.rate_per_second", 10)
	v.SetDefault("directions.burst", 10)
	v.SetDefault("directions.retries", 2)
	v.SetDefault("directions.cache_ttl", 300)
	v.SetDefault("directions.timeout", 10)

	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "trip-audit")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// defaultHazards is the reference catalog around Comas, Lima.
func defaultHazards() []map[string]any {
	zone := func(id int, lat, lon float64, cat domain.HazardCategory, weight float64, desc string) map[string]any {
		return map[string]any{
			"id": id, "lat": lat, "lon": lon, "category": string(cat),
			"threshold_meters": 100.0, "weight": weight, "description": desc,
		}
	}
	return []map[string]any{
		zone(1, -11.984, -77.007, domain.CategoryHarassment, 30, "Zona peligrosa 1"),
		zone(2, -11.982, -77.003, domain.CategoryCrime, 50, "Zona peligrosa 2"),
		zone(3, -11.980, -77.004, domain.CategoryDrugs, 20, "Tienda 1"),
		zone(4, -11.979, -77.005, domain.CategoryHomeBurglary, 40, "Robo a Casa"),
		zone(5, -11.978, -77.006, domain.CategoryCommercialRobbery, 45, "Robo a Comercio"),
		zone(6, -11.977, -77.007, domain.CategoryStreetRobbery, 35, "Robo a Persona"),
		zone(7, -11.976, -77.008, domain.CategoryVehicleTheft, 30, "Robo a Vehículo"),
		zone(8, -11.975, -77.009, domain.CategorySuspiciousActivity, 25, "Sospechoso"),
		zone(9, -11.974, -77.010, domain.CategoryVandalism, 30, "Vandalismo"),
	}
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Temporal.TaskQueue == "" {
		errs = append(errs, "temporal.task_queue is required")
	}

	errs = append(errs, validateScoring(c.Scoring)...)
	errs = append(errs, validateHazards(c.Hazards)...)

	if c.Directions.Enabled() {
		if c.Directions.BaseURL == "" {
			errs = append(errs, "directions.base_url is required when directions.api_key is set")
		}
		if c.Directions.Timeout <= 0 {
			errs = append(errs, "directions.timeout must be positive")
		}
		if c.Directions.CacheTTL < 0 {
			errs = append(errs, "directions.cache_ttl must not be negative")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func validateScoring(p safety.Params) []string {
	var errs []string
	if !(p.ZoneWeightCeiling > 0) || math.IsInf(p.ZoneWeightCeiling, 0) {
		errs = append(errs, fmt.Sprintf("scoring.zone_weight_ceiling must be positive and finite, got %v", p.ZoneWeightCeiling))
	}
	if p.ModerateMinScore < 0 || p.ModerateMinScore >= p.SafeMinScore || p.SafeMinScore > 100 {
		errs = append(errs, fmt.Sprintf("scoring bands must satisfy 0 <= moderate_min_score < safe_min_score <= 100, got %d and %d",
			p.ModerateMinScore, p.SafeMinScore))
	}
	if p.OrangeAbove < 0 || p.OrangeAbove >= p.RedAbove {
		errs = append(errs, fmt.Sprintf("scoring segment cut-offs must satisfy 0 <= orange < red, got %v and %v",
			p.OrangeAbove, p.RedAbove))
	}
	return errs
}

// validateHazards enforces the catalog contract the scorer relies on.
func validateHazards(zones []domain.HazardZone) []string {
	var errs []string
	seen := make(map[int]bool, len(zones))
	for i, z := range zones {
		prefix := fmt.Sprintf("hazards[%d] (id %d)", i, z.ID)
		if seen[z.ID] {
			errs = append(errs, prefix+": duplicate id")
		}
		seen[z.ID] = true

		if !finite(z.Lat) || z.Lat < -90 || z.Lat > 90 {
			errs = append(errs, fmt.Sprintf("%s: lat must be within [-90, 90], got %v", prefix, z.Lat))
		}
		if !finite(z.Lon) || z.Lon < -180 || z.Lon > 180 {
			errs = append(errs, fmt.Sprintf("%s: lon must be within [-180, 180], got %v", prefix, z.Lon))
		}
		if !finite(z.ThresholdMeters) || z.ThresholdMeters <= 0 {
			errs = append(errs, fmt.Sprintf("%s: threshold_meters must be positive, got %v", prefix, z.ThresholdMeters))
		}
		if !finite(z.Weight) || z.Weight <= 0 {
			errs = append(errs, fmt.Sprintf("%s: weight must be positive, got %v", prefix, z.Weight))
		}
		if !z.Category.Valid() {
			errs = append(errs, fmt.Sprintf("%s: unknown category %q", prefix, z.Category))
		}
	}
	return errs
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
