package safety

// Params tunes the scoring model. The zero value is not usable; start from
// DefaultParams.
type Params struct {
	// ZoneWeightCeiling is the weight each catalog zone is assumed to carry at
	// most. The score is normalized against ZoneWeightCeiling * len(zones).
	ZoneWeightCeiling float64 `mapstructure:"zone_weight_ceiling"`

	// Label bands, applied to the rounded score. Lower bounds are inclusive.
	SafeMinScore     int `mapstructure:"safe_min_score"`
	ModerateMinScore int `mapstructure:"moderate_min_score"`

	// Segment color cut-offs on the local weight total. Exclusive.
	OrangeAbove float64 `mapstructure:"segment_orange_above"`
	RedAbove    float64 `mapstructure:"segment_red_above"`
}

// DefaultParams returns the calibrated defaults.
func DefaultParams() Params {
	return Params{
		ZoneWeightCeiling: 50,
		SafeMinScore:      75,
		ModerateMinScore:  50,
		OrangeAbove:       20,
		RedAbove:          50,
	}
}
