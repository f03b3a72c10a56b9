package safety_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/safety"
)

var (
	limaCenter = domain.GeoPoint{Lat: -11.984, Lon: -77.007}
	limaFar    = domain.GeoPoint{Lat: -11.985, Lon: -77.005} // ~244 m from limaCenter
)

func zone(id int, p domain.GeoPoint, weight float64) domain.HazardZone {
	return domain.HazardZone{
		ID:              id,
		Lat:             p.Lat,
		Lon:             p.Lon,
		Category:        domain.CategoryHarassment,
		ThresholdMeters: 100,
		Weight:          weight,
	}
}

// spreadZones returns zones about 1.1 km apart along a meridian.
func spreadZones(weights ...float64) []domain.HazardZone {
	zones := make([]domain.HazardZone, len(weights))
	for i, w := range weights {
		zones[i] = zone(i+1, domain.GeoPoint{Lat: -12.0 - 0.01*float64(i), Lon: -77.0}, w)
	}
	return zones
}

func TestScore_NoZones(t *testing.T) {
	got := safety.Score(domain.Route{{Lat: -11.985, Lon: -77.005}}, nil)

	assert.Equal(t, 100, got.Score)
	assert.Equal(t, domain.LabelSafe, got.Label)
	assert.Empty(t, got.TriggeredZoneIDs)
}

func TestScore_EmptyRoute(t *testing.T) {
	got := safety.Score(domain.Route{}, spreadZones(30, 50, 20))

	assert.Equal(t, 100, got.Score)
	assert.Equal(t, domain.LabelSafe, got.Label)
	assert.Empty(t, got.TriggeredZoneIDs)
}

func TestScore_SingleZoneAtCenter(t *testing.T) {
	zones := []domain.HazardZone{zone(1, limaCenter, 30)}

	got := safety.Score(domain.Route{limaCenter}, zones)

	// 100 - 100*ln(31)/ln(51) = 12.66
	assert.InDelta(t, 12.66, safety.DefaultParams().Percentage(30, 1), 0.01)
	assert.Equal(t, 13, got.Score)
	assert.Equal(t, domain.LabelDangerous, got.Label)
	assert.Equal(t, []int{1}, got.TriggeredZoneIDs)
}

func TestScore_FarPointNotTriggered(t *testing.T) {
	zones := []domain.HazardZone{zone(1, limaCenter, 30)}

	got := safety.Score(domain.Route{limaFar}, zones)

	assert.Equal(t, 100, got.Score)
	assert.Empty(t, got.TriggeredZoneIDs)
}

func TestScore_TwoZonesTriggered(t *testing.T) {
	zones := spreadZones(30, 50)
	route := domain.Route{zones[1].Center(), zones[0].Center()}

	got := safety.Score(route, zones)

	// 100 - 100*ln(81)/ln(101) = 4.78
	assert.Equal(t, 5, got.Score)
	assert.Equal(t, []int{1, 2}, got.TriggeredZoneIDs)
}

func TestScore_DuplicatePointsDoNotDoubleCount(t *testing.T) {
	zones := spreadZones(30, 50, 20)
	once := domain.Route{zones[0].Center(), limaFar}
	twice := domain.Route{zones[0].Center(), zones[0].Center(), zones[0].Center(), limaFar}

	a := safety.Score(once, zones)
	b := safety.Score(twice, zones)

	assert.Equal(t, a, b)
	assert.Equal(t, []int{1}, b.TriggeredZoneIDs)
}

func TestScore_DuplicateZoneIDsCountedOnce(t *testing.T) {
	zones := []domain.HazardZone{zone(7, limaCenter, 30), zone(7, limaCenter, 30)}

	got := safety.Score(domain.Route{limaCenter}, zones)

	assert.Equal(t, []int{7}, got.TriggeredZoneIDs)
	assert.Equal(t, int(safety.DefaultParams().Percentage(30, 2)+0.5), got.Score)
}

func TestScore_OnlyCatalogIDsTriggered(t *testing.T) {
	zones := spreadZones(10, 20, 30, 40)
	route := domain.Route{zones[2].Center(), zones[0].Center()}

	got := safety.Score(route, zones)

	assert.Equal(t, []int{1, 3}, got.TriggeredZoneIDs)
	for _, id := range got.TriggeredZoneIDs {
		assert.Contains(t, []int{1, 2, 3, 4}, id)
	}
}

func TestScore_MonotonicAsMoreZonesTrigger(t *testing.T) {
	zones := spreadZones(10, 20, 30, 40)

	prev := 101
	route := domain.Route{}
	for _, z := range zones {
		route = append(route, z.Center())
		got := safety.Score(route, zones)
		require.LessOrEqual(t, got.Score, prev, "score rose after triggering zone %d", z.ID)
		prev = got.Score
	}
}

func TestScore_ThresholdIsStrict(t *testing.T) {
	z := zone(1, limaCenter, 30)
	z.ThresholdMeters = safety.Distance(limaFar, z)

	got := safety.Score(domain.Route{limaFar}, []domain.HazardZone{z})

	assert.Empty(t, got.TriggeredZoneIDs)
}

func TestParams_Label(t *testing.T) {
	p := safety.DefaultParams()

	tests := []struct {
		score int
		want  domain.SafetyLabel
	}{
		{0, domain.LabelDangerous},
		{49, domain.LabelDangerous},
		{50, domain.LabelModerate},
		{74, domain.LabelModerate},
		{75, domain.LabelSafe},
		{100, domain.LabelSafe},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Label(tt.score), "score %d", tt.score)
	}
}

func TestParams_PercentageClampsAtZero(t *testing.T) {
	p := safety.DefaultParams()

	// weight above the ceiling would go negative without the clamp
	assert.Equal(t, 0.0, p.Percentage(500, 1))
}

func TestParams_TunedCeiling(t *testing.T) {
	zones := []domain.HazardZone{zone(1, limaCenter, 30)}
	p := safety.DefaultParams()
	p.ZoneWeightCeiling = 1000

	got := p.Score(domain.Route{limaCenter}, zones)

	// 100 - 100*ln(31)/ln(1001) = 50.29
	assert.Equal(t, 50, got.Score)
	assert.Equal(t, domain.LabelModerate, got.Label)
}
