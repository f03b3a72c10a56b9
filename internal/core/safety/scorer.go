package safety

import (
	"math"
	"slices"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

// Score assesses a whole route with DefaultParams.
func Score(route domain.Route, zones []domain.HazardZone) domain.RiskAssessment {
	return DefaultParams().Score(route, zones)
}

// Score assesses a whole route. A zone is triggered when any route point lies
// strictly within its threshold; each zone id adds its weight once no matter
// how many points hit it. The triggered ids are returned in ascending order.
func (p Params) Score(route domain.Route, zones []domain.HazardZone) domain.RiskAssessment {
	seen := make(map[int]struct{})
	triggered := []int{}
	var total float64

	for _, pt := range route {
		for _, z := range zones {
			if _, ok := seen[z.ID]; ok {
				continue
			}
			if within(pt, z) {
				seen[z.ID] = struct{}{}
				triggered = append(triggered, z.ID)
				total += z.Weight
			}
		}
	}
	slices.Sort(triggered)

	score := int(math.Round(p.Percentage(total, len(zones))))
	return domain.RiskAssessment{
		Score:            score,
		Label:            p.Label(score),
		TriggeredZoneIDs: triggered,
	}
}

// Percentage maps the triggered weight total to a 0-100 safety percentage on a
// logarithmic curve normalized by the catalog size. An empty catalog is
// always 100.
func (p Params) Percentage(totalWeight float64, zoneCount int) float64 {
	maxWeight := p.ZoneWeightCeiling * float64(zoneCount)
	if maxWeight <= 0 {
		return 100
	}
	pct := 100 - 100*math.Log(totalWeight+1)/math.Log(maxWeight+1)
	return math.Max(0, pct)
}

// Label maps a rounded score to its tier.
func (p Params) Label(score int) domain.SafetyLabel {
	switch {
	case score < p.ModerateMinScore:
		return domain.LabelDangerous
	case score < p.SafeMinScore:
		return domain.LabelModerate
	default:
		return domain.LabelSafe
	}
}
