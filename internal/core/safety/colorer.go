package safety

import "github.com/samirrijal/saferoute/internal/core/domain"

// ColorSegments colors a route with DefaultParams.
func ColorSegments(route domain.Route, zones []domain.HazardZone) []domain.ColoredSegment {
	return DefaultParams().ColorSegments(route, zones)
}

// ColorSegments returns one segment per adjacent point pair, in route order.
// A zone adds its weight to a segment when either endpoint is inside it.
// Unlike Score there is no deduplication across segments: local risk is what
// the map draws.
func (p Params) ColorSegments(route domain.Route, zones []domain.HazardZone) []domain.ColoredSegment {
	if len(route) < 2 {
		return []domain.ColoredSegment{}
	}

	segments := make([]domain.ColoredSegment, 0, len(route)-1)
	for i := 0; i < len(route)-1; i++ {
		from, to := route[i], route[i+1]

		var local float64
		for _, z := range zones {
			if within(from, z) || within(to, z) {
				local += z.Weight
			}
		}

		segments = append(segments, domain.ColoredSegment{
			From:  from,
			To:    to,
			Color: p.SegmentColor(local),
		})
	}
	return segments
}

// SegmentColor classifies a local weight total.
func (p Params) SegmentColor(localWeight float64) domain.SegmentColor {
	switch {
	case localWeight > p.RedAbove:
		return domain.ColorRed
	case localWeight > p.OrangeAbove:
		return domain.ColorOrange
	default:
		return domain.ColorGreen
	}
}
