// Package safety scores routes against a hazard catalog.
//
// Both entry points are pure: they read their inputs, allocate their own
// results and may be called concurrently. Callers must validate inputs first;
// non-finite coordinates and non-positive thresholds or weights are not
// checked here.
package safety

import (
	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/pkg/geospatial"
)

// Distance returns the haversine distance in meters from p to the center of z.
func Distance(p domain.GeoPoint, z domain.HazardZone) float64 {
	return geospatial.Haversine(p.Lat, p.Lon, z.Lat, z.Lon)
}

// within reports whether p lies strictly inside the threshold of z.
func within(p domain.GeoPoint, z domain.HazardZone) bool {
	return Distance(p, z) < z.ThresholdMeters
}
