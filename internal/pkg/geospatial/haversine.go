// Package geospatial holds the geographic helpers shared by the safety core
// and the adapters: great-circle distance, polyline codec, route bounds and
// GeoJSON export.
package geospatial

import (
	"math"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

// EarthRadiusMeters is the mean Earth radius used by Haversine.
const EarthRadiusMeters = 6371000.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*sinLon*sinLon

	// rounding can push a a hair past 1 for antipodal points
	a = math.Min(1, a)

	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Distance returns the great-circle distance in meters between two points.
func Distance(a, b domain.GeoPoint) float64 {
	return Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
