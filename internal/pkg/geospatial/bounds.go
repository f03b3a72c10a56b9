package geospatial

import (
	"math"

	"github.com/twpayne/go-geom"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

// BoundingBox returns the raw box covering every point within radiusMeters of
// (lat, lon) on the haversine sphere. Longitudes are not wrapped and may fall
// outside [-180, 180]; use BoundsAround for a normalized box. When the circle
// reaches a pole the longitude delta is 180.
func BoundingBox(lat, lon, radiusMeters float64) (minLat, minLon, maxLat, maxLon float64) {
	ang := radiusMeters / EarthRadiusMeters
	latDelta := toDeg(ang)

	lonDelta := 180.0
	if ang < math.Pi/2 {
		if s := math.Sin(ang) / math.Cos(toRad(lat)); s >= 0 && s < 1 {
			lonDelta = toDeg(math.Asin(s))
		}
	}
	return lat - latDelta, lon - lonDelta, lat + latDelta, lon + lonDelta
}

// BoundsAround returns the normalized box covering every point within
// radiusMeters of p. A box crossing the antimeridian has MinLon > MaxLon.
func BoundsAround(p domain.GeoPoint, radiusMeters float64) domain.Bounds {
	minLat, minLon, maxLat, maxLon := BoundingBox(p.Lat, p.Lon, radiusMeters)
	return normalize(minLat, minLon, maxLat, maxLon)
}

// RouteBounds returns the extent of a route grown by padMeters on every side,
// ready for a map client to fit its viewport. Routes crossing the antimeridian
// get the narrower wrapped box (MinLon > MaxLon). Nil for an empty route.
func RouteBounds(route domain.Route, padMeters float64) *domain.Bounds {
	if len(route) == 0 {
		return nil
	}

	flat := make([]float64, 0, 2*len(route))
	shifted := make([]float64, 0, 2*len(route))
	for _, p := range route {
		flat = append(flat, p.Lon, p.Lat)
		lon := p.Lon
		if lon < 0 {
			lon += 360
		}
		shifted = append(shifted, lon, p.Lat)
	}
	extent := geom.NewLineStringFlat(geom.XY, flat).Bounds()
	east := geom.NewLineStringFlat(geom.XY, shifted).Bounds()

	minLat, maxLat := extent.Min(1), extent.Max(1)
	minLon, maxLon := extent.Min(0), extent.Max(0)
	if east.Max(0)-east.Min(0) < maxLon-minLon {
		minLon, maxLon = east.Min(0), east.Max(0)
	}

	if padMeters > 0 {
		minLat, minLon, _, _ = BoundingBox(minLat, minLon, padMeters)
		_, _, maxLat, maxLon = BoundingBox(maxLat, maxLon, padMeters)
	}
	b := normalize(minLat, minLon, maxLat, maxLon)
	return &b
}

// Contains reports whether p lies inside b (edges inclusive). Boxes with
// MinLon > MaxLon wrap across the antimeridian.
func Contains(b domain.Bounds, p domain.GeoPoint) bool {
	if p.Lat < b.MinLat || p.Lat > b.MaxLat {
		return false
	}
	if b.MinLon <= b.MaxLon {
		return p.Lon >= b.MinLon && p.Lon <= b.MaxLon
	}
	return p.Lon >= b.MinLon || p.Lon <= b.MaxLon
}

// normalize clamps latitudes and wraps longitudes into [-180, 180]. A box
// spanning a full turn or touching a pole covers every longitude.
func normalize(minLat, minLon, maxLat, maxLon float64) domain.Bounds {
	b := domain.Bounds{MinLat: math.Max(minLat, -90), MaxLat: math.Min(maxLat, 90)}
	if maxLon-minLon >= 360 || b.MinLat <= -90 || b.MaxLat >= 90 {
		b.MinLon, b.MaxLon = -180, 180
		return b
	}
	b.MinLon, b.MaxLon = wrapLon(minLon), wrapLon(maxLon)
	return b
}

// wrapLon maps a longitude into [-180, 180].
func wrapLon(lon float64) float64 {
	if lon >= -180 && lon <= 180 {
		return lon
	}
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
