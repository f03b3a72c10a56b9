package geospatial

import (
	"fmt"
	"math"

	"github.com/twpayne/go-polyline"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

// DecodePolyline decodes a Google encoded polyline (precision 5) into a route.
func DecodePolyline(encoded string) (domain.Route, error) {
	if encoded == "" {
		return domain.Route{}, nil
	}

	coords, rest, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("decode polyline: %d trailing bytes", len(rest))
	}

	route := make(domain.Route, 0, len(coords))
	for _, c := range coords {
		route = append(route, domain.GeoPoint{Lat: c[0], Lon: c[1]})
	}
	return route, nil
}

// EncodePolyline encodes a route as a Google encoded polyline.
func EncodePolyline(route domain.Route) string {
	coords := make([][]float64, 0, len(route))
	for _, p := range route {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}

// ValidatePoint checks that p is a finite WGS 84 coordinate.
func ValidatePoint(p domain.GeoPoint) error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) {
		return fmt.Errorf("coordinate must be finite, got (%v, %v)", p.Lat, p.Lon)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got %v", p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got %v", p.Lon)
	}
	return nil
}

// ValidateRoute checks every point of a route.
func ValidateRoute(route domain.Route) error {
	for i, p := range route {
		if err := ValidatePoint(p); err != nil {
			return fmt.Errorf("%w: point %d: %v", domain.ErrInvalidRoute, i, err)
		}
	}
	return nil
}
