package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Route is an ordered sequence of points as decoded from a directions
// response. Order defines the travel direction.
type Route []GeoPoint

// Bounds represents a geographic bounding box. MinLon > MaxLon means the box
// crosses the antimeridian.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// TravelMode is the mode passed to the directions provider.
type TravelMode string

const (
	TravelWalking   TravelMode = "walking"
	TravelDriving   TravelMode = "driving"
	TravelBicycling TravelMode = "bicycling"
	TravelTransit   TravelMode = "transit"
)

// ParseTravelMode maps a raw mode to a TravelMode. Empty input means walking.
func ParseTravelMode(s string) (TravelMode, bool) {
	switch TravelMode(s) {
	case "", TravelWalking:
		return TravelWalking, true
	case TravelDriving, TravelBicycling, TravelTransit:
		return TravelMode(s), true
	default:
		return "", false
	}
}
