package domain

import (
	"errors"
	"time"
)

var (
	ErrHazardNotFound        = errors.New("hazard zone not found")
	ErrInvalidRoute          = errors.New("invalid route")
	ErrNoRoute               = errors.New("no route found")
	ErrDirectionsUnavailable = errors.New("directions provider unavailable")
	ErrInvalidInput          = errors.New("invalid input")
)

// HazardCategory classifies the kind of incident reported for a zone.
type HazardCategory string

const (
	CategoryHarassment         HazardCategory = "harassment"
	CategoryCrime              HazardCategory = "crime"
	CategoryDrugs              HazardCategory = "drugs"
	CategoryHomeBurglary       HazardCategory = "home_burglary"
	CategoryCommercialRobbery  HazardCategory = "commercial_robbery"
	CategoryStreetRobbery      HazardCategory = "street_robbery"
	CategoryVehicleTheft       HazardCategory = "vehicle_theft"
	CategorySuspiciousActivity HazardCategory = "suspicious_activity"
	CategoryVandalism          HazardCategory = "vandalism"
)

// HazardCategories lists every known category in display order.
var HazardCategories = []HazardCategory{
	CategoryHarassment,
	CategoryCrime,
	CategoryDrugs,
	CategoryHomeBurglary,
	CategoryCommercialRobbery,
	CategoryStreetRobbery,
	CategoryVehicleTheft,
	CategorySuspiciousActivity,
	CategoryVandalism,
}

// Valid reports whether c is one of the known categories.
func (c HazardCategory) Valid() bool {
	for _, k := range HazardCategories {
		if c == k {
			return true
		}
	}
	return false
}

// HazardZone is a circular area around a reported incident location.
// A route point strictly closer than ThresholdMeters to the center is
// inside the zone.
type HazardZone struct {
	ID              int            `json:"id" mapstructure:"id"`
	Lat             float64        `json:"lat" mapstructure:"lat"`
	Lon             float64        `json:"lon" mapstructure:"lon"`
	Category        HazardCategory `json:"category" mapstructure:"category"`
	ThresholdMeters float64        `json:"threshold_meters" mapstructure:"threshold_meters"`
	Weight          float64        `json:"weight" mapstructure:"weight"`
	Description     string         `json:"description,omitempty" mapstructure:"description"`
}

// Center returns the zone center as a point.
func (z HazardZone) Center() GeoPoint {
	return GeoPoint{Lat: z.Lat, Lon: z.Lon}
}

// SafetyLabel is the qualitative tier of a route score.
type SafetyLabel string

const (
	LabelSafe      SafetyLabel = "safe"
	LabelModerate  SafetyLabel = "moderate"
	LabelDangerous SafetyLabel = "dangerous"
)

// RiskAssessment is the whole-route safety result.
type RiskAssessment struct {
	Score            int         `json:"score"` // 0-100, higher is safer
	Label            SafetyLabel `json:"label"`
	TriggeredZoneIDs []int       `json:"triggered_zone_ids"`
}

// SegmentColor is the display color of a route segment.
type SegmentColor string

const (
	ColorGreen  SegmentColor = "green"
	ColorOrange SegmentColor = "orange"
	ColorRed    SegmentColor = "red"
)

// Hex returns the stroke color used by map clients.
func (c SegmentColor) Hex() string {
	switch c {
	case ColorRed:
		return "#FF0000"
	case ColorOrange:
		return "#FFA500"
	default:
		return "#00FF00"
	}
}

// ColoredSegment is one adjacent point pair of a route with its local risk color.
type ColoredSegment struct {
	From  GeoPoint     `json:"from"`
	To    GeoPoint     `json:"to"`
	Color SegmentColor `json:"color"`
}

// HazardWarning is emitted when a route passes near at least one hazard zone.
type HazardWarning struct {
	ID               string      `json:"id"`
	Time             time.Time   `json:"time"`
	Score            int         `json:"score"`
	Label            SafetyLabel `json:"label"`
	TriggeredZoneIDs []int       `json:"triggered_zone_ids"`
	Message          string      `json:"message"`
}

// RouteAssessment bundles everything a client needs to render one route.
type RouteAssessment struct {
	Route      Route            `json:"route"`
	Assessment RiskAssessment   `json:"assessment"`
	Segments   []ColoredSegment `json:"segments"`
	Bounds     *Bounds          `json:"bounds,omitempty"`
	Warning    *HazardWarning   `json:"warning,omitempty"`
}

// TripRequest asks for an assessed route between two points.
type TripRequest struct {
	Origin      GeoPoint   `json:"origin"`
	Destination GeoPoint   `json:"destination"`
	Mode        TravelMode `json:"mode"`
}
