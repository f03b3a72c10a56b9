package http

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/pkg/geospatial"
)

// routeRequest is the body of the route assessment endpoints. Exactly one of
// Points or Polyline may be set; an empty body is an empty route.
type routeRequest struct {
	Points   []domain.GeoPoint `json:"points"`
	Polyline string            `json:"polyline"`
}

// ListHazardsHandler returns the hazard catalog, optionally filtered by category.
func ListHazardsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		category := domain.HazardCategory(c.Query("category"))
		if category != "" && !category.Valid() {
			return errBadRequest(c, fmt.Sprintf("unknown category %q", category))
		}

		zones, err := deps.Hazards.ListByCategory(c.UserContext(), category)
		if err != nil {
			return errDomain(c, err)
		}

		offset, limit := pageParams(c)
		zones, pg := paginate(zones, offset, limit)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: zones, Pagination: pg})
	}
}

// GetHazardHandler returns a single zone by numeric id.
func GetHazardHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return errBadRequest(c, "hazard id must be an integer")
		}

		zone, err := deps.Hazards.GetByID(c.UserContext(), id)
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(zone)
	}
}

const (
	defaultNearbyRadius = 500.0
	minNearbyRadius     = 1.0
	maxNearbyRadius     = 10000.0
)

// validNearbyRadius reports whether r is a finite radius in [1, 10000] meters.
func validNearbyRadius(r float64) bool {
	return r >= minNearbyRadius && r <= maxNearbyRadius
}

// NearbyHazardsHandler returns zones centered within radius meters of a point.
func NearbyHazardsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		p, err := parseLatLon(c.Query("lat") + "," + c.Query("lon"))
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		radius := defaultNearbyRadius
		if raw := c.Query("radius"); raw != "" {
			radius, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return errBadRequest(c, fmt.Sprintf("invalid radius %q", raw))
			}
		}
		if !validNearbyRadius(radius) {
			return errBadRequest(c, "radius must be between 1 and 10000 meters")
		}

		zones, err := deps.Hazards.Nearby(c.UserContext(), p, radius)
		if err != nil {
			return errDomain(c, err)
		}
		return c.JSON(zones)
	}
}

// AssessRouteHandler scores and colors a route given as points or as an
// encoded polyline.
func AssessRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ra, err := assessBody(c, deps)
		if err != nil {
			return err
		}
		if ra == nil {
			return nil
		}
		c.Set("Cache-Control", "no-store")
		return c.JSON(ra)
	}
}

// SegmentsGeoJSONHandler returns the colored segments of a route as a GeoJSON
// FeatureCollection.
func SegmentsGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ra, err := assessBody(c, deps)
		if err != nil {
			return err
		}
		if ra == nil {
			return nil
		}

		data, err := geospatial.SegmentsToGeoJSON(ra.Segments)
		if err != nil {
			return errInternal(c, "encode geojson")
		}
		c.Set("Content-Type", "application/geo+json")
		c.Set("Cache-Control", "no-store")
		return c.Send(data)
	}
}

// assessBody parses a routeRequest and runs the assessment. A nil result with
// a nil error means the error response has already been written.
func assessBody(c *fiber.Ctx, deps *Dependencies) (*domain.RouteAssessment, error) {
	var req routeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return nil, errBadRequest(c, "invalid request body")
		}
	}
	if len(req.Points) > 0 && req.Polyline != "" {
		return nil, errBadRequest(c, "set either points or polyline, not both")
	}

	var (
		ra  *domain.RouteAssessment
		err error
	)
	if req.Polyline != "" {
		ra, err = deps.Assessments.AssessPolyline(c.UserContext(), req.Polyline)
	} else {
		ra, err = deps.Assessments.AssessPoints(c.UserContext(), domain.Route(req.Points))
	}
	if err != nil {
		return nil, errDomain(c, err)
	}
	return ra, nil
}

// TripAssessHandler plans a trip with the directions provider and returns the
// assessed alternatives, safest first.
func TripAssessHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin, err := parseLatLon(c.Query("origin"))
		if err != nil {
			return errBadRequest(c, "origin: "+err.Error())
		}
		dest, err := parseLatLon(c.Query("destination"))
		if err != nil {
			return errBadRequest(c, "destination: "+err.Error())
		}
		mode, ok := domain.ParseTravelMode(c.Query("mode"))
		if !ok {
			return errBadRequest(c, "mode must be one of walking, driving, bicycling, transit")
		}

		results, err := deps.Assessments.AssessTrip(c.UserContext(), domain.TripRequest{
			Origin:      origin,
			Destination: dest,
			Mode:        mode,
		})
		if err != nil {
			return errDomain(c, err)
		}

		c.Set("Cache-Control", "private, max-age=60")
		return c.JSON(fiber.Map{
			"mode":         mode,
			"recommended":  results[0],
			"alternatives": results,
		})
	}
}

// parseLatLon parses "lat,lon".
func parseLatLon(s string) (domain.GeoPoint, error) {
	if s == "" {
		return domain.GeoPoint{}, fmt.Errorf("required, expected lat,lon")
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return domain.GeoPoint{}, fmt.Errorf("expected lat,lon, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("invalid latitude %q", parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("invalid longitude %q", parts[1])
	}
	p := domain.GeoPoint{Lat: lat, Lon: lon}
	if err := geospatial.ValidatePoint(p); err != nil {
		return domain.GeoPoint{}, err
	}
	return p, nil
}
