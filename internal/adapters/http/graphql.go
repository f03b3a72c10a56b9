package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	geoPointInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "GeoPointInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"lat": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"lon": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	hazardType := graphql.NewObject(graphql.ObjectConfig{
		Name: "HazardZone",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.Int},
			"lat":              &graphql.Field{Type: graphql.Float},
			"lon":              &graphql.Field{Type: graphql.Float},
			"category":         &graphql.Field{Type: graphql.String},
			"threshold_meters": &graphql.Field{Type: graphql.Float},
			"weight":           &graphql.Field{Type: graphql.Float},
			"description":      &graphql.Field{Type: graphql.String},
		},
	})

	assessmentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RiskAssessment",
		Fields: graphql.Fields{
			"score":              &graphql.Field{Type: graphql.Int},
			"label":              &graphql.Field{Type: graphql.String},
			"triggered_zone_ids": &graphql.Field{Type: graphql.NewList(graphql.Int)},
		},
	})

	segmentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ColoredSegment",
		Fields: graphql.Fields{
			"from":  &graphql.Field{Type: geoPointType},
			"to":    &graphql.Field{Type: geoPointType},
			"color": &graphql.Field{Type: graphql.String},
			"hex": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					seg, ok := p.Source.(domain.ColoredSegment)
					if !ok {
						return nil, nil
					}
					return seg.Color.Hex(), nil
				},
			},
		},
	})

	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	warningType := graphql.NewObject(graphql.ObjectConfig{
		Name: "HazardWarning",
		Fields: graphql.Fields{
			"id":                 &graphql.Field{Type: graphql.String},
			"score":              &graphql.Field{Type: graphql.Int},
			"label":              &graphql.Field{Type: graphql.String},
			"triggered_zone_ids": &graphql.Field{Type: graphql.NewList(graphql.Int)},
			"message":            &graphql.Field{Type: graphql.String},
		},
	})

	routeAssessmentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteAssessment",
		Fields: graphql.Fields{
			"route":      &graphql.Field{Type: graphql.NewList(geoPointType)},
			"assessment": &graphql.Field{Type: assessmentType},
			"segments":   &graphql.Field{Type: graphql.NewList(segmentType)},
			"bounds":     &graphql.Field{Type: boundsType},
			"warning":    &graphql.Field{Type: warningType},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"hazards": &graphql.Field{
				Type:        graphql.NewList(hazardType),
				Description: "List hazard zones, optionally by category",
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					cat, _ := p.Args["category"].(string)
					return deps.Hazards.ListByCategory(p.Context, domain.HazardCategory(cat))
				},
			},
			"hazard": &graphql.Field{
				Type:        hazardType,
				Description: "Get a hazard zone by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(int)
					return deps.Hazards.GetByID(p.Context, id)
				},
			},
			"nearbyHazards": &graphql.Field{
				Type:        graphql.NewList(hazardType),
				Description: "Hazard zones centered within radius meters of a point, closest first",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: defaultNearbyRadius},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					radius := p.Args["radius"].(float64)
					if !validNearbyRadius(radius) {
						return nil, fmt.Errorf("radius must be between 1 and 10000 meters, got %v", radius)
					}
					pt := domain.GeoPoint{Lat: p.Args["lat"].(float64), Lon: p.Args["lon"].(float64)}
					return deps.Hazards.Nearby(p.Context, pt, radius)
				},
			},
			"assessRoute": &graphql.Field{
				Type:        routeAssessmentType,
				Description: "Score and color a route given as points or an encoded polyline",
				Args: graphql.FieldConfigArgument{
					"points":   &graphql.ArgumentConfig{Type: graphql.NewList(graphql.NewNonNull(geoPointInput))},
					"polyline": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					route, err := pointsArg(p.Args["points"])
					if err != nil {
						return nil, err
					}
					if polyline, _ := p.Args["polyline"].(string); polyline != "" {
						if len(route) > 0 {
							return nil, fmt.Errorf("set either points or polyline, not both")
						}
						return deps.Assessments.AssessPolyline(p.Context, polyline)
					}
					return deps.Assessments.AssessPoints(p.Context, route)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// pointsArg converts a [GeoPointInput] argument into a route.
func pointsArg(v interface{}) (domain.Route, error) {
	raw, _ := v.([]interface{})
	route := make(domain.Route, 0, len(raw))
	for i, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("points[%d]: expected object", i)
		}
		lat, _ := m["lat"].(float64)
		lon, _ := m["lon"].(float64)
		route = append(route, domain.GeoPoint{Lat: lat, Lon: lon})
	}
	return route, nil
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
