package http_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/samirrijal/saferoute/api"
)

func loadSpec(t *testing.T) *openapi3.T {
	t.Helper()
	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(api.OpenAPI)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI spec: %v", err)
	}
	return spec
}

// TestOpenAPISpec validates the OpenAPI specification is valid and covers the router.
func TestOpenAPISpec(t *testing.T) {
	spec := loadSpec(t)

	if err := spec.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI spec validation failed: %v", err)
	}

	expectedPaths := []string{
		"/v1/health",
		"/v1/ready",
		"/v1/hazards",
		"/v1/hazards/nearby",
		"/v1/hazards/{id}",
		"/v1/routes/assess",
		"/v1/routes/segments.geojson",
		"/v1/trips/assess",
		"/graphql",
	}
	for _, path := range expectedPaths {
		if item := spec.Paths.Find(path); item == nil {
			t.Errorf("expected path %s not found in spec", path)
		}
	}

	expectedSchemas := []string{
		"GeoPoint",
		"HazardZone",
		"RiskAssessment",
		"ColoredSegment",
		"Bounds",
		"HazardWarning",
		"RouteAssessment",
		"RouteRequest",
		"TripAssessment",
		"APIError",
		"Pagination",
	}
	for _, schema := range expectedSchemas {
		if spec.Components.Schemas[schema] == nil {
			t.Errorf("expected schema %s not found", schema)
		}
	}

	t.Logf("OpenAPI spec valid: %d paths, %d schemas", len(spec.Paths.Map()), len(spec.Components.Schemas))
}

// TestOpenAPIInfo verifies spec metadata.
func TestOpenAPIInfo(t *testing.T) {
	spec := loadSpec(t)

	if spec.Info.Title != "SafeRoute API" {
		t.Errorf("expected title 'SafeRoute API', got %q", spec.Info.Title)
	}
	if spec.Info.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", spec.Info.Version)
	}
	if spec.Info.Description == "" {
		t.Error("expected non-empty description")
	}
	if len(spec.Servers) == 0 {
		t.Fatal("expected at least one server")
	}
}

// TestOpenAPIEnums keeps enum values in step with the domain.
func TestOpenAPIEnums(t *testing.T) {
	spec := loadSpec(t)

	label := spec.Components.Schemas["RiskAssessment"].Value.Properties["label"].Value
	if len(label.Enum) != 3 {
		t.Errorf("expected 3 safety labels, got %v", label.Enum)
	}
	category := spec.Components.Schemas["HazardZone"].Value.Properties["category"].Value
	if len(category.Enum) != 9 {
		t.Errorf("expected 9 hazard categories, got %v", category.Enum)
	}
}
