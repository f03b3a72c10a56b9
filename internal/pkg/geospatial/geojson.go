package geospatial

import (
	geojson "github.com/paulmach/go.geojson"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

// SegmentsToFeatureCollection converts colored segments to GeoJSON LineString
// features, one per segment, keeping route order. Coordinates are [lon, lat].
func SegmentsToFeatureCollection(segments []domain.ColoredSegment) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, s := range segments {
		f := geojson.NewLineStringFeature([][]float64{
			{s.From.Lon, s.From.Lat},
			{s.To.Lon, s.To.Lat},
		})
		f.SetProperty("index", i)
		f.SetProperty("color", string(s.Color))
		f.SetProperty("stroke", s.Color.Hex())
		fc.AddFeature(f)
	}
	return fc
}

// SegmentsToGeoJSON marshals colored segments as a GeoJSON FeatureCollection.
func SegmentsToGeoJSON(segments []domain.ColoredSegment) ([]byte, error) {
	return SegmentsToFeatureCollection(segments).MarshalJSON()
}
