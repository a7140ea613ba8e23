package writer

import (
	"bytes"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liammartens/isochronego/internal/isochrone"
)

func sampleMap() isochrone.IsochroneMap {
	ring := orb.Ring{{7.0, 46.9}, {7.0, 47.0}, {7.1, 47.0}, {7.1, 46.9}, {7.0, 46.9}}
	return isochrone.IsochroneMap{
		Isochrones: []isochrone.Isochrone{
			{TimeLimitSeconds: 600, Polygon: orb.Polygon{ring}},
		},
		DepartureLatitude:  46.95,
		DepartureLongitude: 7.05,
		BoundingBox:        orb.Bound{Min: orb.Point{7.0, 46.9}, Max: orb.Point{7.1, 47.0}},
	}
}

func TestGeoJSONProducesOneFeaturePerLayer(t *testing.T) {
	m := sampleMap()
	data, err := GeoJSON(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), "time_limit_seconds")

	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	assert.Len(t, fc.Features, len(m.Isochrones))
}

func TestSVGWritesNonEmptyOutput(t *testing.T) {
	var buf bytes.Buffer
	SVG(&buf, sampleMap(), 200, 200)
	assert.NotEmpty(t, buf.Bytes())
	assert.Contains(t, buf.String(), "<svg")
}
