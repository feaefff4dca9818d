package zones

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldslot/internal/types"
)

const testZones = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": { "name": "Near Office", "label": "Near Office", "zone_order": 1 },
      "geometry": { "type": "Polygon", "coordinates": [[
        [-112.25, 33.45], [-112.05, 33.45], [-112.05, 33.70], [-112.25, 33.70], [-112.25, 33.45]
      ]] }
    },
    {
      "type": "Feature",
      "properties": { "name": "High Traffic", "label": "High Traffic", "zone_order": 2 },
      "geometry": { "type": "Polygon", "coordinates": [[
        [-112.10, 33.30], [-111.80, 33.30], [-111.80, 33.52], [-112.10, 33.52], [-112.10, 33.30]
      ]] }
    },
    {
      "type": "Feature",
      "properties": { "name": "Full Area", "label": "Full Area", "zone_order": 4 },
      "geometry": { "type": "Polygon", "coordinates": [[
        [-112.85, 32.95], [-111.25, 32.95], [-111.25, 33.95], [-112.85, 33.95], [-112.85, 32.95]
      ]] }
    }
  ]
}`

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	zs, err := Parse([]byte(testZones))
	require.NoError(t, err)
	return NewClassifier(zs)
}

func TestClassify(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name  string
		point types.Point
		want  ID
	}{
		{"inside near office box", types.Point{Lat: 33.576, Lng: -112.127}, NearOffice},
		{"tempe core", types.Point{Lat: 33.42, Lng: -111.94}, HighTraffic},
		{"outer coverage only", types.Point{Lat: 33.05, Lng: -112.60}, FullArea},
		{"outside everything", types.Point{Lat: 35.19, Lng: -114.05}, Unclassified},
		{"ocean", types.Point{Lat: 0, Lng: 0}, Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.point))
		})
	}
}

func TestClassifyOrderWins(t *testing.T) {
	c := newTestClassifier(t)

	// The near-office box is nested inside the full-area box; the lower
	// zone_order must claim the point.
	p := types.Point{Lat: 33.50, Lng: -112.10}
	assert.Equal(t, NearOffice, c.Classify(p))
}

func TestClassifyBoundaryCountsAsInside(t *testing.T) {
	c := newTestClassifier(t)

	// Exactly on the near-office western edge.
	edge := types.Point{Lat: 33.50, Lng: -112.25}
	assert.Equal(t, NearOffice, c.Classify(edge))

	// Exactly on a vertex.
	vertex := types.Point{Lat: 33.45, Lng: -112.25}
	assert.Equal(t, NearOffice, c.Classify(vertex))
}

func TestParseRejectsMalformedData(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"type": "FeatureCollection"`},
		{"no features", `{"type": "FeatureCollection", "features": []}`},
		{"missing label", `{"type": "FeatureCollection", "features": [
			{"properties": {"name": "x"}, "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}}
		]}`},
		{"unclosed ring", `{"type": "FeatureCollection", "features": [
			{"properties": {"label": "x"}, "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,1]]]}}
		]}`},
		{"too few vertices", `{"type": "FeatureCollection", "features": [
			{"properties": {"label": "x"}, "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[0,0]]]}}
		]}`},
		{"wrong geometry type", `{"type": "FeatureCollection", "features": [
			{"properties": {"label": "x"}, "geometry": {"type": "Point", "coordinates": []}}
		]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}
