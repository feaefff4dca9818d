// README: GeoJSON zone boundary loading and validation (fails fast on malformed data).
package zones

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"fieldslot/internal/types"
)

var (
	ErrNoZones       = errors.New("zone file contains no features")
	ErrBadBoundary   = errors.New("malformed zone boundary")
	ErrMissingLabel  = errors.New("zone feature missing label property")
	ErrUnsupported   = errors.New("unsupported geometry type")
	errRingNotClosed = errors.New("polygon ring is not closed")
)

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Properties struct {
		Name      string `json:"name"`
		Label     string `json:"label"`
		ZoneOrder int    `json:"zone_order"`
	} `json:"properties"`
	Geometry struct {
		Type        string          `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	} `json:"geometry"`
}

// Load reads a GeoJSON FeatureCollection of zone polygons. Each feature must
// carry a label and a closed outer ring; interior rings are not supported.
// Any malformed feature is a configuration error and aborts loading.
func Load(path string) ([]Zone, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read zones file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates zone boundary data.
func Parse(raw []byte) ([]Zone, error) {
	var fc featureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("decode zones geojson: %w", err)
	}
	if len(fc.Features) == 0 {
		return nil, ErrNoZones
	}

	out := make([]Zone, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Properties.Label == "" {
			return nil, fmt.Errorf("feature %d: %w", i, ErrMissingLabel)
		}
		if f.Geometry.Type != "Polygon" {
			return nil, fmt.Errorf("feature %d (%s): %w: %s", i, f.Properties.Label, ErrUnsupported, f.Geometry.Type)
		}
		if len(f.Geometry.Coordinates) == 0 {
			return nil, fmt.Errorf("feature %d (%s): %w: no rings", i, f.Properties.Label, ErrBadBoundary)
		}
		ring, err := parseRing(f.Geometry.Coordinates[0])
		if err != nil {
			return nil, fmt.Errorf("feature %d (%s): %w: %v", i, f.Properties.Label, ErrBadBoundary, err)
		}
		out = append(out, Zone{
			Label:   ID(f.Properties.Label),
			Name:    f.Properties.Name,
			Order:   f.Properties.ZoneOrder,
			Polygon: ring,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

// parseRing converts GeoJSON [lng, lat] pairs into points, dropping the
// closing vertex once validated.
func parseRing(coords [][2]float64) ([]types.Point, error) {
	if len(coords) < 4 {
		return nil, fmt.Errorf("ring has %d vertices, need at least 4", len(coords))
	}
	first, last := coords[0], coords[len(coords)-1]
	if first != last {
		return nil, errRingNotClosed
	}
	ring := make([]types.Point, 0, len(coords)-1)
	for _, c := range coords[:len(coords)-1] {
		ring = append(ring, types.Point{Lat: c[1], Lng: c[0]})
	}
	return ring, nil
}
