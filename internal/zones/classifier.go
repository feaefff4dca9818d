// README: Point-in-polygon zone classification.
package zones

import (
	"fieldslot/internal/types"
)

// Classifier assigns coordinates to zones. It is immutable after construction
// and safe for concurrent use.
type Classifier struct {
	zones []Zone
}

// NewClassifier builds a classifier over zones already validated by Load.
// Zones are tested in ascending Order; the first containing polygon wins.
func NewClassifier(zones []Zone) *Classifier {
	return &Classifier{zones: zones}
}

// Classify returns the label of the first zone whose boundary contains p,
// or Unclassified when no polygon does. Points on a boundary edge count as
// inside.
func (c *Classifier) Classify(p types.Point) ID {
	for _, z := range c.zones {
		if polygonContains(z.Polygon, p) {
			return z.Label
		}
	}
	return Unclassified
}

// Zones returns the loaded zone set in classification order.
func (c *Classifier) Zones() []Zone {
	return c.zones
}

// polygonContains runs an even-odd ray cast in lng/lat space. Boundary
// vertices and edges are treated as contained, matching how the zone map was
// drawn (adjacent zones share edges; the lower-order zone claims them).
func polygonContains(ring []types.Point, p types.Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[j], ring[i]
		if onSegment(a, b, p) {
			return true
		}
		if (a.Lat > p.Lat) != (b.Lat > p.Lat) {
			x := a.Lng + (p.Lat-a.Lat)/(b.Lat-a.Lat)*(b.Lng-a.Lng)
			if p.Lng < x {
				inside = !inside
			}
		}
	}
	return inside
}

const segmentEpsilon = 1e-9

func onSegment(a, b, p types.Point) bool {
	cross := (b.Lng-a.Lng)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lng-a.Lng)
	if cross > segmentEpsilon || cross < -segmentEpsilon {
		return false
	}
	if p.Lng < min(a.Lng, b.Lng)-segmentEpsilon || p.Lng > max(a.Lng, b.Lng)+segmentEpsilon {
		return false
	}
	if p.Lat < min(a.Lat, b.Lat)-segmentEpsilon || p.Lat > max(a.Lat, b.Lat)+segmentEpsilon {
		return false
	}
	return true
}
