// README: Zone definitions loaded from GeoJSON boundary data.
package zones

import (
	"fieldslot/internal/types"
)

// ID is the zone label used to look up scheduling policy.
type ID string

const (
	NearOffice    ID = "Near Office"
	HighTraffic   ID = "High Traffic"
	MediumTraffic ID = "Medium Traffic"
	FullArea      ID = "Full Area"
	// Unclassified is returned for coordinates outside every zone boundary.
	Unclassified ID = "unclassified"
)

// Zone is a named service region bounded by a polygon. Zones are immutable
// after loading; classification walks them in ascending Order.
type Zone struct {
	Label   ID
	Name    string
	Order   int
	Polygon []types.Point
}
