// README: Appointment snapshot model shared by the engine and its sources.
package appointments

import (
	"time"

	"fieldslot/internal/types"
	"fieldslot/internal/zones"
)

// Appointment is one scheduled visit from the tracking store. Snapshots are
// immutable once fetched; a refresh replaces the whole set, never mutates it.
type Appointment struct {
	ID           types.ID    `json:"id"`
	CustomerName string      `json:"customer_name"`
	Address      string      `json:"address"`
	City         string      `json:"city"`
	Zone         zones.ID    `json:"zone"`
	Start        time.Time   `json:"start"`
	End          time.Time   `json:"end"`
	Location     types.Point `json:"location"`
}

// SameDay reports whether the appointment falls on the given date in the
// date's location.
func (a Appointment) SameDay(date time.Time) bool {
	y1, m1, d1 := a.Start.In(date.Location()).Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
