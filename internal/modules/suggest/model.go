// README: Suggestion engine request/response types.
package suggest

import (
	"fmt"
	"strings"
	"time"

	"fieldslot/internal/policy"
	"fieldslot/internal/types"
	"fieldslot/internal/zones"
)

// AvailabilityWindow is one customer-supplied time range the visit may fall
// into.
type AvailabilityWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Request is one scheduling question: where, how much work, and when the
// customer can receive the visit.
type Request struct {
	Address      string
	City         string
	Location     types.Point
	Services     int
	Availability []AvailabilityWindow
	// HorizonDays limits how far out candidates are generated; zero uses the
	// configured default.
	HorizonDays int
}

// CandidateSlot is a tentative (date, start, end) option under evaluation.
// It exists only within one request.
type CandidateSlot struct {
	Zone        zones.ID
	Start       time.Time
	End         time.Time
	DurationMin int
}

// Suggestion is a scored, rationale-annotated slot ready to present.
type Suggestion struct {
	Slot    CandidateSlot
	Score   int
	Reasons []string
}

// Result is a successful engine run.
type Result struct {
	Zone          zones.ID
	DistanceMiles float64
	TravelMinutes int
	DurationMin   int
	Suggestions   []Suggestion
}

// PolicyConflictError reports that the customer's availability can never
// overlap the zone's booking windows within the horizon. It is an expected
// outcome, distinct from "every slot is taken".
type PolicyConflictError struct {
	Zone            zones.ID
	WeekdayWindows  []policy.Window
	SaturdayWindows []policy.Window
}

func (e *PolicyConflictError) Error() string {
	return fmt.Sprintf(
		"availability never overlaps %s windows (weekdays %s, Saturday %s)",
		e.Zone, formatWindows(e.WeekdayWindows), formatWindows(e.SaturdayWindows),
	)
}

func formatWindows(ws []policy.Window) string {
	if len(ws) == 0 {
		return "closed"
	}
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = fmt.Sprintf("%02d:%02d-%02d:%02d", w.Start.Hour, w.Start.Minute, w.End.Hour, w.End.Minute)
	}
	return strings.Join(parts, ", ")
}
