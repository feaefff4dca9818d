// README: Immutable scheduling policy tables (zone windows, durations, personnel constraints).
package policy

import (
	"time"

	"fieldslot/internal/zones"
)

// DayTime is a wall-clock time of day, timezone-agnostic.
type DayTime struct {
	Hour   int
	Minute int
}

func (d DayTime) MinuteOfDay() int {
	return d.Hour*60 + d.Minute
}

// On anchors the day time onto a concrete date in the date's location.
func (d DayTime) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), d.Hour, d.Minute, 0, 0, date.Location())
}

// Window is an allowed booking range within a single day, half-open [Start, End).
type Window struct {
	Start DayTime
	End   DayTime
}

// ZonePolicy captures when a zone may be visited and how many appointments
// justify the trip.
type ZonePolicy struct {
	Description            string
	WeekdayWindows         []Window
	SaturdayWindows        []Window
	PreferredWindowHours   int
	MinAppointmentsToVisit int
	DeferDaysIfAlone       int
}

var zonePolicies = map[zones.ID]ZonePolicy{
	zones.HighTraffic: {
		Description:            "Central Phoenix - Mesa, Tempe, Scottsdale core",
		WeekdayWindows:         []Window{{DayTime{9, 0}, DayTime{13, 0}}},
		SaturdayWindows:        []Window{{DayTime{7, 0}, DayTime{13, 0}}},
		PreferredWindowHours:   3,
		MinAppointmentsToVisit: 3,
		DeferDaysIfAlone:       4,
	},
	zones.MediumTraffic: {
		Description:            "Mid-range suburbs",
		WeekdayWindows:         []Window{{DayTime{7, 0}, DayTime{14, 0}}},
		SaturdayWindows:        []Window{{DayTime{7, 0}, DayTime{14, 0}}},
		PreferredWindowHours:   2,
		MinAppointmentsToVisit: 2,
		DeferDaysIfAlone:       3,
	},
	zones.NearOffice: {
		Description:            "Close to base - quick access",
		WeekdayWindows:         []Window{{DayTime{9, 0}, DayTime{13, 0}}},
		SaturdayWindows:        []Window{{DayTime{7, 0}, DayTime{14, 0}}},
		PreferredWindowHours:   2,
		MinAppointmentsToVisit: 1,
		DeferDaysIfAlone:       0,
	},
	zones.FullArea: {
		Description:            "Outer coverage area",
		WeekdayWindows:         []Window{{DayTime{6, 0}, DayTime{17, 0}}},
		SaturdayWindows:        []Window{{DayTime{6, 0}, DayTime{13, 0}}},
		PreferredWindowHours:   2,
		MinAppointmentsToVisit: 3,
		DeferDaysIfAlone:       4,
	},
}

// ForZone returns the policy for a zone. Unknown and unclassified zones fall
// back to the Full Area policy, the widest window set.
func ForZone(z zones.ID) ZonePolicy {
	if p, ok := zonePolicies[z]; ok {
		return p
	}
	return zonePolicies[zones.FullArea]
}

// WindowsFor returns the allowed booking windows for a weekday. Sundays are
// never offered.
func (p ZonePolicy) WindowsFor(day time.Weekday) []Window {
	switch day {
	case time.Sunday:
		return nil
	case time.Saturday:
		return p.SaturdayWindows
	default:
		return p.WeekdayWindows
	}
}

// EastSideCities are the communities that make an appointment part of the
// east-side clustering rule.
var EastSideCities = map[string]bool{
	"mesa":           true,
	"chandler":       true,
	"gilbert":        true,
	"sun lakes":      true,
	"queen creek":    true,
	"gold canyon":    true,
	"apache junction": true,
	"san tan valley": true,
	"maricopa":       true,
}

// serviceDurations maps the requested service count to appointment length in
// minutes.
var serviceDurations = map[int]int{
	1: 40,
	2: 40,
	3: 55,
	4: 65,
}

// ServiceDuration returns the appointment duration for a service count.
// Counts above the table ceiling all use the 4+ duration.
func ServiceDuration(services int) int {
	if services >= 4 {
		return serviceDurations[4]
	}
	if d, ok := serviceDurations[services]; ok {
		return d
	}
	return serviceDurations[1]
}

// TechnicianConstraints are the recurring carve-outs for the field technician:
// a weekly training block, a Saturday hard stop, and a daily family-time
// cutoff after which no appointment may start.
type TechnicianConstraints struct {
	TrainingDay        time.Weekday
	TrainingBlock      Window
	SaturdayLastStart  DayTime
	FamilyTimeCutoff   DayTime
}

// DefaultTechnician mirrors the current single-technician roster.
var DefaultTechnician = TechnicianConstraints{
	TrainingDay:       time.Wednesday,
	TrainingBlock:     Window{DayTime{8, 30}, DayTime{10, 30}},
	SaturdayLastStart: DayTime{13, 0},
	FamilyTimeCutoff:  DayTime{16, 30},
}

// MaxAppointmentsPerDay is the default daily capacity with efficient routing.
const MaxAppointmentsPerDay = 8
