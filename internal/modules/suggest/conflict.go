// README: Conflict detection against the appointment snapshot and daily capacity.
package suggest

import (
	"time"

	"fieldslot/internal/modules/appointments"
)

// filteredCandidate is a conflict-free candidate annotated with the counts
// the scorer needs.
type filteredCandidate struct {
	Slot CandidateSlot
	// SameDayZoneCount is the number of existing appointments sharing the
	// candidate's zone and date.
	SameDayZoneCount int
	// TotalOnDay is the number of existing appointments on the candidate's
	// date, regardless of zone.
	TotalOnDay int
}

// filterConflicts drops candidates that overlap an existing appointment on
// the same date or would push the technician's day to dailyCapacity,
// counting both existing appointments and candidates already accepted in
// this pass. Interval comparison is half-open, so back-to-back slots do not
// conflict.
func filterConflicts(candidates []CandidateSlot, existing []appointments.Appointment, dailyCapacity int) []filteredCandidate {
	acceptedPerDay := make(map[string]int)
	out := make([]filteredCandidate, 0, len(candidates))

	for _, c := range candidates {
		dayKey := c.Start.Format("2006-01-02")
		totalOnDay := 0
		sameZone := 0
		overlaps := false

		for _, a := range existing {
			if !a.SameDay(c.Start) {
				continue
			}
			totalOnDay++
			if a.Zone == c.Zone {
				sameZone++
			}
			if intervalsOverlap(c.Start, c.End, a.Start, a.End) {
				overlaps = true
			}
		}
		if overlaps {
			continue
		}
		if totalOnDay+acceptedPerDay[dayKey]+1 > dailyCapacity {
			continue
		}

		acceptedPerDay[dayKey]++
		out = append(out, filteredCandidate{
			Slot:             c,
			SameDayZoneCount: sameZone,
			TotalOnDay:       totalOnDay,
		})
	}
	return out
}

// intervalsOverlap compares two half-open intervals [aStart, aEnd) and
// [bStart, bEnd).
func intervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
