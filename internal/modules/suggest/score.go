// README: Multi-factor candidate scoring heuristic.
package suggest

import (
	"fmt"
	"time"

	"fieldslot/internal/policy"
	"fieldslot/internal/zones"
)

const baseScore = 100

// busyDayThreshold is the appointment count at which a day starts drawing a
// penalty; every appointment beyond busyDayFree costs points.
const (
	busyDayThreshold = 6
	busyDayFree      = 5
)

// scoreCandidate assigns the heuristic score and rationale for one candidate.
// It is a pure function of its inputs; identical inputs always produce the
// same score.
func scoreCandidate(c filteredCandidate, pol policy.ZonePolicy, isEastSide bool, today time.Time) (int, []string) {
	score := baseScore
	var reasons []string

	daysOut := daysBetween(today, c.Slot.Start)
	switch daysOut {
	case 0:
		score += 50
		reasons = append(reasons, "same-day service")
	case 1:
		score += 30
		reasons = append(reasons, "next-day service")
	case 2:
		score += 20
		reasons = append(reasons, "2 days out")
	case 3:
		score += 10
		reasons = append(reasons, "3 days out")
	}

	if c.SameDayZoneCount > 0 {
		score += c.SameDayZoneCount * 15
		reasons = append(reasons, fmt.Sprintf("grouped with %d other appointment(s) in %s", c.SameDayZoneCount, c.Slot.Zone))
	}

	if c.TotalOnDay >= busyDayThreshold {
		score -= (c.TotalOnDay - busyDayFree) * 10
		reasons = append(reasons, fmt.Sprintf("busy day (%d appointments already)", c.TotalOnDay))
	}

	if c.Slot.Start.Weekday() == time.Saturday && c.Slot.Zone != zones.NearOffice {
		score += 20
		reasons = append(reasons, "Saturday (less traffic for distant location)")
	}

	if isEastSide && c.SameDayZoneCount >= 2 {
		score += 15
		reasons = append(reasons, "efficient East Side cluster")
	}

	if c.SameDayZoneCount < pol.MinAppointmentsToVisit {
		score -= (pol.MinAppointmentsToVisit - c.SameDayZoneCount) * 15
		if pol.MinAppointmentsToVisit > 1 {
			reasons = append(reasons, fmt.Sprintf("solo trip (ideally %d+ appointments in zone)", pol.MinAppointmentsToVisit))
		}
	}

	if c.Slot.Start.Hour() < 12 {
		score += 5
		reasons = append(reasons, "morning slot")
	}

	return score, reasons
}

// daysBetween counts calendar days from a (midnight-anchored) to b's date.
func daysBetween(a, b time.Time) int {
	aMid := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, a.Location())
	bMid := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, b.Location())
	return int(bMid.Sub(aMid).Hours() / 24)
}
