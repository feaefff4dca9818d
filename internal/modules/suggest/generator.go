// README: Candidate slot synthesis under zone, customer, and personnel constraints.
package suggest

import (
	"time"

	"fieldslot/internal/policy"
	"fieldslot/internal/zones"
)

// generatorParams pins down everything candidate generation depends on, so
// two calls with identical params produce identical output.
type generatorParams struct {
	zone         zones.ID
	pol          policy.ZonePolicy
	tech         policy.TechnicianConstraints
	availability []AvailabilityWindow
	durationMin  int
	deferDays    int
	horizonDays  int
	stepMin      int
	today        time.Time // midnight in the scheduling location
}

// generateCandidates enumerates feasible slots for each day in
// [today+deferDays, today+horizonDays]. A slot is emitted when it fits wholly
// inside a zone booking window, wholly inside a customer availability window,
// and clears the technician carve-outs. Output is ordered by date then start.
func generateCandidates(p generatorParams) []CandidateSlot {
	var out []CandidateSlot
	for offset := p.deferDays; offset <= p.horizonDays; offset++ {
		day := p.today.AddDate(0, 0, offset)
		windows := p.pol.WindowsFor(day.Weekday())
		for _, w := range windows {
			out = append(out, slotsInWindow(p, day, w)...)
		}
	}
	return out
}

func slotsInWindow(p generatorParams, day time.Time, w policy.Window) []CandidateSlot {
	var out []CandidateSlot
	windowStart := w.Start.On(day)
	windowEnd := w.End.On(day)
	duration := time.Duration(p.durationMin) * time.Minute
	step := time.Duration(p.stepMin) * time.Minute

	for start := windowStart; !start.Add(duration).After(windowEnd); start = start.Add(step) {
		end := start.Add(duration)
		if !clearsTechnicianConstraints(p.tech, day, start, end) {
			continue
		}
		if !insideAvailability(p.availability, start, end) {
			continue
		}
		out = append(out, CandidateSlot{
			Zone:        p.zone,
			Start:       start,
			End:         end,
			DurationMin: p.durationMin,
		})
	}
	return out
}

// clearsTechnicianConstraints applies the personnel carve-outs: the weekly
// training block (no overlap), the Saturday last-start cutoff, and the daily
// family-time cutoff after which no slot may start.
func clearsTechnicianConstraints(tech policy.TechnicianConstraints, day, start, end time.Time) bool {
	if day.Weekday() == tech.TrainingDay {
		blockStart := tech.TrainingBlock.Start.On(day)
		blockEnd := tech.TrainingBlock.End.On(day)
		if start.Before(blockEnd) && blockStart.Before(end) {
			return false
		}
	}
	if day.Weekday() == time.Saturday && start.After(tech.SaturdayLastStart.On(day)) {
		return false
	}
	if !start.Before(tech.FamilyTimeCutoff.On(day)) {
		return false
	}
	return true
}

func insideAvailability(windows []AvailabilityWindow, start, end time.Time) bool {
	for _, w := range windows {
		if !start.Before(w.Start) && !end.After(w.End) {
			return true
		}
	}
	return false
}
