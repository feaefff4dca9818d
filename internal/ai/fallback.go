package ai

import (
	"time"

	"fieldslot/internal/modules/suggest"
)

// FallbackWindows is the availability assumed when parsing fails outright:
// weekday mornings, 09:00-12:00, over the next `days` calendar days. Sundays
// are skipped since they are never bookable anyway.
func FallbackWindows(now time.Time, days int) []suggest.AvailabilityWindow {
	loc := now.Location()
	out := make([]suggest.AvailabilityWindow, 0, days)
	for i := 1; i <= days; i++ {
		day := now.AddDate(0, 0, i)
		if day.Weekday() == time.Sunday {
			continue
		}
		out = append(out, suggest.AvailabilityWindow{
			Start: time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, loc),
			End:   time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, loc),
		})
	}
	return out
}
