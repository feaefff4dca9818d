// README: Top-N selection with day diversity.
package suggest

import (
	"sort"
)

// selectTop orders suggestions by score (ties broken by earlier date, then
// earlier start) and greedily picks up to topN, preferring distinct dates.
// When fewer than topN distinct dates exist among the scored set, diversity
// is relaxed and the best remaining candidates fill the list.
func selectTop(scored []Suggestion, topN int) []Suggestion {
	if topN <= 0 || len(scored) == 0 {
		return nil
	}

	ranked := make([]Suggestion, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Slot.Start.Before(ranked[j].Slot.Start)
	})

	out := make([]Suggestion, 0, topN)
	seenDates := make(map[string]bool)
	taken := make(map[int]bool)

	for i, s := range ranked {
		date := s.Slot.Start.Format("2006-01-02")
		if seenDates[date] {
			continue
		}
		out = append(out, s)
		seenDates[date] = true
		taken[i] = true
		if len(out) == topN {
			return out
		}
	}

	// Not enough distinct dates: backfill with the best remaining options.
	for i, s := range ranked {
		if taken[i] {
			continue
		}
		out = append(out, s)
		if len(out) == topN {
			break
		}
	}
	return out
}
