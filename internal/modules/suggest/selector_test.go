package suggest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldslot/internal/zones"
)

func suggestionOn(t *testing.T, day, hour, score int) Suggestion {
	t.Helper()
	start := time.Date(2026, 3, day, hour, 0, 0, 0, phoenix(t))
	return Suggestion{
		Slot:  CandidateSlot{Zone: zones.MediumTraffic, Start: start, End: start.Add(40 * time.Minute), DurationMin: 40},
		Score: score,
	}
}

func TestSelectTopPrefersDistinctDates(t *testing.T) {
	scored := []Suggestion{
		suggestionOn(t, 3, 9, 150),
		suggestionOn(t, 3, 10, 145), // same date as the best, skipped first pass
		suggestionOn(t, 4, 9, 140),
		suggestionOn(t, 5, 9, 130),
	}

	out := selectTop(scored, 3)
	require.Len(t, out, 3)
	assert.Equal(t, 3, out[0].Slot.Start.Day())
	assert.Equal(t, 4, out[1].Slot.Start.Day())
	assert.Equal(t, 5, out[2].Slot.Start.Day())
}

func TestSelectTopRelaxesDiversityWhenDatesRunOut(t *testing.T) {
	scored := []Suggestion{
		suggestionOn(t, 3, 9, 150),
		suggestionOn(t, 3, 10, 140),
		suggestionOn(t, 3, 11, 130),
	}

	out := selectTop(scored, 3)
	require.Len(t, out, 3)
	// Diversity exhausted after one pick; backfill keeps score order.
	assert.Equal(t, 150, out[0].Score)
	assert.Equal(t, 140, out[1].Score)
	assert.Equal(t, 130, out[2].Score)
}

func TestSelectTopOrdersByScoreThenStart(t *testing.T) {
	scored := []Suggestion{
		suggestionOn(t, 5, 9, 120),
		suggestionOn(t, 4, 9, 120), // tie: earlier date wins
		suggestionOn(t, 3, 9, 110),
	}

	out := selectTop(scored, 2)
	require.Len(t, out, 2)
	assert.Equal(t, 4, out[0].Slot.Start.Day())
	assert.Equal(t, 5, out[1].Slot.Start.Day())
}

func TestSelectTopFewerThanN(t *testing.T) {
	scored := []Suggestion{suggestionOn(t, 3, 9, 100)}
	out := selectTop(scored, 3)
	assert.Len(t, out, 1)
}

func TestSelectTopEmptyAndZeroN(t *testing.T) {
	assert.Nil(t, selectTop(nil, 3))
	assert.Nil(t, selectTop([]Suggestion{suggestionOn(t, 3, 9, 100)}, 0))
}

func TestSelectTopDoesNotMutateInput(t *testing.T) {
	scored := []Suggestion{
		suggestionOn(t, 4, 9, 110),
		suggestionOn(t, 3, 9, 150),
	}
	selectTop(scored, 2)
	assert.Equal(t, 110, scored[0].Score, "input order must survive selection")
}
