package suggest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fieldslot/internal/policy"
	"fieldslot/internal/zones"
)

func TestScoreCandidate(t *testing.T) {
	loc := phoenix(t)
	today := monday(loc)

	cand := func(day, hour int, zone zones.ID, sameZone, total int) filteredCandidate {
		start := time.Date(2026, 3, day, hour, 0, 0, 0, loc)
		return filteredCandidate{
			Slot: CandidateSlot{
				Zone:        zone,
				Start:       start,
				End:         start.Add(40 * time.Minute),
				DurationMin: 40,
			},
			SameDayZoneCount: sameZone,
			TotalOnDay:       total,
		}
	}

	tests := []struct {
		name       string
		c          filteredCandidate
		pol        policy.ZonePolicy
		eastSide   bool
		wantScore  int
		wantReason string
	}{
		{
			// 100 + 50 same-day - 15 solo shortfall (min 1) + 5 morning
			name:       "same day near office",
			c:          cand(2, 9, zones.NearOffice, 0, 0),
			pol:        policy.ForZone(zones.NearOffice),
			wantScore:  140,
			wantReason: "same-day service",
		},
		{
			// 100 + 30 next-day - 15 + 5
			name:       "next day near office",
			c:          cand(3, 9, zones.NearOffice, 0, 0),
			pol:        policy.ForZone(zones.NearOffice),
			wantScore:  120,
			wantReason: "next-day service",
		},
		{
			// 100 + 20 two days out - 15 + 5
			name:       "two days out",
			c:          cand(4, 11, zones.NearOffice, 0, 0),
			pol:        policy.ForZone(zones.NearOffice),
			wantScore:  110,
			wantReason: "2 days out",
		},
		{
			// 100 + 10 three days out - 15 + 5
			name:       "three days out",
			c:          cand(5, 9, zones.NearOffice, 0, 0),
			pol:        policy.ForZone(zones.NearOffice),
			wantScore:  100,
			wantReason: "3 days out",
		},
		{
			// 100 + 10 three days + 45 cluster + 15 east side + 5 morning
			name:       "east side cluster",
			c:          cand(5, 10, zones.HighTraffic, 3, 3),
			pol:        policy.ForZone(zones.HighTraffic),
			eastSide:   true,
			wantScore:  175,
			wantReason: "efficient East Side cluster",
		},
		{
			// 100 + 45 cluster - 20 busy (7 appts), afternoon, 4 days out
			name:       "busy day penalty",
			c:          cand(6, 13, zones.FullArea, 3, 7),
			pol:        policy.ForZone(zones.FullArea),
			wantScore:  125,
			wantReason: "busy day (7 appointments already)",
		},
		{
			// 100 + 20 Saturday - 45 solo shortfall (min 3) + 5 morning
			name:       "saturday bonus for distant zone",
			c:          cand(7, 8, zones.FullArea, 0, 0),
			pol:        policy.ForZone(zones.FullArea),
			wantScore:  80,
			wantReason: "Saturday (less traffic for distant location)",
		},
		{
			// Near Office gets no Saturday bonus: 100 - 15 + 5
			name:      "saturday no bonus near office",
			c:         cand(7, 8, zones.NearOffice, 0, 0),
			pol:       policy.ForZone(zones.NearOffice),
			wantScore: 90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, reasons := scoreCandidate(tt.c, tt.pol, tt.eastSide, today)
			assert.Equal(t, tt.wantScore, score)
			if tt.wantReason != "" {
				assert.Contains(t, reasons, tt.wantReason)
			}
		})
	}
}

func TestScoreCandidateBusyDayThreshold(t *testing.T) {
	loc := phoenix(t)
	today := monday(loc)
	pol := policy.ForZone(zones.NearOffice)

	mk := func(total int) filteredCandidate {
		start := time.Date(2026, 3, 6, 13, 0, 0, 0, loc)
		return filteredCandidate{
			Slot:             CandidateSlot{Zone: zones.NearOffice, Start: start, End: start.Add(40 * time.Minute), DurationMin: 40},
			SameDayZoneCount: 1,
			TotalOnDay:       total,
		}
	}

	five, _ := scoreCandidate(mk(5), pol, false, today)
	six, _ := scoreCandidate(mk(6), pol, false, today)
	seven, _ := scoreCandidate(mk(7), pol, false, today)

	assert.Equal(t, five-10, six, "sixth appointment costs 10 points")
	assert.Equal(t, five-20, seven, "seventh appointment costs 20 points")
}

func TestScoreCandidateEastSideNeedsRealCluster(t *testing.T) {
	loc := phoenix(t)
	today := monday(loc)
	pol := policy.ForZone(zones.HighTraffic)
	start := time.Date(2026, 3, 5, 10, 0, 0, 0, loc)

	one := filteredCandidate{
		Slot:             CandidateSlot{Zone: zones.HighTraffic, Start: start, End: start.Add(40 * time.Minute), DurationMin: 40},
		SameDayZoneCount: 1,
		TotalOnDay:       1,
	}
	_, reasons := scoreCandidate(one, pol, true, today)
	assert.NotContains(t, reasons, "efficient East Side cluster")

	two := one
	two.SameDayZoneCount = 2
	two.TotalOnDay = 2
	_, reasons = scoreCandidate(two, pol, true, today)
	assert.Contains(t, reasons, "efficient East Side cluster")
}

func TestScoreCandidateIsPure(t *testing.T) {
	loc := phoenix(t)
	today := monday(loc)
	pol := policy.ForZone(zones.MediumTraffic)
	start := time.Date(2026, 3, 4, 11, 0, 0, 0, loc)
	c := filteredCandidate{
		Slot:             CandidateSlot{Zone: zones.MediumTraffic, Start: start, End: start.Add(40 * time.Minute), DurationMin: 40},
		SameDayZoneCount: 2,
		TotalOnDay:       4,
	}

	s1, r1 := scoreCandidate(c, pol, false, today)
	s2, r2 := scoreCandidate(c, pol, false, today)
	assert.Equal(t, s1, s2)
	assert.Equal(t, r1, r2)
}
