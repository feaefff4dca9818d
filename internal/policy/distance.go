// README: Distance-tiered deferral policy.
package policy

import (
	"fieldslot/internal/zones"
)

// Tier is a travel-time bracket mapping to a deferral and clustering rule.
type Tier struct {
	Name           string
	MaxMinutes     int
	DeferDays      int
	MinClusterSize int
	PreferSaturday bool
}

// tiers are ordered by increasing travel time; the first tier whose bound is
// not exceeded applies. The last tier is the terminal catch-all.
var tiers = []Tier{
	{Name: "immediate", MaxMinutes: 30, DeferDays: 0, MinClusterSize: 1},
	{Name: "cluster_preferred", MaxMinutes: 40, DeferDays: 2, MinClusterSize: 3},
	{Name: "cluster_required", MaxMinutes: 60, DeferDays: 4, MinClusterSize: 2, PreferSaturday: true},
	{Name: "accumulate", MaxMinutes: 999, DeferDays: 14, MinClusterSize: 4},
}

// clusterPreferredBound is the travel bound below which the High Traffic
// close-in exception applies.
const clusterPreferredBound = 40

// TierFor returns the distance tier for a travel time. Values beyond every
// bound land in the terminal accumulate tier.
func TierFor(travelMinutes int) Tier {
	for _, t := range tiers {
		if travelMinutes <= t.MaxMinutes {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

// EffectiveTier applies the zone-specific override on top of the generic tier
// lookup: close-in High Traffic customers never wait on clustering, so their
// deferral drops to zero and next-day booking is allowed.
func EffectiveTier(zone zones.ID, travelMinutes int) Tier {
	t := TierFor(travelMinutes)
	if zone == zones.HighTraffic && travelMinutes < clusterPreferredBound {
		t.DeferDays = 0
	}
	return t
}
