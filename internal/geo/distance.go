// README: Pure geographic computation helpers (haversine, travel-time estimation).
package geo

import (
	"math"

	"fieldslot/internal/types"
)

const earthRadiusMiles = 3958.7613

// Base is the dispatch origin all travel estimates are measured from
// (10000 N 31st Ave, Phoenix, AZ 85051).
var Base = types.Point{Lat: 33.57616, Lng: -112.12666}

// avgMPH is a conservative metro average driving speed.
const avgMPH = 32.0

// HaversineMiles returns the great-circle distance in miles between two
// points specified in decimal degrees.
func HaversineMiles(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}

// MilesFromBase returns the straight-line distance from the dispatch base.
func MilesFromBase(p types.Point) float64 {
	return HaversineMiles(Base, p)
}

// EstimateMinutesFromBase converts base distance into driving minutes at a
// conservative average speed. Rounded to the nearest minute.
func EstimateMinutesFromBase(p types.Point) int {
	return int(math.Round(MilesFromBase(p) / avgMPH * 60))
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
