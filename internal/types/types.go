// README: Shared primitive types used across modules.
package types

// ID identifies an appointment or customer record in the tracking store.
type ID string

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64
	Lng float64
}
