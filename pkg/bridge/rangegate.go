package bridge

import "github.com/unklstewy/adsb2aprs/pkg/coordinates"

// RangeGate decides admission and eviction by distance from a fixed
// reference point.
//
// The two thresholds are asymmetric on purpose: a track is admitted
// only within AddDistanceMi but evicted only beyond ClearDistanceMi.
// The gap is hysteresis: an aircraft orbiting right at the boundary
// doesn't generate a create/delete storm.
type RangeGate struct {
	// Reference is the center of the coverage circle
	Reference coordinates.Geographic

	// AddDistanceMi admits previously-unseen tracks (inclusive)
	AddDistanceMi float64

	// ClearDistanceMi evicts existing tracks (exclusive);
	// must exceed AddDistanceMi
	ClearDistanceMi float64
}

// Distance returns the great-circle distance from the reference point
// in statute miles.
func (g RangeGate) Distance(lat, lon float64) float64 {
	return coordinates.DistanceMiles(g.Reference, coordinates.Geographic{
		Latitude:  lat,
		Longitude: lon,
	})
}

// Admit reports whether a not-yet-tracked aircraft at this distance
// may be created.
func (g RangeGate) Admit(distMi float64) bool {
	return distMi <= g.AddDistanceMi
}

// Evict reports whether an existing track at this distance must be
// deleted.
func (g RangeGate) Evict(distMi float64) bool {
	return distMi > g.ClearDistanceMi
}
