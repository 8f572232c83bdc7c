package advisory

import "math"

// Unit conversions are centralized here so the classifier and the spray
// badges can never disagree on a rounded value. The provider reports wind in
// m/s and visibility in meters; every operational threshold is expressed in
// km/h and km.

// WindSpeedKmh converts a wind speed in m/s to km/h, rounded to the nearest
// integer (halves round up).
func WindSpeedKmh(ms float64) int {
	return roundNearest(ms * 3.6)
}

// VisibilityKm converts a visibility in meters to kilometers, rounded to the
// nearest integer (halves round up).
func VisibilityKm(meters float64) int {
	return roundNearest(meters / 1000)
}

// roundNearest rounds to the nearest integer with halves rounding toward
// positive infinity. Inputs here are physical quantities and never negative.
func roundNearest(v float64) int {
	return int(math.Floor(v + 0.5))
}
