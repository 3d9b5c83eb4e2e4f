package levelmeter

import "math"

// LinearToDB converts a linear amplitude to decibels, clamped to
// [floor, ceiling]. Zero or negative input yields exactly floor; negative
// amplitudes should not occur but are tolerated rather than producing NaN.
func LinearToDB(linear, floor, ceiling float64) float64 {
	if linear <= 0 {
		return floor
	}
	db := 20 * math.Log10(linear)
	return min(max(db, floor), ceiling)
}

// DBToLinear converts decibels to a linear amplitude. The result is not
// clamped, so a round trip through LinearToDB is only exact inside the
// clamp bounds.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}
