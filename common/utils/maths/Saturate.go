package maths

import "math"

func Saturate(val float64, min float64, max float64) float64 {
	if val < min {
		return min
	} else if val > max {
		return max
	} else {
		return val
	}
}

// Lerp returns a + t*(b-a).
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// SegmentCount returns how many pieces of at most spacing cover length,
// never less than one.
func SegmentCount(length, spacing float64) int {
	if spacing <= 0 || length <= 0 {
		return 1
	}
	n := int(math.Ceil(length / spacing))
	if n < 1 {
		return 1
	}
	return n
}
