package util

import "math"

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Round1 rounds v to one decimal place, halves rounding up.
func Round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
