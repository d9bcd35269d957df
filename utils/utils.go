package utils

import "math"

// FormatFloat rounds f to round decimal places, leaving NaN and Inf untouched.
func FormatFloat(f float64, round int32) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	scale := math.Pow(10, float64(round))
	return math.Round(f*scale) / scale
}
