package fdtd

import (
	"math"
)

const MS float64 = 1.0 / 1000.0

// LinearToDB converts an amplitude to decibels, returning floor for silence.
func LinearToDB(v float64, floor float64) float64 {
	if v == 0 {
		return floor
	}
	return math.Max(20*math.Log10(math.Abs(v)), floor)
}
