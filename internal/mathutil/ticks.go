// Package mathutil provides numeric helpers shared by the interpolation engine.
package mathutil

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// LastTick returns the largest k with origin + k*step <= end, or -1 when no tick fits.
// Quotients within tickEpsilon of a whole number are snapped to it, so an end point
// that sits on the grid is included even when (end-origin)/step lands just below it.
// Returns -1 for step <= 0, NaN inputs, or an infinite span.
func LastTick(origin, end, step float64) int {
	if !(step > 0) || math.IsNaN(origin) || math.IsNaN(end) {
		return -1
	}

	span := (end - origin) / step
	if rounded := math.Round(span); scalar.EqualWithinAbs(span, rounded, tickEpsilon) {
		span = rounded
	}
	if span < 0 || math.IsInf(span, 0) || span > maxTick {
		return -1
	}

	return int(math.Floor(span))
}

// SnapTick returns end when x lies within tickEpsilon steps of it, and x otherwise.
// It keeps a tick computed as origin + k*step from overshooting the end point it was
// counted against.
func SnapTick(x, end, step float64) float64 {
	if scalar.EqualWithinAbs(x, end, tickEpsilon*step) {
		return end
	}
	return x
}

// SnapToGrid rounds v to decimals places, turning negative zero into zero so that
// formatted output is stable.
func SnapToGrid(v float64, decimals int) float64 {
	r := scalar.Round(v, decimals)
	if r == 0 {
		return 0
	}
	return r
}
