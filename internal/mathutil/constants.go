package mathutil

// Tick grid tolerances
const (
	// tickEpsilon absorbs rounding in (end-origin)/step so an end point that is an exact
	// multiple of step is not lost to a quotient like 3.9999999999999996. Measured in
	// steps.
	tickEpsilon = 1e-9

	// maxTick bounds tick indices so they convert to int and back to float64 exactly.
	maxTick = 1 << 52
)
