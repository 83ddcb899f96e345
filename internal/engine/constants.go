package engine

// Linear interpolation constants
const (
	// Linear interpolation needs one bracketing pair
	linearMinPoints = 2

	// Tag used in emitted records
	linearName = "linear"
)

// Newton interpolation constants
const (
	// A Newton polynomial of order n needs n+1 points, the smallest useful order is 1
	newtonMinPoints = 2

	// Tag used in emitted records
	newtonName = "newton"
)

// Scheduler constants
const (
	// tickBatchSize is the number of grid ticks computed per SIMD pass.
	tickBatchSize = 256
)
