// Package engine implements the interpolation strategies, the window selector and the
// output cursor scheduler used by the streaming interpolator.
package engine

import (
	"errors"
	"fmt"
)

// Point is a single (x, y) observation.
type Point struct {
	X float64
	Y float64
}

// String implements fmt.Stringer.
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Errors returned by strategies and the scheduler.
var (
	// ErrOutOfRange indicates the query x lies outside the span covered by the window.
	ErrOutOfRange = errors.New("x outside interpolation range")

	// ErrInsufficientPoints indicates the window is smaller than the method minimum.
	// The streaming state machine never lets this happen, so seeing it is a bug.
	ErrInsufficientPoints = errors.New("insufficient points for interpolation")

	// ErrDegenerateInput indicates two points share an x value where a division by
	// their difference is required.
	ErrDegenerateInput = errors.New("degenerate input: duplicate x values")
)
