package engine

import "fmt"

// LinearInterpolate estimates y at x from the window using 2-point linear interpolation.
//
// The window is assumed sorted by ascending X; it is neither sorted nor checked. The
// bracket is formed by the first point (after the leading one) whose X is >= x and the
// point immediately before it.
func LinearInterpolate(window []Point, x float64) (float64, error) {
	if len(window) < linearMinPoints {
		return 0, fmt.Errorf("%w: linear needs %d, got %d", ErrInsufficientPoints, linearMinPoints, len(window))
	}

	first, last := window[0], window[len(window)-1]
	if x < first.X || x > last.X {
		return 0, fmt.Errorf("%w: %g not in [%g, %g]", ErrOutOfRange, x, first.X, last.X)
	}

	for i := 1; i < len(window); i++ {
		p2 := window[i]
		if p2.X < x {
			continue
		}

		p1 := window[i-1]
		dx := p2.X - p1.X
		if dx == 0 {
			return 0, fmt.Errorf("%w: bracket %v %v", ErrDegenerateInput, p1, p2)
		}

		// y = p1.y + (x - p1.x) * slope
		return p1.Y + (x-p1.X)*(p2.Y-p1.Y)/dx, nil
	}

	// Only reachable when the window is not ascending.
	return 0, fmt.Errorf("%w: no bracket for %g", ErrOutOfRange, x)
}
