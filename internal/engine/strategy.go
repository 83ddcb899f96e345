package engine

import "fmt"

// Strategy is an interpolation method. Implementations hold no mutable state, so a
// Strategy can be shared between goroutines.
type Strategy interface {
	// Name returns the method tag written with every emitted sample.
	Name() string

	// MinPoints returns the number of points needed before interpolation is attempted.
	MinPoints() int

	// Window selects the subset of history used for interpolation.
	Window(history []Point) []Point

	// Interpolate estimates y at x from window.
	Interpolate(window []Point, x float64) (float64, error)

	// Bind prepares window for repeated evaluation. Any error is reported by Curve.At.
	Bind(window []Point) Curve
}

// Curve evaluates a strategy over a fixed window.
type Curve interface {
	At(x float64) (float64, error)
}

// CurveFunc adapts a function to the Curve interface.
type CurveFunc func(x float64) (float64, error)

// At calls f(x).
func (f CurveFunc) At(x float64) (float64, error) {
	return f(x)
}

// Linear interpolates between the two points bracketing x across the whole history.
type Linear struct{}

// Name returns "linear".
func (Linear) Name() string { return linearName }

// MinPoints returns 2.
func (Linear) MinPoints() int { return linearMinPoints }

// Window returns the whole history.
func (Linear) Window(history []Point) []Point { return SelectWindow(history, 0) }

// Interpolate calls LinearInterpolate.
func (Linear) Interpolate(window []Point, x float64) (float64, error) {
	return LinearInterpolate(window, x)
}

// Bind returns a curve that searches the bracket on every call.
func (Linear) Bind(window []Point) Curve {
	return CurveFunc(func(x float64) (float64, error) {
		return LinearInterpolate(window, x)
	})
}

// Newton interpolates with a Newton divided-difference polynomial over the last Size
// points.
type Newton struct {
	Size int
}

// NewNewton returns a Newton strategy using windows of size points.
func NewNewton(size int) (Newton, error) {
	if size < newtonMinPoints {
		return Newton{}, fmt.Errorf("%w: newton window %d < %d", ErrInsufficientPoints, size, newtonMinPoints)
	}
	return Newton{Size: size}, nil
}

// Name returns "newton".
func (Newton) Name() string { return newtonName }

// MinPoints returns the window size.
func (n Newton) MinPoints() int { return n.Size }

// Window returns the last Size points.
func (n Newton) Window(history []Point) []Point { return SelectWindow(history, n.Size) }

// Interpolate calls NewtonInterpolate.
func (Newton) Interpolate(window []Point, x float64) (float64, error) {
	return NewtonInterpolate(window, x)
}

// Bind computes the divided-difference coefficients once for the window.
func (Newton) Bind(window []Point) Curve {
	if len(window) < newtonMinPoints {
		err := fmt.Errorf("%w: newton needs %d, got %d", ErrInsufficientPoints, newtonMinPoints, len(window))
		return CurveFunc(func(float64) (float64, error) { return 0, err })
	}

	coef, err := DividedDifferences(window)
	if err != nil {
		return CurveFunc(func(float64) (float64, error) { return 0, err })
	}

	return CurveFunc(func(x float64) (float64, error) {
		return EvalNewton(coef, window, x), nil
	})
}
