package engine

import "fmt"

// DividedDifferences returns the Newton coefficients f[x0], f[x0,x1], ..., f[x0..xn] for
// the window.
//
// The table is built bottom-up in place: after pass k, coef[i] holds f[x(i-k)..xi].
// Every entry is produced by the same subtraction and division as the recursive
// definition, so the coefficients are bit-identical to it at O(n²) cost.
func DividedDifferences(window []Point) ([]float64, error) {
	n := len(window)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty window", ErrInsufficientPoints)
	}

	coef := make([]float64, n)
	for i, p := range window {
		coef[i] = p.Y
	}

	for k := 1; k < n; k++ {
		// Walk downward so coef[i-1] still holds the previous order.
		for i := n - 1; i >= k; i-- {
			den := window[i].X - window[i-k].X
			if den == 0 {
				return nil, fmt.Errorf("%w: x[%d] == x[%d] == %g", ErrDegenerateInput, i-k, i, window[i].X)
			}
			coef[i] = (coef[i] - coef[i-1]) / den
		}
	}

	return coef, nil
}

// EvalNewton evaluates the Newton form with the given coefficients and nodes at x.
// Terms are summed in ascending order:
//
//	P(x) = c0 + c1(x-x0) + c2(x-x0)(x-x1) + ...
func EvalNewton(coef []float64, window []Point, x float64) float64 {
	sum := 0.0
	basis := 1.0
	for k, c := range coef {
		sum += c * basis
		basis *= x - window[k].X
	}
	return sum
}

// NewtonInterpolate estimates y at x with the Newton polynomial through every point in
// the window. No range check is made; queries outside the window extrapolate.
func NewtonInterpolate(window []Point, x float64) (float64, error) {
	if len(window) < newtonMinPoints {
		return 0, fmt.Errorf("%w: newton needs %d, got %d", ErrInsufficientPoints, newtonMinPoints, len(window))
	}

	coef, err := DividedDifferences(window)
	if err != nil {
		return 0, err
	}

	return EvalNewton(coef, window, x), nil
}
