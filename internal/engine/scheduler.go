package engine

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-stream-interpolator/internal/mathutil"
	"github.com/tphakala/simd/f64"
)

// Grid is the lattice of output x values Origin + k*Step, k = 0, 1, 2, ...
type Grid struct {
	Origin float64
	Step   float64
}

// At returns the x of tick k.
func (g Grid) At(k int) float64 {
	return g.Origin + float64(k)*g.Step
}

// fill writes ticks first, first+1, ... into dst.
func (g Grid) fill(dst []float64, first int) {
	for j := range dst {
		dst[j] = float64(first + j)
	}
	f64.Scale(dst, dst, g.Step)
	f64.AddScalar(dst, dst, g.Origin)
}

// EmitFunc receives each interpolated sample.
type EmitFunc func(x, y float64) error

// RangeResult reports what EmitRange did.
type RangeResult struct {
	// Last is the x of the last emitted sample, or the x of the first tick when nothing
	// was emitted.
	Last float64

	// Next is the index of the first tick not emitted.
	Next int

	// Emitted is the number of samples handed to the emit function.
	Emitted int

	// Stop is the strategy error that ended the walk early (ErrOutOfRange or
	// ErrDegenerateInput), nil when every tick up to the end x was emitted.
	Stop error
}

// EmitRange walks the grid from tick first to the last tick not beyond endX,
// interpolating each one with the strategy over window and passing it to emit.
//
// Every x is computed from its tick index, never by accumulating steps, and a tick
// within rounding of endX is emitted at exactly endX. Out-of-range and degenerate ticks
// end the walk quietly and are reported in RangeResult.Stop. ErrInsufficientPoints and
// emit failures are returned as errors.
func EmitRange(s Strategy, window []Point, grid Grid, first int, endX float64, emit EmitFunc) (RangeResult, error) {
	res := RangeResult{Last: grid.At(first), Next: first}

	last := mathutil.LastTick(grid.Origin, endX, grid.Step)
	if last < first {
		return res, nil
	}

	curve := s.Bind(window)

	var xs [tickBatchSize]float64

	for k := first; k <= last; k += tickBatchSize {
		batch := xs[:min(tickBatchSize, last-k+1)]
		grid.fill(batch, k)

		for _, x := range batch {
			x = mathutil.SnapTick(x, endX, grid.Step)

			y, err := curve.At(x)
			if err != nil {
				if errors.Is(err, ErrOutOfRange) || errors.Is(err, ErrDegenerateInput) {
					res.Stop = err
					return res, nil
				}
				return res, err
			}

			if err := emit(x, y); err != nil {
				return res, fmt.Errorf("emit x=%g: %w", x, err)
			}

			res.Last = x
			res.Next++
			res.Emitted++
		}
	}

	return res, nil
}
