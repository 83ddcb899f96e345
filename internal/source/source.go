// Package source provides point sources that feed a streaming interpolator.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tphakala/go-stream-interpolator/internal/engine"
)

// Source yields points in arrival order. Next returns io.EOF after the last point.
type Source interface {
	Next() (engine.Point, error)
}

// PointSink accepts points; *interpolator.Stream satisfies it.
type PointSink interface {
	AddPoint(x, y float64) error
}

// Feed copies points from src to dst until src is exhausted or ctx is done, and returns
// the number of points delivered. io.EOF is not reported as an error.
func Feed(ctx context.Context, src Source, dst PointSink) (int, error) {
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		p, err := src.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("read point %d: %w", n+1, err)
		}

		if err := dst.AddPoint(p.X, p.Y); err != nil {
			return n, err
		}
		n++
	}
}
