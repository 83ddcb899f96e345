// Package interpolator provides streaming numerical interpolation in pure Go.
//
// Points (x, y) arrive one at a time. After each arrival the interpolator estimates y on
// a regular grid of x values (spaced by Config.Step) over the span that became available,
// and hands the samples to a [Sink]. At shutdown it flushes whatever span is left.
//
// # Methods
//
//   - [Linear]: bracket search over the whole history and 2-point linear
//     interpolation. Queries outside the history fail and end the current emission.
//   - [Newton]: a Newton divided-difference polynomial through the most recent
//     WindowSize points. The coefficient table is built bottom-up in O(n²).
//
// # Quick Start
//
// Synchronous use from a single goroutine:
//
//	sink := interpolator.NewTextSink(os.Stdout, 2)
//	ip, err := interpolator.New(interpolator.Config{
//	    Method: interpolator.Linear(),
//	    Step:   0.5,
//	}, sink)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, p := range points {
//	    if err := ip.AddPoint(p); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	_ = ip.Shutdown()
//
// Concurrent producers use a [Stream], which owns the interpolator and applies messages
// from a mailbox in arrival order:
//
//	s, _ := interpolator.NewStream(cfg, sink, interpolator.WithLogger(logger))
//	go func() { _ = s.Run(ctx) }()
//	_ = s.AddPoint(0, 0)
//	_ = s.AddPoint(1, 1)
//	_ = s.Close(ctx)
//
// # Emission Rules
//
// The first emission starts at the first x of the window, which becomes the origin of
// the output grid. Each later emission starts at the grid tick after the last emitted x
// (the cursor) and runs to the newest point's x inclusive. Every x is computed as
// origin + k*step from its tick index, so long runs do not drift, and a tick that lands
// within rounding of the newest point is emitted at exactly that point's x. Emitted x
// values are therefore strictly increasing and never repeated.
//
// # Degenerate Input
//
// Two points with the same x where the method has to divide by their difference end the
// emission with [ErrDegenerateInput] instead of producing Inf or NaN. Input is not
// sorted; linear interpolation on descending x stops at the first query it cannot
// bracket.
//
// # Thread Safety
//
// [Interpolator] is not safe for concurrent use. [Stream] methods AddPoint, Shutdown and
// Close may be called from any goroutine.
package interpolator
