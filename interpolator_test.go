package interpolator

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-stream-interpolator/internal/engine"
	itestutil "github.com/tphakala/go-stream-interpolator/internal/testutil"
)

// spyStrategy records every window the scheduler binds.
type spyStrategy struct {
	engine.Strategy
	windows [][]Point
}

func (s *spyStrategy) Bind(window []Point) engine.Curve {
	s.windows = append(s.windows, append([]Point(nil), window...))
	return s.Strategy.Bind(window)
}

func newTestInterpolator(t *testing.T, method Method, step float64) (*Interpolator, *CollectSink) {
	t.Helper()
	sink := &CollectSink{}
	ip, err := New(Config{Method: method, Step: step}, sink)
	require.NoError(t, err)
	return ip, sink
}

func addPoints(t *testing.T, ip *Interpolator, pts ...Point) {
	t.Helper()
	for _, p := range pts {
		require.NoError(t, ip.AddPoint(p))
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Method: Linear(), Step: 1}, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{Method: Linear(), Step: 0}, &CollectSink{})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{Method: Newton(1), Step: 1}, &CollectSink{})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestInterpolator_LinearEmission(t *testing.T) {
	ip, sink := newTestInterpolator(t, Linear(), 0.5)

	addPoints(t, ip, Point{X: 0, Y: 0})
	assert.Empty(t, sink.Samples(), "one point is not enough for linear")
	_, ok := ip.Cursor()
	assert.False(t, ok)

	addPoints(t, ip, Point{X: 1, Y: 1})
	assert.Equal(t, []float64{0, 0.5, 1}, sink.Xs())
	cursor, ok := ip.Cursor()
	require.True(t, ok)
	assert.Equal(t, 1.0, cursor)

	addPoints(t, ip, Point{X: 2, Y: 4})
	assert.Equal(t, []float64{0, 0.5, 1, 1.5, 2}, sink.Xs())

	samples := sink.Samples()
	assert.Equal(t, Sample{Method: "linear", X: 1.5, Y: 2.5}, samples[3])

	require.NoError(t, ip.Shutdown())
	assert.Len(t, sink.Samples(), 5, "nothing left to flush")
	assert.Equal(t, StateStopped, ip.State())
}

// Consecutive batches never overlap and the seam is exactly one step.
func TestInterpolator_NoOverlapBetweenBatches(t *testing.T) {
	ip, sink := newTestInterpolator(t, Linear(), 0.5)

	addPoints(t, ip, Point{X: 0, Y: 0}, Point{X: 1, Y: 1})
	first := sink.Xs()
	sink.Reset()

	addPoints(t, ip, Point{X: 2, Y: 2})
	second := sink.Xs()

	require.NotEmpty(t, first)
	require.NotEmpty(t, second)
	for _, b := range second {
		for _, a := range first {
			assert.Greater(t, b, a)
		}
	}
	assert.Equal(t, 0.5, second[0]-first[len(first)-1])
}

func TestInterpolator_NewtonWindowSize(t *testing.T) {
	ip, sink := newTestInterpolator(t, Newton(3), 0.5)
	spy := &spyStrategy{Strategy: ip.strategy}
	ip.strategy = spy

	pts := []Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 4}, {X: 3, Y: 9}, {X: 4, Y: 16}}
	addPoints(t, ip, pts...)

	require.Len(t, spy.windows, 3, "one emission per point from the third on")
	for _, w := range spy.windows {
		assert.Len(t, w, 3)
	}
	assert.Equal(t, pts[2:], spy.windows[2], "window is the three most recent points")

	xs := sink.Xs()
	itestutil.AssertStrictlyIncreasing(t, xs)
	itestutil.AssertEvenlySpaced(t, xs, 0.5, itestutil.GridTolerance)
	for _, s := range sink.Samples() {
		assert.InDelta(t, s.X*s.X, s.Y, itestutil.DefaultTolerance, "x=%v", s.X)
		assert.Equal(t, "newton", s.Method)
	}
	assert.Equal(t, 4.0, xs[len(xs)-1])
}

func TestInterpolator_ShutdownFlush(t *testing.T) {
	ip, sink := newTestInterpolator(t, Linear(), 0.5)

	// Two points emitted up to x=1, the third arrived without an emission yet.
	ip.history = []Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}
	ip.grid = engine.Grid{Step: 0.5}
	ip.next = 3
	ip.cursor = 1
	ip.hasCursor = true

	require.NoError(t, ip.Shutdown())

	assert.Equal(t, []Sample{
		{Method: "linear", X: 1.5, Y: 1.5},
		{Method: "linear", X: 2, Y: 2},
	}, sink.Samples())
	assert.Equal(t, StateStopped, ip.State())
}

func TestInterpolator_ShutdownWithoutEmission(t *testing.T) {
	ip, sink := newTestInterpolator(t, Newton(3), 1)
	addPoints(t, ip, Point{X: 0, Y: 0}, Point{X: 1, Y: 1})

	require.NoError(t, ip.Shutdown())
	assert.Empty(t, sink.Samples())
	assert.Equal(t, StateStopped, ip.State())
}

func TestInterpolator_AfterShutdown(t *testing.T) {
	metrics, err := NewMetrics(nil)
	require.NoError(t, err)

	sink := &CollectSink{}
	ip, err := New(Config{Method: Linear(), Step: 1}, sink, WithMetrics(metrics))
	require.NoError(t, err)

	addPoints(t, ip, Point{X: 0, Y: 0}, Point{X: 1, Y: 1})
	require.NoError(t, ip.Shutdown())

	err = ip.AddPoint(Point{X: 2, Y: 2})
	require.ErrorIs(t, err, ErrStopped)
	assert.Equal(t, 2, ip.Len(), "history must not change after shutdown")

	require.ErrorIs(t, ip.Shutdown(), ErrStopped)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ProtocolViolations))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.PointsReceived))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.SamplesEmitted.WithLabelValues("linear")))
}

// A point that opens no new grid tick must not move the cursor, or the next tick
// would be skipped.
func TestInterpolator_EmptyEmissionKeepsCursor(t *testing.T) {
	ip, sink := newTestInterpolator(t, Linear(), 1)

	addPoints(t, ip, Point{X: 0, Y: 0}, Point{X: 0.5, Y: 0.5})
	assert.Equal(t, []float64{0}, sink.Xs())

	addPoints(t, ip, Point{X: 0.7, Y: 0.7})
	cursor, _ := ip.Cursor()
	assert.Equal(t, 0.0, cursor)

	addPoints(t, ip, Point{X: 2, Y: 2})
	assert.Equal(t, []float64{0, 1, 2}, sink.Xs())
}

// 3*0.1 rounds past 0.3; the final tick must still be emitted, at exactly 0.3.
func TestInterpolator_DecimalStepReachesEndPoint(t *testing.T) {
	ip, sink := newTestInterpolator(t, Linear(), 0.1)

	addPoints(t, ip, Point{X: 0, Y: 0}, Point{X: 0.3, Y: 0.3})
	assert.Equal(t, []float64{0, 0.1, 0.2, 0.3}, sink.Xs())

	cursor, ok := ip.Cursor()
	require.True(t, ok)
	assert.Equal(t, 0.3, cursor)

	require.NoError(t, ip.Shutdown())
	assert.Len(t, sink.Samples(), 4, "nothing left to flush")
	for _, s := range sink.Samples() {
		assert.InDelta(t, s.X, s.Y, itestutil.DefaultTolerance)
	}
}

// One point per call with a decimal step: every arrival emits its own x and the
// cursor never accumulates rounding from step additions.
func TestInterpolator_DecimalStepOnePointPerCall(t *testing.T) {
	const n = 31
	ip, sink := newTestInterpolator(t, Linear(), 0.1)

	want := make([]float64, n)
	for i := range n {
		x := float64(i) / 10
		want[i] = x
		addPoints(t, ip, Point{X: x, Y: 2 * x})
	}
	require.NoError(t, ip.Shutdown())

	assert.Equal(t, want, sink.Xs())
	for _, s := range sink.Samples() {
		assert.InDelta(t, 2*s.X, s.Y, itestutil.DefaultTolerance, "x=%v", s.X)
	}
}

func TestInterpolator_DegenerateWindow(t *testing.T) {
	metrics, err := NewMetrics(nil)
	require.NoError(t, err)

	sink := &CollectSink{}
	ip, err := New(Config{Method: Newton(3), Step: 0.5}, sink, WithMetrics(metrics))
	require.NoError(t, err)

	addPoints(t, ip, Point{X: 0, Y: 0}, Point{X: 1, Y: 1}, Point{X: 1, Y: 2})

	assert.Empty(t, sink.Samples())
	_, ok := ip.Cursor()
	assert.False(t, ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EmissionStops.WithLabelValues(stopReasonDegenerate)))
}

func TestInterpolator_LinearStopsAtNewestPoint(t *testing.T) {
	metrics, err := NewMetrics(nil)
	require.NoError(t, err)

	sink := &CollectSink{}
	ip, err := New(Config{Method: Linear(), Step: 0.4}, sink, WithMetrics(metrics))
	require.NoError(t, err)

	addPoints(t, ip, Point{X: 0, Y: 0}, Point{X: 1, Y: 2})
	assert.Equal(t, []float64{0, 0.4, 0.8}, sink.Xs())
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.EmissionStops.WithLabelValues(stopReasonOutOfRange)))
}

func TestInterpolator_SinkError(t *testing.T) {
	errSink := errors.New("disk full")
	ip, err := New(Config{Method: Linear(), Step: 1}, SinkFunc(func(Sample) error { return errSink }))
	require.NoError(t, err)

	require.NoError(t, ip.AddPoint(Point{X: 0, Y: 0}))
	err = ip.AddPoint(Point{X: 1, Y: 1})
	require.ErrorIs(t, err, errSink)

	_, ok := ip.Cursor()
	assert.False(t, ok, "cursor only tracks samples the sink accepted")
}

func TestInterpolator_IncrementalMatchesBatch(t *testing.T) {
	pts := []Point{{X: 0, Y: 1}, {X: 0.7, Y: 2}, {X: 1.1, Y: 0.5}, {X: 2.6, Y: 3}, {X: 3.05, Y: -1}}

	ip, sink := newTestInterpolator(t, Linear(), 0.25)
	addPoints(t, ip, pts...)
	require.NoError(t, ip.Shutdown())

	var want []float64
	for x := 0; x <= 12; x++ {
		want = append(want, float64(x)*0.25)
	}
	assert.Equal(t, want, sink.Xs())

	for _, s := range sink.Samples() {
		y, err := engine.LinearInterpolate(pts, s.X)
		require.NoError(t, err)
		assert.Equal(t, y, s.Y)
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "State(7)", State(7).String())
}
