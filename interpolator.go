package interpolator

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tphakala/go-stream-interpolator/internal/engine"
)

// Point is a single (x, y) observation.
type Point = engine.Point

// Errors re-exported from the engine so callers can match them with errors.Is.
var (
	// ErrOutOfRange indicates the query x lies outside the span covered by the window.
	ErrOutOfRange = engine.ErrOutOfRange

	// ErrInsufficientPoints indicates an interpolation was attempted on too few points.
	ErrInsufficientPoints = engine.ErrInsufficientPoints

	// ErrDegenerateInput indicates two points with the same x had to be divided by
	// their difference.
	ErrDegenerateInput = engine.ErrDegenerateInput

	// ErrStopped is returned for any message delivered after Shutdown.
	ErrStopped = errors.New("interpolator stopped")
)

// State is the lifecycle state of an Interpolator.
type State int

const (
	// StateRunning accepts points.
	StateRunning State = iota

	// StateStopped is terminal; the final flush has been performed.
	StateStopped
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Interpolator is the streaming interpolation state machine.
//
// Each AddPoint appends to the history and emits samples for the x range that became
// available since the last emission; Shutdown flushes what is left. Emitted x values
// are strictly increasing and spaced exactly Step apart across calls.
//
// An Interpolator is not safe for concurrent use. Use a Stream to feed it from several
// goroutines.
type Interpolator struct {
	config   Config
	strategy engine.Strategy
	sink     Sink

	history []Point
	state   State

	// grid is anchored at the first emitted x; next is the index of the first tick not
	// yet emitted. Both are meaningful only once hasCursor is set.
	grid      engine.Grid
	next      int
	cursor    float64
	hasCursor bool

	log     zerolog.Logger
	metrics *Metrics
}

// New creates an Interpolator that writes samples to sink.
func New(config Config, sink Sink, opts ...Option) (*Interpolator, error) {
	if sink == nil {
		return nil, fmt.Errorf("%w: sink is nil", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	strategy, err := config.Method.strategy()
	if err != nil {
		return nil, err
	}

	o := applyOptions(opts)

	return &Interpolator{
		config:   config,
		strategy: strategy,
		sink:     sink,
		state:    StateRunning,
		log:      o.logger.With().Str("method", config.Method.String()).Logger(),
		metrics:  o.metrics,
	}, nil
}

// AddPoint appends p to the history and emits samples over the newly available span.
//
// Strategy stops (x out of range, duplicate x) are not errors: emission ends and the
// cursor keeps the last emitted x. Errors come from the sink, from an internal
// invariant violation, or from calling AddPoint after Shutdown.
func (ip *Interpolator) AddPoint(p Point) error {
	if ip.state == StateStopped {
		ip.metrics.protocolViolation()
		ip.log.Warn().Stringer("point", p).Msg("point received after shutdown")
		return fmt.Errorf("%w: point %v after shutdown", ErrStopped, p)
	}

	ip.history = append(ip.history, p)
	ip.metrics.pointReceived(len(ip.history))

	if len(ip.history) < ip.strategy.MinPoints() {
		return nil
	}

	window := ip.strategy.Window(ip.history)
	if !ip.hasCursor {
		return ip.emitRange(window, engine.Grid{Origin: window[0].X, Step: ip.config.Step}, 0, p.X)
	}

	return ip.emitRange(window, ip.grid, ip.next, p.X)
}

// Shutdown flushes any span not yet emitted and stops the interpolator. Nothing is
// flushed when no sample was ever emitted or there are too few points.
func (ip *Interpolator) Shutdown() error {
	if ip.state == StateStopped {
		ip.metrics.protocolViolation()
		ip.log.Warn().Msg("shutdown received after shutdown")
		return fmt.Errorf("%w: repeated shutdown", ErrStopped)
	}
	defer func() { ip.state = StateStopped }()

	if len(ip.history) < ip.strategy.MinPoints() || !ip.hasCursor {
		ip.log.Debug().Int("points", len(ip.history)).Msg("shutdown without flush")
		return nil
	}

	window := ip.strategy.Window(ip.history)
	last := ip.history[len(ip.history)-1]

	return ip.emitRange(window, ip.grid, ip.next, last.X)
}

// Cursor returns the x of the last emitted sample. ok is false until the first emission.
func (ip *Interpolator) Cursor() (x float64, ok bool) {
	return ip.cursor, ip.hasCursor
}

// Len returns the number of points received.
func (ip *Interpolator) Len() int {
	return len(ip.history)
}

// State returns the lifecycle state.
func (ip *Interpolator) State() State {
	return ip.state
}

// Config returns the configuration the interpolator was created with.
func (ip *Interpolator) Config() Config {
	return ip.config
}

func (ip *Interpolator) emitRange(window []Point, grid engine.Grid, first int, end float64) error {
	method := ip.strategy.Name()
	start := grid.At(first)

	res, err := engine.EmitRange(ip.strategy, window, grid, first, end, func(x, y float64) error {
		return ip.sink.Emit(Sample{Method: method, X: x, Y: y})
	})

	// Advance only past samples that reached the sink; an empty walk leaves the cursor
	// where it was so no x is skipped on the next call.
	if res.Emitted > 0 {
		ip.grid = grid
		ip.next = res.Next
		ip.cursor = res.Last
		ip.hasCursor = true
	}
	ip.metrics.samplesEmitted(method, res.Emitted)

	if res.Stop != nil {
		ip.metrics.emissionStopped(res.Stop)
		ev := ip.log.Debug()
		if errors.Is(res.Stop, engine.ErrDegenerateInput) {
			ev = ip.log.Warn()
		}
		ev.Err(res.Stop).Float64("start", start).Float64("end", end).Msg("emission stopped")
	}

	if err != nil {
		if errors.Is(err, engine.ErrInsufficientPoints) {
			ip.log.Error().Err(err).Int("window", len(window)).Msg("interpolation invariant violated")
		}
		return err
	}

	ip.log.Debug().
		Int("window", len(window)).
		Float64("start", start).
		Float64("end", end).
		Int("emitted", res.Emitted).
		Msg("emitted range")

	return nil
}
