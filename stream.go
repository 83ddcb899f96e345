package interpolator

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tphakala/go-stream-interpolator/internal/mailbox"
)

// Stream errors.
var (
	// ErrStreamClosed is returned when a point or shutdown is sent after shutdown.
	ErrStreamClosed = errors.New("stream closed")

	// ErrAlreadyRunning is returned when Run is called more than once.
	ErrAlreadyRunning = errors.New("stream already running")
)

type messageKind int

const (
	messageAddPoint messageKind = iota
	messageShutdown
)

type message struct {
	kind  messageKind
	point Point
}

// Stream runs an Interpolator behind a mailbox.
//
// Producers call AddPoint and Shutdown from any goroutine without blocking. A single
// goroutine started with Run applies messages one at a time in arrival order, so the
// interpolator state is never shared.
type Stream struct {
	ip      *Interpolator
	queue   *mailbox.Queue[message]
	running atomic.Bool
	done    chan struct{}
	err     error

	log     zerolog.Logger
	metrics *Metrics
}

// NewStream creates a Stream around a new Interpolator. Call Run to start processing.
func NewStream(config Config, sink Sink, opts ...Option) (*Stream, error) {
	ip, err := New(config, sink, opts...)
	if err != nil {
		return nil, err
	}

	o := applyOptions(opts)

	return &Stream{
		ip:      ip,
		queue:   mailbox.New[message](o.mailboxCapacity),
		done:    make(chan struct{}),
		log:     ip.log,
		metrics: o.metrics,
	}, nil
}

// AddPoint queues a point. It fails with ErrStreamClosed after Shutdown.
func (s *Stream) AddPoint(x, y float64) error {
	p := Point{X: x, Y: y}
	if err := s.queue.Push(message{kind: messageAddPoint, point: p}); err != nil {
		s.metrics.protocolViolation()
		s.log.Warn().Stringer("point", p).Msg("point sent after shutdown")
		return fmt.Errorf("%w: point %v", ErrStreamClosed, p)
	}
	return nil
}

// Shutdown queues the final message. Points queued before it are processed first, then
// the remaining span is flushed and Run returns.
func (s *Stream) Shutdown() error {
	if err := s.queue.PushAndClose(message{kind: messageShutdown}); err != nil {
		s.metrics.protocolViolation()
		s.log.Warn().Msg("shutdown sent after shutdown")
		return fmt.Errorf("%w: repeated shutdown", ErrStreamClosed)
	}
	return nil
}

// Run processes messages until shutdown has been handled.
//
// Cancelling ctx closes the mailbox: messages already queued are still applied, the
// remaining span is flushed, and Run returns the context error. An emission in progress
// is never interrupted. A sink failure stops the stream and is returned.
func (s *Stream) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(s.done)

	s.err = s.loop(ctx)
	return s.err
}

// Done is closed when Run returns.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Err returns the error Run returned. Only valid after Done is closed.
func (s *Stream) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Close sends Shutdown and waits for Run to finish or ctx to expire.
func (s *Stream) Close(ctx context.Context) error {
	if err := s.Shutdown(); err != nil && !errors.Is(err, ErrStreamClosed) {
		return err
	}

	select {
	case <-s.done:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Stream) loop(ctx context.Context) error {
	cancelled := ctx.Done()
	var cause error

	for {
		for {
			msg, ok := s.queue.Pop()
			if !ok {
				break
			}

			stop, err := s.handle(msg)
			if err != nil {
				s.queue.Close()
				s.log.Error().Err(err).Msg("stream stopped")
				return err
			}
			if stop {
				return nil
			}
		}

		// Closed and drained without a shutdown message: the context was cancelled.
		if s.queue.Closed() && s.queue.Len() == 0 {
			if err := s.ip.Shutdown(); err != nil {
				return err
			}
			return cause
		}

		select {
		case <-s.queue.Ready():
		case <-cancelled:
			cause = context.Cause(ctx)
			s.log.Debug().Err(cause).Msg("context cancelled, flushing")
			s.queue.Close()
			cancelled = nil
		}
	}
}

func (s *Stream) handle(msg message) (stop bool, err error) {
	switch msg.kind {
	case messageAddPoint:
		return false, s.ip.AddPoint(msg.point)
	case messageShutdown:
		return true, s.ip.Shutdown()
	default:
		return false, fmt.Errorf("unknown message kind %d", int(msg.kind))
	}
}
