package interpolator

import "github.com/rs/zerolog"

// Option configures an Interpolator or Stream.
type Option func(*options)

type options struct {
	logger          zerolog.Logger
	metrics         *Metrics
	mailboxCapacity int
}

func defaultOptions() options {
	return options{
		logger:          zerolog.Nop(),
		mailboxCapacity: defaultMailboxCapacity,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics enables Prometheus metrics collection.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithMailboxCapacity sets the initial mailbox size of a Stream. The mailbox grows
// beyond it as needed.
func WithMailboxCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.mailboxCapacity = n
		}
	}
}
