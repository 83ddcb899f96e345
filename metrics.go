package interpolator

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tphakala/go-stream-interpolator/internal/engine"
)

// Stop reasons recorded in the emission_stops_total metric.
const (
	stopReasonOutOfRange = "out_of_range"
	stopReasonDegenerate = "degenerate_input"
	stopReasonOther      = "other"
)

// Metrics holds the Prometheus collectors updated by an Interpolator and its Stream.
// A nil *Metrics disables collection.
type Metrics struct {
	// PointsReceived counts points appended to the history.
	PointsReceived prometheus.Counter

	// SamplesEmitted counts samples handed to the sink, by method.
	SamplesEmitted *prometheus.CounterVec

	// EmissionStops counts emission walks ended early by the strategy, by reason.
	EmissionStops *prometheus.CounterVec

	// ProtocolViolations counts messages delivered after shutdown.
	ProtocolViolations prometheus.Counter

	// HistoryPoints is the current number of points in the history.
	HistoryPoints prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg skips
// registration, which is useful in tests.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		PointsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "points_received_total",
			Help:      "Total number of points appended to the interpolation history",
		}),
		SamplesEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "samples_emitted_total",
			Help:      "Total number of interpolated samples emitted, by method",
		}, []string{"method"}),
		EmissionStops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "emission_stops_total",
			Help:      "Emission walks ended before the end of the span, by reason",
		}, []string{"reason"}),
		ProtocolViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "protocol_violations_total",
			Help:      "Messages delivered after shutdown",
		}),
		HistoryPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "history_points",
			Help:      "Number of points currently held in the history",
		}),
	}

	if reg == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{
		m.PointsReceived, m.SamplesEmitted, m.EmissionStops, m.ProtocolViolations, m.HistoryPoints,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	return m, nil
}

func (m *Metrics) pointReceived(historyLen int) {
	if m == nil {
		return
	}
	m.PointsReceived.Inc()
	m.HistoryPoints.Set(float64(historyLen))
}

func (m *Metrics) samplesEmitted(method string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.SamplesEmitted.WithLabelValues(method).Add(float64(n))
}

func (m *Metrics) emissionStopped(err error) {
	if m == nil || err == nil {
		return
	}
	m.EmissionStops.WithLabelValues(stopReason(err)).Inc()
}

func (m *Metrics) protocolViolation() {
	if m == nil {
		return
	}
	m.ProtocolViolations.Inc()
}

func stopReason(err error) string {
	switch {
	case errors.Is(err, engine.ErrOutOfRange):
		return stopReasonOutOfRange
	case errors.Is(err, engine.ErrDegenerateInput):
		return stopReasonDegenerate
	default:
		return stopReasonOther
	}
}
