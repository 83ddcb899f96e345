package interpolator

import (
	"io"
	"strconv"
	"sync"

	"github.com/tphakala/go-stream-interpolator/internal/mathutil"
)

// Sample is one interpolated output record.
type Sample struct {
	// Method is the tag of the method that produced the sample ("linear" or "newton").
	Method string

	// X is the sample coordinate.
	X float64

	// Y is the interpolated value.
	Y float64
}

// Sink receives emitted samples in increasing x order. An error from Emit stops the
// current emission and is returned to the caller of AddPoint or Shutdown.
type Sink interface {
	Emit(s Sample) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(s Sample) error

// Emit calls f(s).
func (f SinkFunc) Emit(s Sample) error {
	return f(s)
}

// TextSink writes one line per sample in the form "<method>: <x> <y>".
// Both values are rounded to the same number of decimals so output is reproducible.
type TextSink struct {
	w        io.Writer
	decimals int
	buf      []byte
}

// NewTextSink creates a TextSink writing to w. decimals is clamped to [0, 15].
func NewTextSink(w io.Writer, decimals int) *TextSink {
	return &TextSink{
		w:        w,
		decimals: clampDecimals(decimals),
	}
}

// Emit writes the formatted sample.
func (t *TextSink) Emit(s Sample) error {
	t.buf = AppendSample(t.buf[:0], s, t.decimals)
	t.buf = append(t.buf, '\n')
	_, err := t.w.Write(t.buf)
	return err
}

// FormatSample returns the text form of s without a trailing newline.
func FormatSample(s Sample, decimals int) string {
	return string(AppendSample(nil, s, decimals))
}

// AppendSample appends the text form of s to dst.
func AppendSample(dst []byte, s Sample, decimals int) []byte {
	decimals = clampDecimals(decimals)
	dst = append(dst, s.Method...)
	dst = append(dst, ':', ' ')
	dst = strconv.AppendFloat(dst, mathutil.SnapToGrid(s.X, decimals), 'f', decimals, 64)
	dst = append(dst, ' ')
	dst = strconv.AppendFloat(dst, mathutil.SnapToGrid(s.Y, decimals), 'f', decimals, 64)
	return dst
}

// CollectSink keeps every emitted sample in memory. It is safe for concurrent use.
type CollectSink struct {
	mu      sync.Mutex
	samples []Sample
}

// Emit records s.
func (c *CollectSink) Emit(s Sample) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples = append(c.samples, s)
	return nil
}

// Samples returns a copy of the recorded samples.
func (c *CollectSink) Samples() []Sample {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Sample, len(c.samples))
	copy(out, c.samples)
	return out
}

// Xs returns the x values of the recorded samples.
func (c *CollectSink) Xs() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	xs := make([]float64, len(c.samples))
	for i, s := range c.samples {
		xs[i] = s.X
	}
	return xs
}

// Reset discards the recorded samples.
func (c *CollectSink) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples = nil
}
