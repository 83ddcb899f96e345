package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-stream-interpolator/internal/engine"
	"github.com/tphakala/go-stream-interpolator/internal/testutil"
)

type pointRecorder struct {
	points []engine.Point
	failAt int
}

var errRejected = errors.New("rejected")

func (r *pointRecorder) AddPoint(x, y float64) error {
	if r.failAt > 0 && len(r.points)+1 == r.failAt {
		return errRejected
	}
	r.points = append(r.points, engine.Point{X: x, Y: y})
	return nil
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in   string
		want engine.Point
	}{
		{"1 2", engine.Point{X: 1, Y: 2}},
		{"1.5\t-2.25", engine.Point{X: 1.5, Y: -2.25}},
		{"3,4", engine.Point{X: 3, Y: 4}},
		{"5;6", engine.Point{X: 5, Y: 6}},
		{"  7 ,  8  ", engine.Point{X: 7, Y: 8}},
		{"1e-3 2E2", engine.Point{X: 0.001, Y: 200}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePoint(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePoint_Malformed(t *testing.T) {
	for _, in := range []string{"1", "1 2 3", "a 2", "1 b", ""} {
		_, err := ParsePoint(in)
		assert.ErrorIs(t, err, ErrMalformedLine, "input %q", in)
	}
}

func TestLineSource(t *testing.T) {
	src := NewLineSource(strings.NewReader("# header\n0 0\n\n1 1\n  # indented comment\n2,4\n"))

	var got []engine.Point
	for {
		p, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, p)
	}

	assert.Equal(t, []engine.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 4}}, got)
}

func TestLineSource_ReportsLineNumber(t *testing.T) {
	src := NewLineSource(strings.NewReader("0 0\n\nbad line here\n"))

	_, err := src.Next()
	require.NoError(t, err)

	_, err = src.Next()
	require.ErrorIs(t, err, ErrMalformedLine)
	assert.Contains(t, err.Error(), "line 3")
}

func TestFeed(t *testing.T) {
	rec := &pointRecorder{}
	n, err := Feed(context.Background(), NewLineSource(strings.NewReader("0 0\n1 1\n2 4\n")), rec)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, rec.points, 3)
}

func TestFeed_SinkError(t *testing.T) {
	rec := &pointRecorder{failAt: 2}
	n, err := Feed(context.Background(), NewLineSource(strings.NewReader("0 0\n1 1\n2 4\n")), rec)

	require.ErrorIs(t, err, errRejected)
	assert.Equal(t, 1, n)
}

func TestFeed_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := Feed(ctx, NewLineSource(strings.NewReader("0 0\n")), &pointRecorder{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, n)
}

func writeWAV(t *testing.T, rate, channels int, data []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "in.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	return path
}

func readAll(t *testing.T, src Source) []engine.Point {
	t.Helper()
	var pts []engine.Point
	for {
		p, err := src.Next()
		if errors.Is(err, io.EOF) {
			return pts
		}
		require.NoError(t, err)
		pts = append(pts, p)
	}
}

func TestWAVSource_Mono(t *testing.T) {
	path := writeWAV(t, 8000, 1, []int{0, 16384, -16384, 32767})

	src, err := OpenWAV(path, 0)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	assert.Equal(t, 8000.0, src.SampleRate())

	pts := readAll(t, src)
	require.Len(t, pts, 4)

	assert.Equal(t, []float64{0, 1.0 / 8000, 2.0 / 8000, 3.0 / 8000},
		[]float64{pts[0].X, pts[1].X, pts[2].X, pts[3].X})
	assert.InDelta(t, 0.0, pts[0].Y, 1e-12)
	assert.InDelta(t, 0.5, pts[1].Y, 1e-12)
	assert.InDelta(t, -0.5, pts[2].Y, 1e-12)
	assert.InDelta(t, 32767.0/32768.0, pts[3].Y, 1e-12)
}

func TestWAVSource_SelectsChannel(t *testing.T) {
	// Interleaved L/R frames.
	path := writeWAV(t, 100, 2, []int{1000, -1000, 2000, -2000, 3000, -3000})

	src, err := OpenWAV(path, 1)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	pts := readAll(t, src)
	require.Len(t, pts, 3)
	for i, p := range pts {
		assert.InDelta(t, float64(i)/100, p.X, 1e-12)
		assert.InDelta(t, -float64(1000*(i+1))/32768, p.Y, 1e-12)
	}
}

func TestWAVSource_FullScaleStaysInUnitRange(t *testing.T) {
	path := writeWAV(t, 48000, 1, []int{-32768, -1, 0, 1, 32767})

	src, err := OpenWAV(path, 0)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	pts := readAll(t, src)
	require.Len(t, pts, 5)
	for _, p := range pts {
		testutil.AssertInRange(t, p.Y, -1, 1)
	}
	assert.Equal(t, -1.0, pts[0].Y)
}

func TestWAVSource_ChannelOutOfRange(t *testing.T) {
	path := writeWAV(t, 100, 1, []int{1, 2})

	_, err := OpenWAV(path, 1)
	require.Error(t, err)
}

func TestWAVSource_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a wav file"), 0o600))

	_, err := OpenWAV(path, 0)
	require.ErrorIs(t, err, ErrInvalidWAV)
}
