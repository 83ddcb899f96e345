package source

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/tphakala/go-stream-interpolator/internal/engine"
)

// WAV decoding constants
const (
	// Frames decoded per PCMBuffer call
	wavBufferFrames = 4096

	// 8-bit WAV samples are unsigned with this midpoint
	unsigned8BitOffset = 128
	bitsPer8BitSample  = 8
)

// ErrInvalidWAV is returned for files the WAV decoder rejects.
var ErrInvalidWAV = errors.New("invalid WAV file")

// WAVSource turns one channel of a PCM WAV stream into points: x is the time of the
// frame in seconds and y the sample scaled to [-1, 1].
type WAVSource struct {
	closer    io.Closer
	decoder   *wav.Decoder
	buf       *audio.IntBuffer
	pending   []int
	pos       int
	frame     int64
	channel   int
	channels  int
	rate      float64
	bitDepth  int
	fullScale float64
}

// OpenWAV opens a WAV file. Close releases it.
func OpenWAV(path string, channel int) (*WAVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}

	src, err := NewWAVSource(f, channel)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	src.closer = f
	return src, nil
}

// NewWAVSource decodes WAV data from r, reading the given zero-based channel.
func NewWAVSource(r io.ReadSeeker, channel int) (*WAVSource, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	format := decoder.Format()
	if format == nil || format.SampleRate <= 0 || format.NumChannels <= 0 {
		return nil, fmt.Errorf("%w: missing format chunk", ErrInvalidWAV)
	}
	if channel < 0 || channel >= format.NumChannels {
		return nil, fmt.Errorf("channel %d out of range (file has %d)", channel, format.NumChannels)
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth <= 0 {
		return nil, fmt.Errorf("%w: bit depth %d", ErrInvalidWAV, bitDepth)
	}

	return &WAVSource{
		decoder: decoder,
		buf: &audio.IntBuffer{
			Data:           make([]int, wavBufferFrames*format.NumChannels),
			Format:         format,
			SourceBitDepth: bitDepth,
		},
		channel:   channel,
		channels:  format.NumChannels,
		rate:      float64(format.SampleRate),
		bitDepth:  bitDepth,
		fullScale: float64(int64(1) << (bitDepth - 1)),
	}, nil
}

// SampleRate returns the sample rate in Hz.
func (w *WAVSource) SampleRate() float64 {
	return w.rate
}

// Next returns the next frame of the selected channel.
func (w *WAVSource) Next() (engine.Point, error) {
	if w.pos+w.channels > len(w.pending) {
		if err := w.fill(); err != nil {
			return engine.Point{}, err
		}
	}

	v := w.pending[w.pos+w.channel]
	w.pos += w.channels

	p := engine.Point{
		X: float64(w.frame) / w.rate,
		Y: w.normalize(v),
	}
	w.frame++
	return p, nil
}

// Close closes the underlying file when the source was opened with OpenWAV.
func (w *WAVSource) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

func (w *WAVSource) fill() error {
	w.buf.Data = w.buf.Data[:cap(w.buf.Data)]

	n, err := w.decoder.PCMBuffer(w.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read audio data: %w", err)
	}

	// Drop a trailing partial frame.
	n -= n % w.channels
	if n == 0 {
		return io.EOF
	}

	w.pending = w.buf.Data[:n]
	w.pos = 0
	return nil
}

func (w *WAVSource) normalize(v int) float64 {
	if w.bitDepth == bitsPer8BitSample {
		return float64(v-unsigned8BitOffset) / unsigned8BitOffset
	}
	return float64(v) / w.fullScale
}
