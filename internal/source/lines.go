package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tphakala/go-stream-interpolator/internal/engine"
)

// ErrMalformedLine is returned for a line that is not two numbers.
var ErrMalformedLine = errors.New("malformed point line")

// LineSource reads one point per text line: "x y", "x,y", "x;y" or tab separated.
// Blank lines and lines starting with '#' are skipped.
type LineSource struct {
	scanner *bufio.Scanner
	line    int
}

// NewLineSource reads points from r.
func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{scanner: bufio.NewScanner(r)}
}

// Next returns the next point.
func (l *LineSource) Next() (engine.Point, error) {
	for l.scanner.Scan() {
		l.line++
		text := strings.TrimSpace(l.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		p, err := ParsePoint(text)
		if err != nil {
			return engine.Point{}, fmt.Errorf("line %d: %w", l.line, err)
		}
		return p, nil
	}

	if err := l.scanner.Err(); err != nil {
		return engine.Point{}, err
	}
	return engine.Point{}, io.EOF
}

// ParsePoint parses "x y" with whitespace, comma or semicolon separators.
func ParsePoint(text string) (engine.Point, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ',' || r == ';'
	})
	if len(fields) != 2 {
		return engine.Point{}, fmt.Errorf("%w: %q: want 2 fields, got %d", ErrMalformedLine, text, len(fields))
	}

	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return engine.Point{}, fmt.Errorf("%w: x: %w", ErrMalformedLine, err)
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return engine.Point{}, fmt.Errorf("%w: y: %w", ErrMalformedLine, err)
	}

	return engine.Point{X: x, Y: y}, nil
}
