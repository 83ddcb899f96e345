package interpolator

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/go-stream-interpolator/internal/engine"
)

// MethodKind enumerates the supported interpolation methods.
type MethodKind int

const (
	// MethodLinear interpolates between the two points bracketing x.
	MethodLinear MethodKind = iota

	// MethodNewton fits a Newton divided-difference polynomial through the most recent
	// WindowSize points.
	MethodNewton
)

// String implements fmt.Stringer.
func (k MethodKind) String() string {
	switch k {
	case MethodLinear:
		return "linear"
	case MethodNewton:
		return "newton"
	default:
		return fmt.Sprintf("MethodKind(%d)", int(k))
	}
}

// Method selects an interpolation method and its parameters.
type Method struct {
	// Kind is the interpolation method.
	Kind MethodKind

	// WindowSize is the number of most recent points used by MethodNewton.
	// Ignored for MethodLinear.
	WindowSize int
}

// Linear returns the linear method.
func Linear() Method {
	return Method{Kind: MethodLinear}
}

// Newton returns the Newton method with the given window size.
func Newton(windowSize int) Method {
	return Method{Kind: MethodNewton, WindowSize: windowSize}
}

// ParseMethod maps a method name to a Method. windowSize is only used by "newton"; zero
// selects the default window.
func ParseMethod(name string, windowSize int) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linear", "lin":
		return Linear(), nil
	case "newton":
		if windowSize == 0 {
			windowSize = defaultNewtonWindow
		}
		return Newton(windowSize), nil
	default:
		return Method{}, fmt.Errorf("%w: unknown method %q (want linear or newton)", ErrInvalidConfig, name)
	}
}

// Tag returns the identifier written with every emitted sample.
func (m Method) Tag() string {
	return m.Kind.String()
}

// String implements fmt.Stringer.
func (m Method) String() string {
	if m.Kind == MethodNewton {
		return fmt.Sprintf("newton(%d)", m.WindowSize)
	}
	return m.Kind.String()
}

// MinPoints returns the number of points required before the method can interpolate.
func (m Method) MinPoints() int {
	if m.Kind == MethodNewton {
		return m.WindowSize
	}
	return engine.Linear{}.MinPoints()
}

// Validate checks the method parameters.
func (m Method) Validate() error {
	switch m.Kind {
	case MethodLinear:
		return nil
	case MethodNewton:
		if m.WindowSize < minNewtonWindow {
			return fmt.Errorf("%w: newton window size must be at least %d, got %d",
				ErrInvalidConfig, minNewtonWindow, m.WindowSize)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown method kind %d", ErrInvalidConfig, int(m.Kind))
	}
}

func (m Method) strategy() (engine.Strategy, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.Kind == MethodNewton {
		return engine.NewNewton(m.WindowSize)
	}
	return engine.Linear{}, nil
}

// Config holds the interpolation settings for one run. It is not modified after the
// Interpolator is created.
type Config struct {
	// Method selects linear or Newton interpolation.
	Method Method

	// Step is the spacing between emitted x values. Must be positive.
	Step float64
}

// Common errors returned by the interpolator.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid interpolator configuration")
)

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := c.Method.Validate(); err != nil {
		result = multierror.Append(result, err)
	}

	// !(x > 0) also rejects NaN.
	if !(c.Step > 0) {
		result = multierror.Append(result, fmt.Errorf("%w: step must be positive, got %g", ErrInvalidConfig, c.Step))
	}

	return result.ErrorOrNil()
}

// FileConfig is the YAML configuration document read by LoadConfig.
//
//	method: newton
//	window: 4
//	step: 0.5
//	decimals: 3
type FileConfig struct {
	Method   string  `yaml:"method"`
	Window   int     `yaml:"window"`
	Step     float64 `yaml:"step"`
	Decimals *int    `yaml:"decimals"`
}

// DefaultFileConfig returns the values used when neither file nor flags set them.
func DefaultFileConfig() FileConfig {
	decimals := defaultDecimals
	return FileConfig{
		Method:   MethodLinear.String(),
		Window:   defaultNewtonWindow,
		Step:     defaultStep,
		Decimals: &decimals,
	}
}

// LoadConfig decodes a YAML document on top of DefaultFileConfig. Unknown keys are
// rejected.
func LoadConfig(r io.Reader) (*FileConfig, error) {
	cfg := DefaultFileConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: decode yaml: %w", ErrInvalidConfig, err)
	}

	return &cfg, nil
}

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg, err := LoadConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Config builds and validates the interpolation config described by the file.
func (f *FileConfig) Config() (Config, error) {
	method, err := ParseMethod(f.Method, f.Window)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{Method: method, Step: f.Step}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DecimalPlaces returns the configured number of output decimals, clamped to
// [0, maxDecimals].
func (f *FileConfig) DecimalPlaces() int {
	if f.Decimals == nil {
		return defaultDecimals
	}
	return clampDecimals(*f.Decimals)
}

func clampDecimals(d int) int {
	return max(0, min(d, maxDecimals))
}
