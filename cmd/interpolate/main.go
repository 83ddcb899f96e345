// Command interpolate reads (x, y) points and prints interpolated samples on a regular
// x grid as the points arrive.
//
// Usage:
//
//	interpolate --method linear --step 0.5 < points.txt
//	interpolate --method newton --window 4 --step 0.1 --decimals 3 --input points.txt
//	interpolate --config interp.yaml --wav input.wav --wav-channel 0 --step 0.0001
//
// Input lines hold two numbers separated by whitespace, ',' or ';'. Output lines have the
// form "<method>: <x> <y>".
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	interpolator "github.com/tphakala/go-stream-interpolator"
)

// options holds the parsed command line.
type options struct {
	configPath  string
	method      string
	window      int
	step        float64
	decimals    int
	input       string
	wavPath     string
	wavChannel  int
	logLevel    string
	metricsAddr string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "interpolate",
		Short:         "Streaming linear and Newton interpolation of (x, y) points",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			setupLogging(opts.logLevel)

			cfg, decimals, err := resolveConfig(cmd.Flags(), &opts)
			if err != nil {
				log.Error().Err(err).Msg("invalid configuration")
				return err
			}

			if err := run(cmd.Context(), &opts, cfg, decimals); err != nil {
				log.Error().Err(err).Msg("interpolation failed")
				return err
			}
			return nil
		},
	}

	bindFlags(cmd.Flags(), &opts)
	return cmd
}

func bindFlags(fs *pflag.FlagSet, opts *options) {
	fs.StringVarP(&opts.configPath, "config", "c", "", "YAML config file (flags override its values)")
	fs.StringVarP(&opts.method, "method", "m", defaultMethod, "Interpolation method: linear, newton")
	fs.IntVarP(&opts.window, "window", "n", defaultWindow, "Newton window size (points, >= 2)")
	fs.Float64VarP(&opts.step, "step", "s", defaultStep, "Spacing of emitted x values (> 0)")
	fs.IntVarP(&opts.decimals, "decimals", "d", defaultDecimals, "Decimal places in output")
	fs.StringVarP(&opts.input, "input", "i", stdinPath, "Text input file, - for stdin")
	fs.StringVar(&opts.wavPath, "wav", "", "Read points from a PCM WAV file instead of text")
	fs.IntVar(&opts.wavChannel, "wav-channel", 0, "WAV channel to read (zero-based)")
	fs.StringVar(&opts.logLevel, "log-level", defaultLogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
}

// resolveConfig merges the config file, if any, with flags that were set explicitly.
func resolveConfig(fs *pflag.FlagSet, opts *options) (interpolator.Config, int, error) {
	file := interpolator.DefaultFileConfig()
	if opts.configPath != "" {
		loaded, err := interpolator.LoadConfigFile(opts.configPath)
		if err != nil {
			return interpolator.Config{}, 0, err
		}
		file = *loaded
	}

	if opts.configPath == "" || fs.Changed("method") {
		file.Method = opts.method
	}
	if opts.configPath == "" || fs.Changed("window") {
		file.Window = opts.window
	}
	if opts.configPath == "" || fs.Changed("step") {
		file.Step = opts.step
	}
	if opts.configPath == "" || fs.Changed("decimals") {
		file.Decimals = &opts.decimals
	}

	cfg, err := file.Config()
	if err != nil {
		return interpolator.Config{}, 0, err
	}
	return cfg, file.DecimalPlaces(), nil
}

func setupLogging(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("level", level).Msg("unknown log level, using warn")
		lvl = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled)
}

func usageError(format string, args ...any) error {
	return fmt.Errorf("usage: "+format, args...)
}
