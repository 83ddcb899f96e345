package main

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	interpolator "github.com/tphakala/go-stream-interpolator"
	"github.com/tphakala/go-stream-interpolator/internal/source"
)

// run wires source -> stream -> stdout and waits for the stream to finish.
func run(ctx context.Context, opts *options, cfg interpolator.Config, decimals int) error {
	src, closeSrc, err := openSource(opts)
	if err != nil {
		return err
	}
	defer closeSrc()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics, err := interpolator.NewMetrics(reg)
	if err != nil {
		return err
	}

	out := bufio.NewWriterSize(os.Stdout, stdoutBufferSize)
	stream, err := interpolator.NewStream(cfg, interpolator.NewTextSink(out, decimals),
		interpolator.WithLogger(log.Logger),
		interpolator.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	log.Info().
		Str("method", cfg.Method.String()).
		Float64("step", cfg.Step).
		Int("decimals", decimals).
		Msg("interpolator started")

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := stream.Run(gctx)
		if isCancellation(err) {
			return nil
		}
		return err
	})

	if opts.metricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(gctx, stream.Done(), opts.metricsAddr, reg)
		})
	}

	// The feeder stays outside the group: a console read cannot be interrupted, and an
	// interrupted run must not wait for the next input line.
	go func() {
		if err := feed(gctx, src, stream); err != nil {
			cancel(err)
		}
	}()

	if err := g.Wait(); err != nil {
		_ = out.Flush()
		return err
	}

	return out.Flush()
}

// feed pumps src into stream and sends the final shutdown once the input is exhausted.
// Input cut short by cancellation or by a stream that already stopped ends without a
// shutdown, since the stream is closing on its own. Only source failures are returned.
func feed(ctx context.Context, src source.Source, stream *interpolator.Stream) error {
	n, err := source.Feed(ctx, src, stream)
	log.Info().Int("points", n).Msg("input finished")

	switch {
	case isCancellation(err), errors.Is(err, interpolator.ErrStreamClosed):
		return nil
	case err != nil:
		return err
	}

	select {
	case <-stream.Done():
		return nil
	default:
	}

	if err := stream.Shutdown(); err != nil && !errors.Is(err, interpolator.ErrStreamClosed) {
		return err
	}
	return nil
}

// openSource selects the WAV or text point source.
func openSource(opts *options) (source.Source, func(), error) {
	if opts.wavPath != "" {
		wav, err := source.OpenWAV(opts.wavPath, opts.wavChannel)
		if err != nil {
			return nil, nil, err
		}
		log.Info().
			Str("file", opts.wavPath).
			Float64("rate", wav.SampleRate()).
			Int("channel", opts.wavChannel).
			Msg("reading WAV input")
		return wav, func() { _ = wav.Close() }, nil
	}

	if opts.input == "" || opts.input == stdinPath {
		return source.NewLineSource(os.Stdin), func() {}, nil
	}

	f, err := os.Open(opts.input)
	if err != nil {
		return nil, nil, usageError("cannot open input %q: %v", opts.input, err)
	}
	return source.NewLineSource(f), func() { _ = f.Close() }, nil
}

// serveMetrics exposes reg until the stream finishes or ctx is cancelled.
func serveMetrics(ctx context.Context, done <-chan struct{}, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("serving metrics")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-done:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
