package main

import "time"

// Default command-line flag values
const (
	defaultMethod   = "linear"
	defaultWindow   = 4
	defaultStep     = 1.0
	defaultDecimals = 2
	defaultLogLevel = "warn"
	stdinPath       = "-"
)

// Metrics server settings
const (
	metricsPath              = "/metrics"
	metricsReadHeaderTimeout = 5 * time.Second
	metricsShutdownTimeout   = 2 * time.Second
)

// I/O buffer sizes
const (
	stdoutBufferSize = 64 * 1024
)
