package interpolator

// Method defaults
const (
	defaultNewtonWindow = 4   // Points per Newton window when none is configured
	minNewtonWindow     = 2   // Smallest Newton window (first-order polynomial)
	defaultStep         = 1.0 // Default spacing of emitted x values
)

// Output formatting
const (
	defaultDecimals = 2  // Decimal places in text output
	maxDecimals     = 15 // float64 carries ~15-17 significant digits
)

// Mailbox sizing
const (
	defaultMailboxCapacity = 1024 // Initial mailbox ring size in messages
)

// Metric names
const (
	metricsNamespace = "interpolator"
)
