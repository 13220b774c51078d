package weierstrass

import (
	"log/slog"
	"runtime"
)

// Defaults for Options.
const (
	DefaultContinuitySamples   = 10000
	DefaultScanSamples         = 1000
	DefaultBisectionIterations = 20
	DefaultTolerance           = 1e-10

	// JumpFactor: a sampled jump larger than JumpFactor times the mean jump
	// marks the function as discontinuous.
	JumpFactor = 100
)

// Options tunes the analysis.
//
// ContinuitySamples   – points sampled by CheckContinuity (clamped to ≥ 2).
// ScanSamples         – derivative samples of the fallback scan (clamped to ≥ 2).
// BisectionIterations – fixed number of halvings per bracketed root.
// Tolerance           – absolute tolerance for the global min/max flags.
// Logger              – receives debug traces; discarded by default.
// Parallelism         – concurrent jobs in AnalyzeAll.
type Options struct {
	ContinuitySamples   int
	ScanSamples         int
	BisectionIterations int
	Tolerance           float64
	Logger              *slog.Logger
	Parallelism         int
}

// Option represents a functional option for configuring an analysis.
type Option func(*Options)

// WithContinuitySamples sets the number of points sampled by the continuity check.
func WithContinuitySamples(n int) Option {
	return func(o *Options) { o.ContinuitySamples = n }
}

// WithScanSamples sets the number of derivative samples in the numeric scan.
func WithScanSamples(n int) Option {
	return func(o *Options) { o.ScanSamples = n }
}

// WithBisectionIterations sets how many times each sign-change bracket is halved.
// Negative values are treated as zero.
func WithBisectionIterations(n int) Option {
	return func(o *Options) {
		if n < 0 {
			n = 0
		}
		o.BisectionIterations = n
	}
}

// WithTolerance sets the absolute tolerance used to flag a critical point as
// the global minimum or maximum.
func WithTolerance(tol float64) Option {
	return func(o *Options) { o.Tolerance = tol }
}

// WithLogger routes debug traces to l. A nil logger keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithParallelism bounds the number of jobs AnalyzeAll runs at once.
// Values below 1 mean runtime.GOMAXPROCS(0).
func WithParallelism(n int) Option {
	return func(o *Options) { o.Parallelism = n }
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		ContinuitySamples:   DefaultContinuitySamples,
		ScanSamples:         DefaultScanSamples,
		BisectionIterations: DefaultBisectionIterations,
		Tolerance:           DefaultTolerance,
		Logger:              slog.New(slog.DiscardHandler),
		Parallelism:         runtime.GOMAXPROCS(0),
	}
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.Parallelism < 1 {
		o.Parallelism = runtime.GOMAXPROCS(0)
	}
	return o
}

// Resolve returns the defaults with opts applied, as an analysis would see them.
func Resolve(opts ...Option) Options {
	return buildOptions(opts)
}
