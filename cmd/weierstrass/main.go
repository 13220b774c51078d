// Package main provides the CLI entrypoint for weierstrass.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/njchilds90/weierstrass"
	"github.com/njchilds90/weierstrass/internal/config"
	"github.com/njchilds90/weierstrass/internal/plot"
	"github.com/njchilds90/weierstrass/internal/report"
)

const (
	defaultPlotHeight = 12
	defaultLogLevel   = "warn"
)

// settings is the merged view of built-in defaults, the config file and
// command-line flags.
type settings struct {
	configPath string
	verbose    bool
	logLevel   string

	continuitySamples   int
	scanSamples         int
	bisectionIterations int
	tolerance           float64
	parallelism         int

	precision int
	color     bool
	latex     bool
	jsonOut   bool

	plot       bool
	plotWidth  int
	plotHeight int
	padding    float64
	pngDir     string

	storeEnabled bool
	storePath    string
	fresh        bool
}

// app carries the state of one CLI invocation.
type app struct {
	s      settings
	runID  uuid.UUID
	logger *slog.Logger
}

// stdoutIsTerminal decides the defaults of --color and --plot.
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{runID: uuid.New()}
	interactive := stdoutIsTerminal()

	rootCmd := &cobra.Command{
		Use:           "weierstrass",
		Short:         "Explore the extreme value theorem for f(x) on [a, b]",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	f := rootCmd.PersistentFlags()
	f.StringVar(&a.s.configPath, "config", config.DefaultConfigPath(), "config file")
	f.BoolVarP(&a.s.verbose, "verbose", "v", false, "log debug traces to stderr")
	f.StringVar(&a.s.logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	f.IntVar(&a.s.continuitySamples, "continuity-samples", weierstrass.DefaultContinuitySamples, "points sampled by the continuity check")
	f.IntVar(&a.s.scanSamples, "scan-samples", weierstrass.DefaultScanSamples, "derivative samples of the numeric root scan")
	f.IntVar(&a.s.bisectionIterations, "bisection-iterations", weierstrass.DefaultBisectionIterations, "halvings per bracketed root")
	f.Float64Var(&a.s.tolerance, "tolerance", weierstrass.DefaultTolerance, "tolerance for global min/max flags")
	f.IntVar(&a.s.parallelism, "parallelism", 0, "concurrent batch jobs (0 uses every CPU)")
	f.IntVar(&a.s.precision, "precision", report.DefaultPrecision, "decimals in the report")
	f.BoolVar(&a.s.color, "color", interactive, "colour the report")
	f.BoolVar(&a.s.latex, "latex", false, "include LaTeX for f, f' and f''")
	f.BoolVar(&a.s.jsonOut, "json", false, "print JSON instead of the text report")
	f.BoolVar(&a.s.plot, "plot", interactive, "draw braille plots of f and f'")
	f.IntVar(&a.s.plotWidth, "plot-width", 0, "plot width in cells (0 follows the terminal)")
	f.IntVar(&a.s.plotHeight, "plot-height", defaultPlotHeight, "plot height in cells")
	f.Float64Var(&a.s.padding, "padding", plot.DefaultPadding, "extra domain drawn on each side of [a, b]")
	f.StringVar(&a.s.pngDir, "png-dir", "", "write PNG panels into this directory")
	f.BoolVar(&a.s.storeEnabled, "store", true, "record analyses in the history database")
	f.StringVar(&a.s.storePath, "db", config.DefaultDBPath(), "history database path")
	f.BoolVar(&a.s.fresh, "fresh", false, "ignore stored results and recompute")

	rootCmd.AddCommand(newAnalyzeCmd(a))
	rootCmd.AddCommand(newDemoCmd(a))
	rootCmd.AddCommand(newInteractiveCmd(a))
	rootCmd.AddCommand(newBatchCmd(a))
	rootCmd.AddCommand(newHistoryCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

// setup merges the config file into the flag values and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	fileCfg, err := config.LoadConfig(a.s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "continuity-samples", &a.s.continuitySamples, fileCfg.Analysis.ContinuitySamples)
	applyConfig(cmd, "scan-samples", &a.s.scanSamples, fileCfg.Analysis.ScanSamples)
	applyConfig(cmd, "bisection-iterations", &a.s.bisectionIterations, fileCfg.Analysis.BisectionIterations)
	applyConfig(cmd, "tolerance", &a.s.tolerance, fileCfg.Analysis.Tolerance)
	applyConfig(cmd, "parallelism", &a.s.parallelism, fileCfg.Analysis.Parallelism)
	applyConfig(cmd, "precision", &a.s.precision, fileCfg.Report.Precision)
	applyConfig(cmd, "color", &a.s.color, fileCfg.Report.Color)
	applyConfig(cmd, "latex", &a.s.latex, fileCfg.Report.LaTeX)
	applyConfig(cmd, "plot", &a.s.plot, fileCfg.Plot.Enabled)
	applyConfig(cmd, "plot-width", &a.s.plotWidth, fileCfg.Plot.Width)
	applyConfig(cmd, "plot-height", &a.s.plotHeight, fileCfg.Plot.Height)
	applyConfig(cmd, "padding", &a.s.padding, fileCfg.Plot.Padding)
	applyConfig(cmd, "png-dir", &a.s.pngDir, fileCfg.Plot.PNGDir)
	applyConfig(cmd, "store", &a.s.storeEnabled, fileCfg.Store.Enabled)
	applyConfig(cmd, "db", &a.s.storePath, fileCfg.Store.Path)
	applyConfig(cmd, "log-level", &a.s.logLevel, fileCfg.Log.Level)

	if err := validateSettings(a.s); err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(a.s.logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", a.s.logLevel, err)
	}
	if a.s.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})).
		With(slog.String("run_id", a.runID.String()))
	return nil
}

func validateSettings(s settings) error {
	if s.continuitySamples < 2 {
		return fmt.Errorf("--continuity-samples must be >= 2")
	}
	if s.scanSamples < 2 {
		return fmt.Errorf("--scan-samples must be >= 2")
	}
	if s.bisectionIterations < 0 {
		return fmt.Errorf("--bisection-iterations must be >= 0")
	}
	if s.tolerance < 0 {
		return fmt.Errorf("--tolerance must be >= 0")
	}
	if s.precision < 1 || s.precision > 17 {
		return fmt.Errorf("--precision must be between 1 and 17")
	}
	if s.plotHeight < 1 {
		return fmt.Errorf("--plot-height must be > 0")
	}
	if s.storeEnabled && strings.TrimSpace(s.storePath) == "" {
		return fmt.Errorf("--db must not be empty")
	}
	return nil
}

// options converts the settings into engine options.
func (a *app) options() []weierstrass.Option {
	return []weierstrass.Option{
		weierstrass.WithContinuitySamples(a.s.continuitySamples),
		weierstrass.WithScanSamples(a.s.scanSamples),
		weierstrass.WithBisectionIterations(a.s.bisectionIterations),
		weierstrass.WithTolerance(a.s.tolerance),
		weierstrass.WithParallelism(a.s.parallelism),
		weierstrass.WithLogger(a.logger),
	}
}

func (a *app) reportOptions() report.Options {
	return report.Options{Precision: a.s.precision, Color: a.s.color && os.Getenv("NO_COLOR") == "", LaTeX: a.s.latex}
}

func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
