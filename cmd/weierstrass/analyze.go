package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/njchilds90/weierstrass"
	"github.com/njchilds90/weierstrass/internal/plot"
	"github.com/njchilds90/weierstrass/internal/prompt"
	"github.com/njchilds90/weierstrass/internal/report"
	"github.com/njchilds90/weierstrass/internal/store"
)

// demoJobs are the worked examples shown by `weierstrass demo`.
var demoJobs = []weierstrass.Job{
	{Formula: "x**3 - 6*x**2 + 9*x + 2", A: 0, B: 4},
	{Formula: "sin(x) + 0.5*cos(2*x)", A: 0, B: 6.283185307179586},
	{Formula: "x**2 + 10*heaviside(x - 2)", A: 0, B: 4},
}

func newAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze FORMULA A B",
		Short: "Find the global extrema of FORMULA on [A, B]",
		Long: `Find the global extrema of FORMULA on [A, B].

Bounds may be closed-form constants such as 2*pi or -sqrt(2).
Flags must come before FORMULA, so negative bounds need no escaping:

  weierstrass analyze --latex "x**2" -1 1`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			lo, err := weierstrass.ParseBound(args[1])
			if err != nil {
				return err
			}
			hi, err := weierstrass.ParseBound(args[2])
			if err != nil {
				return err
			}
			if !(lo < hi) {
				return fmt.Errorf("need A < B, got [%g, %g]", lo, hi)
			}
			return a.withStore(func(st *store.Store) error {
				return a.analyzeOne(cmd.Context(), cmd.OutOrStdout(), st, args[0], lo, hi)
			})
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the three worked examples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			return a.withStore(func(st *store.Store) error {
				for i, job := range demoJobs {
					if !a.s.jsonOut {
						if _, err := fmt.Fprintf(w, "\n=== Example %d: f(x) = %s on [%g, %g] ===\n\n", i+1, job.Formula, job.A, job.B); err != nil {
							return err
						}
					}
					if err := a.analyzeOne(cmd.Context(), w, st, job.Formula, job.A, job.B); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Prompt for a function and an interval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := prompt.Run()
			if errors.Is(err, prompt.ErrCancelled) {
				return nil
			}
			if err != nil {
				return err
			}
			return a.withStore(func(st *store.Store) error {
				return a.analyzeOne(cmd.Context(), cmd.OutOrStdout(), st, in.Formula, in.A, in.B)
			})
		},
	}
}

// withStore opens the history database for fn when recording is enabled.
// fn receives nil otherwise.
func (a *app) withStore(fn func(*store.Store) error) error {
	if !a.s.storeEnabled {
		return fn(nil)
	}
	st, err := store.Open(a.s.storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			a.logger.Warn("failed to close db", slog.Any("err", cerr))
		}
	}()
	return fn(st)
}

// analyzeOne parses, analyzes and prints a single function. A function that
// fails the continuity check is reported, not returned as an error.
func (a *app) analyzeOne(ctx context.Context, w io.Writer, st *store.Store, formula string, lo, hi float64) error {
	e, err := weierstrass.Parse(formula)
	if err != nil {
		return err
	}
	opts := a.options()
	key := store.Key(formula, lo, hi, weierstrass.Resolve(opts...))
	log := a.logger.With(slog.String("key", key))

	var (
		result *weierstrass.AnalysisResult
		cached bool
	)
	if st != nil && !a.s.fresh {
		rec, ok, err := st.Lookup(ctx, key)
		if err != nil {
			log.Warn("history lookup failed", slog.Any("err", err))
		} else if ok {
			log.Debug("using stored result", slog.Int64("id", rec.ID))
			result, cached = rec.Result, true
		}
	}
	if !cached {
		r, err := weierstrass.Analyze(e, lo, hi, opts...)
		var ce *weierstrass.ContinuityError
		switch {
		case errors.As(err, &ce):
		case err != nil:
			return err
		default:
			result = &r
		}
		a.record(ctx, st, store.Record{
			RunID:      a.runID,
			Key:        key,
			Formula:    formula,
			A:          lo,
			B:          hi,
			Continuous: result != nil,
			Result:     result,
		})
	}

	if result == nil {
		return a.printRejected(w, &weierstrass.ContinuityError{Formula: e.String(), A: lo, B: hi})
	}
	return a.printResult(w, e, *result, key)
}

func (a *app) record(ctx context.Context, st *store.Store, rec store.Record) {
	if st == nil {
		return
	}
	if _, err := st.Insert(ctx, rec); err != nil {
		a.logger.Warn("failed to record analysis", slog.Any("err", err))
	}
}

func (a *app) printRejected(w io.Writer, ce *weierstrass.ContinuityError) error {
	if a.s.jsonOut {
		return writeJSON(w, map[string]any{
			"function":        ce.Formula,
			"a":               ce.A,
			"b":               ce.B,
			"is_continuous":   false,
			"theorem_applies": false,
			"error":           ce.Error(),
		})
	}
	_, err := io.WriteString(w, report.RenderRejected(ce, a.reportOptions()))
	return err
}

func (a *app) printResult(w io.Writer, e *weierstrass.Expression, r weierstrass.AnalysisResult, key string) error {
	if a.s.jsonOut {
		if err := writeJSON(w, r); err != nil {
			return err
		}
	} else {
		if err := report.Write(w, e, r, a.reportOptions()); err != nil {
			return err
		}
		if a.s.plot {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
			if err := plot.Terminal(w, e, r, plot.TerminalOptions{
				Width:   a.s.plotWidth,
				Height:  a.s.plotHeight,
				Padding: a.s.padding,
			}); err != nil {
				return err
			}
		}
	}

	if a.s.pngDir == "" {
		return nil
	}
	paths, err := plot.SavePNGs(a.s.pngDir, key, e, r, plot.PNGOptions{Padding: a.s.padding})
	if err != nil {
		return err
	}
	for _, p := range paths {
		a.logger.Info("wrote plot", slog.String("path", p))
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
