package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/njchilds90/weierstrass"
	"github.com/njchilds90/weierstrass/internal/config"
	"github.com/njchilds90/weierstrass/internal/report"
	"github.com/njchilds90/weierstrass/internal/store"
)

func newBatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "batch FILE",
		Short: "Analyze one \"formula, a, b\" job per line of FILE (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open jobs: %w", err)
				}
				defer func() { _ = f.Close() }()
				in = f
			}
			jobs, err := weierstrass.ReadJobs(in)
			if err != nil {
				return err
			}
			return a.withStore(func(st *store.Store) error {
				return a.runBatch(cmd, st, jobs)
			})
		},
	}
}

type batchLine struct {
	weierstrass.Job
	Result *weierstrass.AnalysisResult `json:"result,omitempty"`
	Error  string                      `json:"error,omitempty"`
}

func (a *app) runBatch(cmd *cobra.Command, st *store.Store, jobs []weierstrass.Job) error {
	ctx := cmd.Context()
	opts := a.options()
	results, err := weierstrass.AnalyzeAll(ctx, jobs, opts...)
	if err != nil {
		return err
	}
	resolved := weierstrass.Resolve(opts...)

	lines := make([]batchLine, len(results))
	failed := 0
	for i, br := range results {
		lines[i].Job = br.Job
		var ce *weierstrass.ContinuityError
		switch {
		case br.Err == nil:
			r := br.Result
			lines[i].Result = &r
		case errors.As(br.Err, &ce):
			lines[i].Error = ce.Error()
		default:
			lines[i].Error = br.Err.Error()
			failed++
			continue
		}
		a.record(ctx, st, store.Record{
			RunID:      a.runID,
			Key:        store.Key(br.Job.Formula, br.Job.A, br.Job.B, resolved),
			Formula:    br.Job.Formula,
			A:          br.Job.A,
			B:          br.Job.B,
			Continuous: lines[i].Result != nil,
			Result:     lines[i].Result,
		})
	}

	w := cmd.OutOrStdout()
	if a.s.jsonOut {
		if err := writeJSON(w, lines); err != nil {
			return err
		}
	} else {
		for i, l := range lines {
			msg := l.Error
			if l.Result != nil {
				msg = weierstrass.Summary(*l.Result)
			}
			if _, err := fmt.Fprintf(w, "%3d  %s\n", i+1, msg); err != nil {
				return err
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d jobs could not be parsed", failed, len(jobs))
	}
	return nil
}

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit int
		run   string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.s.storeEnabled {
				return fmt.Errorf("history is disabled (store.enabled = false)")
			}
			return a.withStore(func(st *store.Store) error {
				var (
					recs []store.Record
					err  error
				)
				if run != "" {
					id, perr := uuid.Parse(run)
					if perr != nil {
						return fmt.Errorf("invalid --run value: %w", perr)
					}
					recs, err = st.ListRun(cmd.Context(), id)
				} else {
					recs, err = st.List(cmd.Context(), limit)
				}
				if err != nil {
					return fmt.Errorf("failed to list history: %w", err)
				}
				if a.s.jsonOut {
					return writeJSON(cmd.OutOrStdout(), recs)
				}
				_, err = io.WriteString(cmd.OutOrStdout(), report.RenderHistory(recs, a.reportOptions()))
				return err
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "show the N most recent analyses (0 for all)")
	cmd.Flags().StringVar(&run, "run", "", "show the analyses of one run ID")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		// A broken config file must not prevent opening it.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigCmd(cmd, a.s.configPath)
		},
	}
}

func runConfigCmd(cmd *cobra.Command, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Template()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
		return err
	}
	parts := strings.Fields(editor)
	c := exec.Command(parts[0], append(parts[1:], path)...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}
