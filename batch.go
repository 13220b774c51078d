package weierstrass

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Job is one formula and interval to analyze.
type Job struct {
	Formula string  `json:"formula"`
	A       float64 `json:"a"`
	B       float64 `json:"b"`
}

// BatchResult pairs a job with its outcome. Err is a *ParseError, a
// *ContinuityError, or nil.
type BatchResult struct {
	Job    Job
	Result AnalysisResult
	Err    error
}

// AnalyzeAll analyzes independent jobs concurrently, at most Parallelism at a
// time, and returns their results in input order. Per-job failures are kept
// in BatchResult.Err; the returned error is non-nil only when ctx is done
// before every job has run.
func AnalyzeAll(ctx context.Context, jobs []Job, opts ...Option) ([]BatchResult, error) {
	o := buildOptions(opts)
	out := make([]BatchResult, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Parallelism)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := AnalyzeFormula(job.Formula, job.A, job.B, opts...)
			out[i] = BatchResult{Job: job, Result: res, Err: err}
			if err != nil {
				o.Logger.Debug("batch job failed", slog.Int("index", i), slog.String("formula", job.Formula), slog.Any("err", err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, fmt.Errorf("batch: %w", err)
	}
	return out, nil
}

// ReadJobs parses one job per line in the form "formula, a, b". Blank lines
// and lines starting with '#' are skipped. Bounds go through ParseBound, so
// "0, 2*pi" works.
func ReadJobs(r io.Reader) ([]Job, error) {
	var jobs []Job
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		job, err := parseJobLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		jobs = append(jobs, job)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read jobs: %w", err)
	}
	return jobs, nil
}

func parseJobLine(text string) (Job, error) {
	fields := strings.Split(text, ",")
	if len(fields) != 3 {
		return Job{}, fmt.Errorf("want \"formula, a, b\", got %d fields", len(fields))
	}
	formula := strings.TrimSpace(fields[0])
	if formula == "" {
		return Job{}, fmt.Errorf("empty formula")
	}
	a, err := ParseBound(strings.TrimSpace(fields[1]))
	if err != nil {
		return Job{}, err
	}
	b, err := ParseBound(strings.TrimSpace(fields[2]))
	if err != nil {
		return Job{}, err
	}
	return Job{Formula: formula, A: a, B: b}, nil
}
