package weierstrass

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CheckContinuity reports whether f looks continuous on [a, b].
//
// f is sampled at ContinuitySamples equally spaced points, endpoints
// included. Any NaN or ±Inf sample means discontinuous; so does a jump
// between neighbouring samples larger than JumpFactor times the mean jump.
// This is a heuristic: steep continuous functions can fail it and small
// jumps can pass. A panic during evaluation is reported as false.
func CheckContinuity(e *Expression, a, b float64, opts ...Option) bool {
	return checkContinuity(e, a, b, buildOptions(opts))
}

func checkContinuity(e *Expression, a, b float64, o Options) (continuous bool) {
	log := o.Logger.With(slog.String("function", e.String()))
	defer func() {
		if r := recover(); r != nil {
			log.Debug("continuity check panicked", slog.Any("panic", r))
			continuous = false
		}
	}()

	xs := linspace(a, b, o.ContinuitySamples)
	ys := e.Evaluate(xs)
	for i, y := range ys {
		if !isFinite(y) {
			log.Debug("non-finite sample", slog.Float64("x", xs[i]), slog.Float64("y", y))
			return false
		}
	}

	jumps := make([]float64, len(ys)-1)
	floats.SubTo(jumps, ys[1:], ys[:len(ys)-1])
	for i, d := range jumps {
		jumps[i] = math.Abs(d)
	}
	maxJump, meanJump := floats.Max(jumps), stat.Mean(jumps, nil)
	if maxJump > JumpFactor*meanJump {
		log.Debug("jump detected",
			slog.Float64("max_jump", maxJump),
			slog.Float64("mean_jump", meanJump),
			slog.Float64("x", xs[floats.MaxIdx(jumps)]))
		return false
	}
	return true
}

// linspace returns n equally spaced points from a to b inclusive; n is
// clamped to at least 2.
func linspace(a, b float64, n int) []float64 {
	if n < 2 {
		n = 2
	}
	xs := floats.Span(make([]float64, n), a, b)
	xs[n-1] = b
	return xs
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
