package weierstrass

import (
	"log/slog"
	"sort"

	"github.com/njchilds90/weierstrass/symbolic"
)

// RootMethod names the path that produced the critical points.
type RootMethod string

const (
	// MethodExact: roots of f′ came from the symbolic solver.
	MethodExact RootMethod = "exact"
	// MethodScan: the solver found nothing usable and f′ was scanned for sign changes.
	MethodScan RootMethod = "scan"
	// MethodConstant: f′ does not depend on x, so there is nothing to solve or scan.
	MethodConstant RootMethod = "constant"
)

// FindCriticalPoints returns the interior zeros of f′ and of f″, each sorted
// ascending and strictly inside (a, b).
//
// Critical points come from the symbolic solver when it yields at least one
// real interior root. Otherwise f′ is sampled at ScanSamples points: a sample
// that is exactly zero is recorded as is, and every strict sign change is
// bisected BisectionIterations times. Inflection points use the solver only.
//
// Solver roots are dropped when f or f′ (f alone, for inflection points) is
// NaN or ±Inf there, e.g. a root of f′ = 1/x² - 1/x outside the domain of f.
func FindCriticalPoints(e *Expression, a, b float64, opts ...Option) (critical, inflection []float64) {
	o := buildOptions(opts)
	critical, _ = findCritical(e, a, b, o)
	return critical, findInflection(e, a, b, o)
}

func findCritical(e *Expression, a, b float64, o Options) ([]float64, RootMethod) {
	log := o.Logger.With(slog.String("derivative", e.d1.String()))

	res := symbolic.Solve(e.d1, Variable)
	roots := interiorRoots(res, a, b, e.f, e.df)
	if len(roots) > 0 {
		log.Debug("critical points solved exactly", slog.Int("count", len(roots)))
		return roots, MethodExact
	}
	if !symbolic.DependsOn(e.d1, Variable) {
		// f′ is constant: either no zeros or zero everywhere, never isolated roots.
		log.Debug("constant derivative, no critical points")
		return nil, MethodConstant
	}

	log.Debug("falling back to derivative scan",
		slog.Bool("unsolved", res.Unsolved),
		slog.String("note", res.Error),
		slog.Int("samples", o.ScanSamples))
	return scanRoots(e.df, a, b, o), MethodScan
}

func findInflection(e *Expression, a, b float64, o Options) []float64 {
	res := symbolic.Solve(e.d2, Variable)
	if res.Unsolved {
		o.Logger.Debug("inflection points unsolved", slog.String("second_derivative", e.d2.String()))
	}
	return interiorRoots(res, a, b, e.f)
}

// interiorRoots converts solver output to floats strictly inside (a, b).
// Candidates that are not real, or at which one of the checks is not finite,
// are skipped.
func interiorRoots(res symbolic.SolveResult, a, b float64, checks ...symbolic.Func1) []float64 {
	var out []float64
	keep := func(x float64) {
		if !(a < x && x < b) {
			return
		}
		for _, f := range checks {
			if !isFinite(f(x)) {
				return
			}
		}
		out = append(out, x)
	}
	for _, s := range res.Solutions {
		if x, ok := symbolic.Value(s); ok {
			keep(x)
		}
	}
	for _, fam := range res.Families {
		for _, x := range fam.Within(a, b) {
			keep(x)
		}
	}
	return sortedUnique(out)
}

func scanRoots(df symbolic.Func1, a, b float64, o Options) []float64 {
	xs := linspace(a, b, o.ScanSamples)
	dy := mapFunc(df, xs)

	var out []float64
	for i := 0; i < len(xs)-1; i++ {
		var x float64
		switch {
		case dy[i] == 0:
			x = xs[i]
		case dy[i]*dy[i+1] < 0:
			x = bisect(df, xs[i], xs[i+1], o.BisectionIterations)
		default:
			continue
		}
		if a < x && x < b {
			out = append(out, x)
		}
	}
	return sortedUnique(out)
}

// bisect halves [l, r] exactly iters times and returns the final midpoint.
func bisect(f symbolic.Func1, l, r float64, iters int) float64 {
	for k := 0; k < iters; k++ {
		mid := (l + r) / 2
		if f(l)*f(mid) <= 0 {
			r = mid
		} else {
			l = mid
		}
	}
	return (l + r) / 2
}

func sortedUnique(xs []float64) []float64 {
	if len(xs) == 0 {
		return nil
	}
	sort.Float64s(xs)
	out := xs[:1]
	for _, x := range xs[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}
