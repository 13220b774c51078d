// Package plot draws analysis results, as braille text for terminals and as
// PNG images.
package plot

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/njchilds90/weierstrass"
)

// Defaults shared by both renderers.
const (
	DefaultPadding = 0.5
	DefaultSamples = 500
)

// Domain is the x range a panel is drawn over.
type Domain struct {
	Min, Max float64
}

// Padded returns [a - pad, b + pad] for the analysed interval.
func Padded(r weierstrass.AnalysisResult, pad float64) Domain {
	if pad < 0 {
		pad = 0
	}
	return Domain{Min: r.A - pad, Max: r.B + pad}
}

// curve samples f at n evenly spaced points of d.
func curve(f func(float64) float64, d Domain, n int) (xs, ys []float64) {
	if n < 2 {
		n = 2
	}
	xs = floats.Span(make([]float64, n), d.Min, d.Max)
	ys = make([]float64, n)
	for i, x := range xs {
		ys[i] = f(x)
	}
	return xs, ys
}

// finiteRange returns the smallest and largest finite value of ys. A flat or
// empty input is widened to a unit span.
func finiteRange(ys ...[]float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range ys {
		for _, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo > hi {
		return -1, 1
	}
	if math.Abs(hi-lo) < 1e-9 {
		return lo - 1, hi + 1
	}
	return lo, hi
}
