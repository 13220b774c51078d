package weierstrass

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/njchilds90/weierstrass/symbolic"
)

// ============================================================
// Result types
// ============================================================

// Point is a point (x, f(x)) on the graph.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Classification is the outcome of the second-derivative test.
type Classification int

const (
	LocalMin Classification = iota
	LocalMax
	InflectionOrSaddle
)

var classificationNames = [...]struct{ text, display string }{
	LocalMin:           {"local-min", "local minimum"},
	LocalMax:           {"local-max", "local maximum"},
	InflectionOrSaddle: {"inflection-or-saddle", "inflection or saddle point"},
}

func (c Classification) String() string {
	if c < 0 || int(c) >= len(classificationNames) {
		return fmt.Sprintf("Classification(%d)", int(c))
	}
	return classificationNames[c].display
}

func (c Classification) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= len(classificationNames) {
		return nil, fmt.Errorf("invalid classification %d", int(c))
	}
	return []byte(classificationNames[c].text), nil
}

func (c *Classification) UnmarshalText(b []byte) error {
	for i, n := range classificationNames {
		if n.text == string(b) {
			*c = Classification(i)
			return nil
		}
	}
	return fmt.Errorf("unknown classification %q", b)
}

// classify applies the second-derivative test. A zero (or undefined) second
// derivative is inconclusive.
func classify(d2 float64) Classification {
	switch {
	case d2 > 0:
		return LocalMin
	case d2 < 0:
		return LocalMax
	}
	return InflectionOrSaddle
}

// CriticalPoint is an interior zero of f′.
type CriticalPoint struct {
	X           float64        `json:"x"`
	Y           float64        `json:"y"`
	Kind        Classification `json:"type"`
	IsGlobalMin bool           `json:"is_global_min"`
	IsGlobalMax bool           `json:"is_global_max"`
}

// AnalysisResult is the complete outcome of Analyze. It is never modified
// after Analyze returns it; the slices belong to the result.
type AnalysisResult struct {
	A                float64         `json:"a"`
	B                float64         `json:"b"`
	Function         string          `json:"function"`
	Continuous       bool            `json:"is_continuous"`
	GlobalMin        Point           `json:"global_min"`
	GlobalMax        Point           `json:"global_max"`
	EndpointA        Point           `json:"endpoint_a"`
	EndpointB        Point           `json:"endpoint_b"`
	CriticalPoints   []CriticalPoint `json:"critical_points"`
	InflectionPoints []float64       `json:"inflection_points"`
	TheoremApplies   bool            `json:"theorem_applies"`
	Method           RootMethod      `json:"method"`
}

// Interval returns [a, b].
func (r AnalysisResult) Interval() [2]float64 { return [2]float64{r.A, r.B} }

// MinIsInterior reports whether the global minimum lies strictly inside the interval.
func (r AnalysisResult) MinIsInterior() bool { return r.GlobalMin.X != r.A && r.GlobalMin.X != r.B }

// MaxIsInterior reports whether the global maximum lies strictly inside the interval.
func (r AnalysisResult) MaxIsInterior() bool { return r.GlobalMax.X != r.A && r.GlobalMax.X != r.B }

// ============================================================
// Analysis
// ============================================================

// Analyze finds the global minimum and maximum of e on [a, b].
//
// If the continuity check fails the result is a *ContinuityError and no
// extremum search is attempted. Otherwise the candidates are evaluated in the
// order a, b, critical points ascending, and the first smallest and first
// largest value win. Analyze is pure: the same inputs give an identical result.
func Analyze(e *Expression, a, b float64, opts ...Option) (AnalysisResult, error) {
	o := buildOptions(opts)
	log := o.Logger.With(slog.String("function", e.String()), slog.Float64("a", a), slog.Float64("b", b))

	if !checkContinuity(e, a, b, o) {
		log.Debug("theorem does not apply")
		return AnalysisResult{}, &ContinuityError{Formula: e.String(), A: a, B: b}
	}

	endA := Point{X: a, Y: e.At(a)}
	endB := Point{X: b, Y: e.At(b)}

	crit, method := findCritical(e, a, b, o)
	infl := findInflection(e, a, b, o)

	lo, hi := endA, endA
	consider := func(p Point) {
		if p.Y < lo.Y {
			lo = p
		}
		if p.Y > hi.Y {
			hi = p
		}
	}
	consider(endB)
	points := make([]CriticalPoint, 0, len(crit))
	for _, x := range crit {
		p := Point{X: x, Y: e.At(x)}
		consider(p)
		points = append(points, CriticalPoint{X: p.X, Y: p.Y, Kind: classify(e.SecondDerivativeAt(x))})
	}
	for i := range points {
		points[i].IsGlobalMin = math.Abs(points[i].Y-lo.Y) < o.Tolerance
		points[i].IsGlobalMax = math.Abs(points[i].Y-hi.Y) < o.Tolerance
	}
	if infl == nil {
		infl = []float64{}
	}

	log.Debug("analysis done",
		slog.String("method", string(method)),
		slog.Int("critical_points", len(points)),
		slog.Int("inflection_points", len(infl)))

	return AnalysisResult{
		A:                a,
		B:                b,
		Function:         e.String(),
		Continuous:       true,
		GlobalMin:        lo,
		GlobalMax:        hi,
		EndpointA:        endA,
		EndpointB:        endB,
		CriticalPoints:   points,
		InflectionPoints: infl,
		TheoremApplies:   true,
		Method:           method,
	}, nil
}

// AnalyzeFormula parses formula and analyzes it on [a, b].
func AnalyzeFormula(formula string, a, b float64, opts ...Option) (AnalysisResult, error) {
	e, err := Parse(formula)
	if err != nil {
		return AnalysisResult{}, err
	}
	return Analyze(e, a, b, opts...)
}

// ShadedArea returns the area between f and its global minimum over the
// result's interval, ∫ₐᵇ (f(x) − min) dx.
func ShadedArea(e *Expression, r AnalysisResult) float64 {
	return symbolic.IntegrateFunc(func(x float64) float64 { return e.At(x) - r.GlobalMin.Y }, r.A, r.B)
}

// ParseBound reads an interval bound. Besides plain numbers it accepts
// closed-form constants such as "2*pi" or "-sqrt(2)".
func ParseBound(s string) (float64, error) {
	e, err := symbolic.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("bound %q: %w", s, err)
	}
	v, ok := symbolic.Value(e)
	if !ok {
		return 0, fmt.Errorf("bound %q is not a real number", s)
	}
	return v, nil
}
