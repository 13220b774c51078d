package weierstrass_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/weierstrass"
)

// ============================================================
// Scenarios
// ============================================================

func TestAnalyze_Parabola(t *testing.T) {
	res, err := weierstrass.AnalyzeFormula("x**2", -1, 1)
	require.NoError(t, err)

	assert.True(t, res.Continuous)
	assert.True(t, res.TheoremApplies)
	assert.Equal(t, weierstrass.Point{X: 0, Y: 0}, res.GlobalMin)
	// f(-1) = f(1) = 1; a is evaluated first and wins the tie.
	assert.Equal(t, weierstrass.Point{X: -1, Y: 1}, res.GlobalMax)
	assert.Equal(t, weierstrass.Point{X: -1, Y: 1}, res.EndpointA)
	assert.Equal(t, weierstrass.Point{X: 1, Y: 1}, res.EndpointB)

	require.Len(t, res.CriticalPoints, 1)
	cp := res.CriticalPoints[0]
	assert.Equal(t, 0.0, cp.X)
	assert.Equal(t, weierstrass.LocalMin, cp.Kind)
	assert.True(t, cp.IsGlobalMin)
	assert.False(t, cp.IsGlobalMax)
	assert.Empty(t, res.InflectionPoints)
	assert.Equal(t, weierstrass.MethodExact, res.Method)
}

func TestAnalyze_Cubic(t *testing.T) {
	res, err := weierstrass.AnalyzeFormula("x**3 - 6*x**2 + 9*x + 2", 0, 4)
	require.NoError(t, err)

	assert.Equal(t, "x^3 - 6*x^2 + 9*x + 2", res.Function)
	assert.Equal(t, weierstrass.Point{X: 0, Y: 2}, res.EndpointA)
	assert.Equal(t, weierstrass.Point{X: 4, Y: 6}, res.EndpointB)

	require.Len(t, res.CriticalPoints, 2)
	assert.Equal(t, 1.0, res.CriticalPoints[0].X)
	assert.Equal(t, 6.0, res.CriticalPoints[0].Y)
	assert.Equal(t, weierstrass.LocalMax, res.CriticalPoints[0].Kind)
	assert.Equal(t, 3.0, res.CriticalPoints[1].X)
	assert.Equal(t, 2.0, res.CriticalPoints[1].Y)
	assert.Equal(t, weierstrass.LocalMin, res.CriticalPoints[1].Kind)

	// Candidates in order [0, 4, 1, 3] have values [2, 6, 6, 2].
	assert.Equal(t, weierstrass.Point{X: 0, Y: 2}, res.GlobalMin)
	assert.Equal(t, weierstrass.Point{X: 4, Y: 6}, res.GlobalMax)
	assert.True(t, res.CriticalPoints[0].IsGlobalMax)
	assert.True(t, res.CriticalPoints[1].IsGlobalMin)

	assert.Equal(t, []float64{2}, res.InflectionPoints)
}

func TestAnalyze_StepFunctionIsRejected(t *testing.T) {
	e, err := weierstrass.Parse("x**2 + 10*heaviside(x - 2)")
	require.NoError(t, err)
	assert.False(t, weierstrass.CheckContinuity(e, 0, 4))

	_, err = weierstrass.Analyze(e, 0, 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, weierstrass.ErrDiscontinuous))
	var ce *weierstrass.ContinuityError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 0.0, ce.A)
	assert.Equal(t, 4.0, ce.B)
	assert.Contains(t, err.Error(), "does not apply")
}

func TestAnalyze_Constant(t *testing.T) {
	for _, iv := range [][2]float64{{-3, 7}, {0, 1}, {100, 100.5}} {
		res, err := weierstrass.AnalyzeFormula("5", iv[0], iv[1])
		require.NoError(t, err)
		assert.Empty(t, res.CriticalPoints)
		assert.Empty(t, res.InflectionPoints)
		assert.Equal(t, weierstrass.Point{X: iv[0], Y: 5}, res.GlobalMin)
		assert.Equal(t, weierstrass.Point{X: iv[0], Y: 5}, res.GlobalMax)
		assert.Equal(t, 5.0, res.EndpointB.Y)
		assert.Equal(t, weierstrass.MethodConstant, res.Method)
	}
}

func TestAnalyze_LinearHasConstantDerivative(t *testing.T) {
	res, err := weierstrass.AnalyzeFormula("2*x + 1", 0, 3)
	require.NoError(t, err)
	assert.Equal(t, weierstrass.MethodConstant, res.Method)
	assert.Empty(t, res.CriticalPoints)
	assert.Equal(t, weierstrass.Point{X: 0, Y: 1}, res.GlobalMin)
	assert.Equal(t, weierstrass.Point{X: 3, Y: 7}, res.GlobalMax)
}

func TestAnalyze_TrigUsesScanFallback(t *testing.T) {
	res, err := weierstrass.AnalyzeFormula("sin(x) + 0.5*cos(2*x)", 0, 2*math.Pi)
	require.NoError(t, err)
	assert.Equal(t, weierstrass.MethodScan, res.Method)

	// f′ = cos(x)(1 - 2 sin(x)).
	want := []struct {
		x    float64
		kind weierstrass.Classification
	}{
		{math.Pi / 6, weierstrass.LocalMax},
		{math.Pi / 2, weierstrass.LocalMin},
		{5 * math.Pi / 6, weierstrass.LocalMax},
		{3 * math.Pi / 2, weierstrass.LocalMin},
	}
	require.Len(t, res.CriticalPoints, len(want))
	for i, w := range want {
		assert.InDelta(t, w.x, res.CriticalPoints[i].X, 1e-6)
		assert.Equal(t, w.kind, res.CriticalPoints[i].Kind)
	}
	assert.InDelta(t, 3*math.Pi/2, res.GlobalMin.X, 1e-6)
	assert.InDelta(t, -1.5, res.GlobalMin.Y, 1e-9)
	assert.InDelta(t, 0.75, res.GlobalMax.Y, 1e-9)

	// Both maxima come from bisection, so their values agree only to within
	// the tolerance.
	assert.True(t, res.CriticalPoints[0].IsGlobalMax)
	assert.True(t, res.CriticalPoints[2].IsGlobalMax)
	assert.False(t, res.CriticalPoints[1].IsGlobalMin)
	assert.True(t, res.CriticalPoints[3].IsGlobalMin)
}

func TestAnalyze_PeriodicFamily(t *testing.T) {
	res, err := weierstrass.AnalyzeFormula("cos(x)", 0, 2*math.Pi)
	require.NoError(t, err)
	assert.Equal(t, weierstrass.MethodExact, res.Method)
	require.Len(t, res.CriticalPoints, 1)
	assert.InDelta(t, math.Pi, res.CriticalPoints[0].X, 1e-12)
	assert.Equal(t, weierstrass.Point{X: 0, Y: 1}, res.GlobalMax)
	assert.InDelta(t, -1, res.GlobalMin.Y, 1e-12)
	require.Len(t, res.InflectionPoints, 2)
	assert.InDelta(t, math.Pi/2, res.InflectionPoints[0], 1e-12)
	assert.InDelta(t, 3*math.Pi/2, res.InflectionPoints[1], 1e-12)
}

func TestAnalyze_ZeroSecondDerivativeIsInconclusive(t *testing.T) {
	res, err := weierstrass.AnalyzeFormula("x**3", -1, 1)
	require.NoError(t, err)
	require.Len(t, res.CriticalPoints, 1)
	assert.Equal(t, weierstrass.InflectionOrSaddle, res.CriticalPoints[0].Kind)
	assert.False(t, res.CriticalPoints[0].IsGlobalMin)
	assert.Equal(t, []float64{0}, res.InflectionPoints)
	assert.Equal(t, weierstrass.Point{X: -1, Y: -1}, res.GlobalMin)
	assert.Equal(t, weierstrass.Point{X: 1, Y: 1}, res.GlobalMax)
}

func TestAnalyze_Kink(t *testing.T) {
	res, err := weierstrass.AnalyzeFormula("abs(x - 1)", 0, 3)
	require.NoError(t, err)
	require.Len(t, res.CriticalPoints, 1)
	assert.Equal(t, 1.0, res.CriticalPoints[0].X)
	assert.Equal(t, weierstrass.InflectionOrSaddle, res.CriticalPoints[0].Kind)
	assert.Equal(t, weierstrass.Point{X: 1, Y: 0}, res.GlobalMin)
	assert.Equal(t, weierstrass.Point{X: 3, Y: 2}, res.GlobalMax)
	assert.True(t, res.MinIsInterior())
	assert.False(t, res.MaxIsInterior())
}

func TestAnalyze_ParseError(t *testing.T) {
	_, err := weierstrass.AnalyzeFormula("x +", 0, 1)
	var pe *weierstrass.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "x +", pe.Formula)
	assert.False(t, errors.Is(err, weierstrass.ErrDiscontinuous))
}

// ============================================================
// Properties
// ============================================================

var polynomialCases = []struct {
	formula string
	a, b    float64
}{
	{"x**2", -1, 1},
	{"x**3 - 6*x**2 + 9*x + 2", 0, 4},
	{"x**4 - 5*x**2 + 4", -3, 3},
	{"2*x**3 + 3*x**2 - 12*x", -3, 2},
	{"x**5 - 5*x**3 + 4*x", -2.5, 2.5},
	{"-x**2 + 4*x", 0, 5},
	{"x**3 - 3*x + 1", -2, 2},
	{"(x - 1)**2*(x + 2)", -3, 3},
	{"7", 0, 1},
}

func candidates(res weierstrass.AnalysisResult) []weierstrass.Point {
	out := []weierstrass.Point{res.EndpointA, res.EndpointB}
	for _, cp := range res.CriticalPoints {
		out = append(out, weierstrass.Point{X: cp.X, Y: cp.Y})
	}
	return out
}

func TestProperty_GlobalDominance(t *testing.T) {
	for _, tc := range polynomialCases {
		t.Run(tc.formula, func(t *testing.T) {
			res, err := weierstrass.AnalyzeFormula(tc.formula, tc.a, tc.b)
			require.NoError(t, err)
			for _, p := range candidates(res) {
				assert.LessOrEqual(t, res.GlobalMin.Y, p.Y)
				assert.GreaterOrEqual(t, res.GlobalMax.Y, p.Y)
			}
		})
	}
}

func TestProperty_Idempotent(t *testing.T) {
	for _, tc := range polynomialCases {
		e := weierstrass.MustParse(tc.formula)
		first, err := weierstrass.Analyze(e, tc.a, tc.b)
		require.NoError(t, err)
		second, err := weierstrass.Analyze(e, tc.a, tc.b)
		require.NoError(t, err)
		assert.Equal(t, first, second, tc.formula)
	}
}

func TestProperty_CriticalPointsInterior(t *testing.T) {
	for _, tc := range polynomialCases {
		res, err := weierstrass.AnalyzeFormula(tc.formula, tc.a, tc.b)
		require.NoError(t, err)
		for i, cp := range res.CriticalPoints {
			assert.Greater(t, cp.X, tc.a, tc.formula)
			assert.Less(t, cp.X, tc.b, tc.formula)
			if i > 0 {
				assert.Less(t, res.CriticalPoints[i-1].X, cp.X, "sorted")
			}
		}
		for _, x := range res.InflectionPoints {
			assert.Greater(t, x, tc.a)
			assert.Less(t, x, tc.b)
		}
	}
}

func TestProperty_ClassificationConsistent(t *testing.T) {
	for _, tc := range polynomialCases {
		e := weierstrass.MustParse(tc.formula)
		res, err := weierstrass.Analyze(e, tc.a, tc.b)
		require.NoError(t, err)
		for _, cp := range res.CriticalPoints {
			d2 := e.SecondDerivativeAt(cp.X)
			switch cp.Kind {
			case weierstrass.LocalMin:
				assert.Greater(t, d2, 0.0, tc.formula)
			case weierstrass.LocalMax:
				assert.Less(t, d2, 0.0, tc.formula)
			case weierstrass.InflectionOrSaddle:
				assert.Equal(t, 0.0, d2, tc.formula)
			}
		}
	}
}

// ============================================================
// Helpers
// ============================================================

func TestShadedArea(t *testing.T) {
	e := weierstrass.MustParse("x**2")
	res, err := weierstrass.Analyze(e, -1, 1)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, weierstrass.ShadedArea(e, res), 1e-7)
}

func TestParseBound(t *testing.T) {
	v, err := weierstrass.ParseBound("2*pi")
	require.NoError(t, err)
	assert.InDelta(t, 2*math.Pi, v, 1e-15)

	v, err = weierstrass.ParseBound("-0.5")
	require.NoError(t, err)
	assert.Equal(t, -0.5, v)

	_, err = weierstrass.ParseBound("x")
	require.Error(t, err)
	_, err = weierstrass.ParseBound("sqrt(-1)")
	require.Error(t, err)
}

func TestClassification_Text(t *testing.T) {
	b, err := weierstrass.LocalMax.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "local-max", string(b))
	assert.Equal(t, "local maximum", weierstrass.LocalMax.String())

	var c weierstrass.Classification
	require.NoError(t, c.UnmarshalText([]byte("inflection-or-saddle")))
	assert.Equal(t, weierstrass.InflectionOrSaddle, c)
	require.Error(t, c.UnmarshalText([]byte("saddle")))
}
