package symbolic_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/weierstrass/symbolic"
)

var x = symbolic.S("x")

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	assert.Equal(t, "42", symbolic.N(42).String())
}

func TestNum_Rational(t *testing.T) {
	assert.Equal(t, "1/3", symbolic.F(1, 3).String())
	assert.Equal(t, `\frac{2}{5}`, symbolic.F(2, 5).LaTeX())
}

func TestNum_FloatPrintsAsDecimal(t *testing.T) {
	assert.Equal(t, "0.1", symbolic.NFloat(0.1).String())
}

func TestNum_Diff_IsZero(t *testing.T) {
	assert.Equal(t, "0", symbolic.String(symbolic.N(5).Diff("x")))
}

// ============================================================
// Sym tests
// ============================================================

func TestSym_Sub(t *testing.T) {
	assert.Equal(t, "3", symbolic.String(symbolic.Sub(x, "x", symbolic.N(3))))
	assert.Equal(t, "x", symbolic.String(symbolic.Sub(x, "y", symbolic.N(3))))
}

func TestSym_Diff(t *testing.T) {
	assert.Equal(t, "1", symbolic.String(symbolic.Diff(x, "x")))
	assert.Equal(t, "0", symbolic.String(symbolic.Diff(symbolic.S("y"), "x")))
}

// ============================================================
// Add tests
// ============================================================

func TestAdd_Simple(t *testing.T) {
	assert.Equal(t, "x + 3", symbolic.AddOf(x, symbolic.N(3)).String())
}

func TestAdd_CollapseToZero(t *testing.T) {
	assert.Equal(t, "0", symbolic.AddOf(symbolic.N(1), symbolic.N(-1)).String())
}

func TestAdd_LikeTerms(t *testing.T) {
	assert.Equal(t, "2*x", symbolic.AddOf(x, x).String())

	x2 := symbolic.PowOf(x, symbolic.N(2))
	e := symbolic.AddOf(symbolic.MulOf(symbolic.N(3), x2), symbolic.MulOf(symbolic.N(-1), x2))
	assert.Equal(t, "2*x^2", e.String())
}

func TestAdd_NegativeTermsPrintAsSubtraction(t *testing.T) {
	e := symbolic.AddOf(x, symbolic.MulOf(symbolic.N(-1), symbolic.S("y")))
	assert.Equal(t, "x - y", e.String())
}

// ============================================================
// Mul tests
// ============================================================

func TestMul_MergesPowers(t *testing.T) {
	assert.Equal(t, "x^2", symbolic.MulOf(x, x).String())
	assert.Equal(t, "1", symbolic.MulOf(x, symbolic.PowOf(x, symbolic.N(-1))).String())
}

func TestMul_Quotient(t *testing.T) {
	e := symbolic.MulOf(symbolic.N(2), x, symbolic.PowOf(symbolic.AddOf(x, symbolic.N(1)), symbolic.N(-1)))
	assert.Equal(t, "2*x/(x + 1)", e.String())
}

func TestMul_ZeroAnnihilates(t *testing.T) {
	assert.Equal(t, "0", symbolic.MulOf(symbolic.N(0), symbolic.SinOf(x)).String())
}

// ============================================================
// Pow tests
// ============================================================

func TestPow_Fold(t *testing.T) {
	assert.Equal(t, "8", symbolic.PowOf(symbolic.N(2), symbolic.N(3)).String())
	assert.Equal(t, "1", symbolic.PowOf(x, symbolic.N(0)).String())
	assert.Equal(t, "x", symbolic.PowOf(x, symbolic.N(1)).String())
}

func TestPow_String(t *testing.T) {
	assert.Equal(t, "x^(1/2)", symbolic.SqrtOf(x).String())
	assert.Equal(t, "1/x^2", symbolic.PowOf(x, symbolic.N(-2)).String())
}

func TestPow_SqrtOfSquareStaysNested(t *testing.T) {
	e := symbolic.SqrtOf(symbolic.PowOf(x, symbolic.N(2)))
	assert.Equal(t, "(x^2)^(1/2)", e.String())

	f, err := symbolic.Compile(e, "x")
	require.NoError(t, err)
	assert.Equal(t, 3.0, f(-3))
}

// ============================================================
// Differentiation tests
// ============================================================

func TestDiff_Polynomial(t *testing.T) {
	// d/dx(x^2 + 3x + 1) = 2x + 3
	e := symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.MulOf(symbolic.N(3), x), symbolic.N(1))
	assert.Equal(t, "2*x + 3", symbolic.Diff(e, "x").String())
}

func TestDiff_Functions(t *testing.T) {
	tests := []struct {
		expr symbolic.Expr
		want string
	}{
		{symbolic.SinOf(x), "cos(x)"},
		{symbolic.CosOf(x), "-sin(x)"},
		{symbolic.ExpOf(symbolic.MulOf(symbolic.N(2), x)), "2*exp(2*x)"},
		{symbolic.LnOf(x), "1/x"},
		{symbolic.AbsOf(x), "sign(x)"},
		{symbolic.HeavisideOf(x), "0"},
	}
	for _, tt := range tests {
		t.Run(tt.expr.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, symbolic.Diff(tt.expr, "x").String())
		})
	}
}

func TestDiff2_Cubic(t *testing.T) {
	assert.Equal(t, "6*x", symbolic.Diff2(symbolic.PowOf(x, symbolic.N(3)), "x").String())
}

func TestDiffN(t *testing.T) {
	assert.Equal(t, "24", symbolic.DiffN(symbolic.PowOf(x, symbolic.N(4)), "x", 4).String())
}

// ============================================================
// Expand / polynomial tests
// ============================================================

func TestExpand_Square(t *testing.T) {
	e := symbolic.PowOf(symbolic.AddOf(x, symbolic.N(1)), symbolic.N(2))
	assert.Equal(t, "x^2 + 2*x + 1", symbolic.Expand(e).String())
}

func TestExpand_Product(t *testing.T) {
	e := symbolic.MulOf(symbolic.AddOf(x, symbolic.N(1)), symbolic.AddOf(x, symbolic.N(-1)))
	assert.Equal(t, "x^2 - 1", symbolic.Expand(e).String())
}

func TestNumericPolyCoeffs(t *testing.T) {
	e, err := symbolic.Parse("x**3 - 6*x**2 + 9*x + 2")
	require.NoError(t, err)

	coeffs, ok := symbolic.NumericPolyCoeffs(e, "x")
	require.True(t, ok)
	got := make([]float64, len(coeffs))
	for i, c := range coeffs {
		got[i] = c.Float64()
	}
	assert.Equal(t, []float64{2, 9, -6, 1}, got)
}

func TestNumericPolyCoeffs_RejectsNonPolynomials(t *testing.T) {
	for _, src := range []string{"sin(x)", "1/x", "sqrt(x)", "x*y", "2**x"} {
		e, err := symbolic.Parse(src)
		require.NoError(t, err)
		_, ok := symbolic.NumericPolyCoeffs(e, "x")
		assert.False(t, ok, src)
	}
}

func TestTidy_CollectsPolynomialDerivative(t *testing.T) {
	e, err := symbolic.Parse("x**3 - 6*x**2 + 9*x + 2")
	require.NoError(t, err)
	assert.Equal(t, "3*x^2 - 12*x + 9", symbolic.Tidy(symbolic.Diff(e, "x"), "x").String())
}

func TestTrigSimplify_Pythagorean(t *testing.T) {
	e := symbolic.AddOf(
		symbolic.PowOf(symbolic.SinOf(x), symbolic.N(2)),
		symbolic.PowOf(symbolic.CosOf(x), symbolic.N(2)),
	)
	assert.Equal(t, "1", symbolic.TrigSimplify(e).String())
}

func TestFreeSymbols(t *testing.T) {
	e := symbolic.AddOf(symbolic.SinOf(x), symbolic.S("y"), symbolic.Pi)
	syms := symbolic.FreeSymbols(e)
	assert.Len(t, syms, 2)
	assert.Contains(t, syms, "x")
	assert.Contains(t, syms, "y")
	assert.True(t, symbolic.DependsOn(e, "y"))
	assert.False(t, symbolic.DependsOn(e, "z"))
}

// ============================================================
// Compile / integrate tests
// ============================================================

func TestCompile_Domain(t *testing.T) {
	ln, err := symbolic.Compile(symbolic.LnOf(x), "x")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(ln(-1)))
	assert.True(t, math.IsInf(ln(0), -1))

	recip, err := symbolic.Compile(symbolic.PowOf(x, symbolic.N(-1)), "x")
	require.NoError(t, err)
	assert.True(t, math.IsInf(recip(0), 1))

	root, err := symbolic.Compile(symbolic.SqrtOf(x), "x")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(root(-2)))
}

func TestCompile_UnboundSymbol(t *testing.T) {
	_, err := symbolic.Compile(symbolic.AddOf(x, symbolic.S("y")), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"y"`)
}

func TestValue(t *testing.T) {
	v, ok := symbolic.Value(symbolic.SqrtOf(symbolic.N(2)))
	require.True(t, ok)
	assert.InDelta(t, math.Sqrt2, v, 1e-15)

	_, ok = symbolic.Value(x)
	assert.False(t, ok)
	_, ok = symbolic.Value(symbolic.SqrtOf(symbolic.N(-1)))
	assert.False(t, ok)
}

func TestDefiniteIntegrate(t *testing.T) {
	v, err := symbolic.DefiniteIntegrate(symbolic.PowOf(x, symbolic.N(2)), "x", 0, 3)
	require.NoError(t, err)
	assert.InDelta(t, 9.0, v, 1e-6)

	v, err = symbolic.DefiniteIntegrate(symbolic.SinOf(x), "x", 0, math.Pi)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v, 1e-6)
}

// ============================================================
// JSON tests
// ============================================================

func TestJSON_RoundTrip(t *testing.T) {
	e, err := symbolic.Parse("x**2*sin(x) + pi")
	require.NoError(t, err)

	back, err := symbolic.FromJSON(symbolic.Tree(e))
	require.NoError(t, err)
	assert.True(t, e.Equal(back), "got %s", back)

	s, err := symbolic.ToJSON(e)
	require.NoError(t, err)
	assert.Contains(t, s, `"type":"const"`)
}

func TestFromJSON_Errors(t *testing.T) {
	_, err := symbolic.FromJSON(map[string]interface{}{"type": "func", "name": "gamma", "arg": map[string]interface{}{"type": "sym", "name": "x"}})
	require.Error(t, err)
	_, err = symbolic.FromJSON(map[string]interface{}{"type": "matrix"})
	require.Error(t, err)
	_, err = symbolic.FromJSON(nil)
	require.Error(t, err)
}
