package weierstrass

import (
	"errors"
	"fmt"
	"sort"

	"github.com/njchilds90/weierstrass/symbolic"
)

// Variable is the only free symbol an Expression may contain.
const Variable = "x"

// Expression is a real function of x together with its first and second
// derivatives. The derivatives are computed and compiled once, at
// construction; an Expression is immutable and safe for concurrent use.
type Expression struct {
	formula string

	expr symbolic.Expr
	d1   symbolic.Expr
	d2   symbolic.Expr

	f   symbolic.Func1
	df  symbolic.Func1
	d2f symbolic.Func1
}

// Parse builds an Expression from formula text such as "x**2*sin(x)".
// Failures are *ParseError.
func Parse(formula string) (*Expression, error) {
	e, err := symbolic.Parse(formula)
	if err != nil {
		var se *symbolic.SyntaxError
		if errors.As(err, &se) {
			return nil, &ParseError{Formula: formula, Pos: se.Pos, Msg: se.Msg, err: err}
		}
		return nil, &ParseError{Formula: formula, Pos: -1, Msg: err.Error(), err: err}
	}
	return newExpression(formula, e)
}

// MustParse is Parse for formulas known to be valid; it panics otherwise.
func MustParse(formula string) *Expression {
	e, err := Parse(formula)
	if err != nil {
		panic(err)
	}
	return e
}

// FromExpr wraps an already built symbolic expression.
func FromExpr(e symbolic.Expr) (*Expression, error) {
	return newExpression(e.String(), e.Simplify())
}

func newExpression(formula string, e symbolic.Expr) (*Expression, error) {
	var extra []string
	for name := range symbolic.FreeSymbols(e) {
		if name != Variable {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return nil, &ParseError{
			Formula: formula,
			Pos:     -1,
			Msg:     fmt.Sprintf("unknown symbol %q: the function must depend on %s only", extra[0], Variable),
		}
	}

	d1 := symbolic.Tidy(symbolic.Diff(e, Variable), Variable)
	d2 := symbolic.Tidy(symbolic.Diff(d1, Variable), Variable)

	ex := &Expression{formula: formula, expr: e, d1: d1, d2: d2}
	for _, c := range []struct {
		src symbolic.Expr
		dst *symbolic.Func1
	}{
		{e, &ex.f},
		{d1, &ex.df},
		{d2, &ex.d2f},
	} {
		fn, err := symbolic.Compile(c.src, Variable)
		if err != nil {
			return nil, &ParseError{Formula: formula, Pos: -1, Msg: err.Error(), err: err}
		}
		*c.dst = fn
	}
	return ex, nil
}

// Formula returns the text the expression was built from.
func (e *Expression) Formula() string { return e.formula }

// String returns the canonical form of f.
func (e *Expression) String() string { return e.expr.String() }

// LaTeX returns f in LaTeX.
func (e *Expression) LaTeX() string { return e.expr.LaTeX() }

// Expr returns the symbolic form of f.
func (e *Expression) Expr() symbolic.Expr { return e.expr }

// Derivative returns f′.
func (e *Expression) Derivative() symbolic.Expr { return e.d1 }

// SecondDerivative returns f″.
func (e *Expression) SecondDerivative() symbolic.Expr { return e.d2 }

// At evaluates f at x. Out-of-domain inputs give NaN or ±Inf.
func (e *Expression) At(x float64) float64 { return e.f(x) }

// DerivativeAt evaluates f′ at x.
func (e *Expression) DerivativeAt(x float64) float64 { return e.df(x) }

// SecondDerivativeAt evaluates f″ at x.
func (e *Expression) SecondDerivativeAt(x float64) float64 { return e.d2f(x) }

// Evaluate returns f at every point of xs.
func (e *Expression) Evaluate(xs []float64) []float64 { return mapFunc(e.f, xs) }

// EvaluateDerivative returns f′ at every point of xs.
func (e *Expression) EvaluateDerivative(xs []float64) []float64 { return mapFunc(e.df, xs) }

// EvaluateSecondDerivative returns f″ at every point of xs.
func (e *Expression) EvaluateSecondDerivative(xs []float64) []float64 { return mapFunc(e.d2f, xs) }

func mapFunc(f symbolic.Func1, xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = f(x)
	}
	return out
}
