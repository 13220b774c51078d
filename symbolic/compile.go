package symbolic

import (
	"fmt"
	"math"
)

// ============================================================
// Float compilation
// ============================================================

// Func1 is a compiled real function of one variable.
type Func1 func(x float64) float64

// Compile turns e into a float64 closure of varName. The tree is walked once;
// the returned function allocates nothing per call. Out-of-domain inputs give
// NaN or ±Inf (ln(-1), 1/0, sqrt(-2)); no input makes it panic.
func Compile(e Expr, varName string) (Func1, error) {
	switch v := e.(type) {
	case *Num:
		c := v.Float64()
		return func(float64) float64 { return c }, nil
	case *Const:
		c := v.value
		return func(float64) float64 { return c }, nil
	case *Sym:
		if v.name != varName {
			return nil, fmt.Errorf("unbound symbol %q", v.name)
		}
		return func(x float64) float64 { return x }, nil
	case *Add:
		terms, err := compileAll(v.terms, varName)
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 {
			sum := 0.0
			for _, t := range terms {
				sum += t(x)
			}
			return sum
		}, nil
	case *Mul:
		factors, err := compileAll(v.factors, varName)
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 {
			prod := 1.0
			for _, f := range factors {
				prod *= f(x)
			}
			return prod
		}, nil
	case *Pow:
		return compilePow(v, varName)
	case *Func:
		fn, ok := funcTable[v.name]
		if !ok {
			return nil, fmt.Errorf("unknown function %q", v.name)
		}
		arg, err := Compile(v.arg, varName)
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 { return fn(arg(x)) }, nil
	}
	return nil, fmt.Errorf("cannot compile %T", e)
}

func compileAll(es []Expr, varName string) ([]Func1, error) {
	out := make([]Func1, len(es))
	for i, e := range es {
		f, err := Compile(e, varName)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func compilePow(p *Pow, varName string) (Func1, error) {
	base, err := Compile(p.base, varName)
	if err != nil {
		return nil, err
	}
	if en, ok := p.exp.(*Num); ok {
		switch {
		case en.Equal(F(1, 2)):
			return func(x float64) float64 { return math.Sqrt(base(x)) }, nil
		case en.IsNegOne():
			return func(x float64) float64 { return 1 / base(x) }, nil
		case en.Equal(N(2)):
			return func(x float64) float64 { b := base(x); return b * b }, nil
		}
		k := en.Float64()
		return func(x float64) float64 { return math.Pow(base(x), k) }, nil
	}
	exp, err := Compile(p.exp, varName)
	if err != nil {
		return nil, err
	}
	return func(x float64) float64 { return math.Pow(base(x), exp(x)) }, nil
}

// Value converts a closed-form expression to a finite float64. ok is false for
// expressions with free symbols and for non-finite or non-real values.
func Value(e Expr) (float64, bool) {
	if len(FreeSymbols(e)) > 0 {
		return 0, false
	}
	f, err := Compile(e, "")
	if err != nil {
		return 0, false
	}
	v := f(0)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
