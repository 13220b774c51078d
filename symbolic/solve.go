package symbolic

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// ============================================================
// Solvers
// ============================================================

// SolveResult carries the real roots a solver found. Solutions are isolated
// roots; Families are periodic root sets. Unsolved marks results where the
// solver could not determine the real solution set, in which case Solutions
// and Families are empty. Error holds a human-readable note (complex roots,
// unsupported form) and may be set alongside partial information.
type SolveResult struct {
	Solutions []Expr
	Families  []Family
	ExactForm bool
	Unsolved  bool
	Error     string
}

// Empty reports whether the result names no real root at all.
func (r SolveResult) Empty() bool { return len(r.Solutions) == 0 && len(r.Families) == 0 }

// Family is the root set {Base + k*Period : k integer}.
type Family struct {
	Base   float64
	Period float64
}

// maxFamilyRoots bounds the expansion of a single family over an interval.
const maxFamilyRoots = 100000

// Within returns the members of the family lying strictly inside (lo, hi), ascending.
// At most maxFamilyRoots (100000) periods are expanded; members beyond that
// bound are not returned.
func (f Family) Within(lo, hi float64) []float64 {
	if math.IsNaN(f.Base) || math.IsInf(f.Base, 0) {
		return nil
	}
	if !(f.Period > 0) || math.IsInf(f.Period, 0) {
		if lo < f.Base && f.Base < hi {
			return []float64{f.Base}
		}
		return nil
	}
	kLo := math.Floor((lo - f.Base) / f.Period)
	kHi := math.Ceil((hi - f.Base) / f.Period)
	if kHi-kLo > maxFamilyRoots {
		kHi = kLo + maxFamilyRoots
	}
	var out []float64
	for k := kLo; k <= kHi; k++ {
		x := f.Base + k*f.Period
		if lo < x && x < hi {
			out = append(out, x)
		}
	}
	return out
}

func unsolved(format string, args ...interface{}) SolveResult {
	return SolveResult{Unsolved: true, Error: fmt.Sprintf(format, args...)}
}

// Solve finds the real roots of expr = 0 in varName. Products, powers and
// functions of a linear argument are split structurally; polynomials with
// numeric coefficients go through the closed-form solvers (degree ≤ 3) or
// rational-root deflation. Anything else is reported Unsolved, never panics.
func Solve(expr Expr, varName string) SolveResult {
	e := expr.Simplify()
	if !dependsOn(e, varName) {
		if n, ok := e.(*Num); ok && n.IsZero() {
			return SolveResult{Error: "identity (0 = 0): every point is a solution"}
		}
		return SolveResult{Error: fmt.Sprintf("no solution: expression does not depend on %s", varName)}
	}
	switch v := e.(type) {
	case *Sym:
		return SolveResult{Solutions: []Expr{N(0)}, ExactForm: true}
	case *Mul:
		return solveProduct(v, varName)
	case *Pow:
		return solvePower(v, varName)
	case *Func:
		return solveFunc(v, varName)
	}
	if coeffs, ok := NumericPolyCoeffs(e, varName); ok {
		return SolvePolynomial(coeffs)
	}
	return unsolved("no closed form for %s = 0", e.String())
}

// solveProduct: a product vanishes where one of its factors does. Reciprocal
// factors never vanish; points where they blow up are left for the caller to
// reject by evaluation.
func solveProduct(m *Mul, varName string) SolveResult {
	out := SolveResult{ExactForm: true}
	var notes []string
	for _, f := range m.factors {
		if !dependsOn(f, varName) {
			continue
		}
		if p, ok := f.(*Pow); ok {
			if en, ok := p.exp.(*Num); ok && en.IsNegative() {
				continue
			}
		}
		r := Solve(f, varName)
		if r.Unsolved {
			return r
		}
		out.Solutions = append(out.Solutions, r.Solutions...)
		out.Families = append(out.Families, r.Families...)
		out.ExactForm = out.ExactForm && r.ExactForm
		if r.Error != "" {
			notes = append(notes, r.Error)
		}
	}
	out.Error = strings.Join(notes, "; ")
	return out
}

func solvePower(p *Pow, varName string) SolveResult {
	if dependsOn(p.exp, varName) {
		if !dependsOn(p.base, varName) {
			// b^g(x) with constant b ≠ 0 never vanishes.
			return SolveResult{ExactForm: true}
		}
		return unsolved("variable base and exponent in %s", p.String())
	}
	if en, ok := p.exp.(*Num); ok && en.IsNegative() {
		return SolveResult{ExactForm: true}
	}
	return Solve(p.base, varName)
}

func solveFunc(f *Func, varName string) SolveResult {
	u := f.arg
	switch f.name {
	case "exp", "cosh":
		return SolveResult{ExactForm: true}
	case "ln", "acos":
		return Solve(AddOf(u, N(-1)), varName)
	case "abs", "sign", "sinh", "tanh", "asin", "atan":
		return Solve(u, varName)
	case "sin", "tan", "cos":
		coeffs, ok := NumericPolyCoeffs(u, varName)
		if !ok || len(coeffs) != 2 {
			return unsolved("%s of a non-linear argument", f.name)
		}
		alpha, beta := coeffs[1].Float64(), coeffs[0].Float64()
		offset := 0.0
		if f.name == "cos" {
			offset = math.Pi / 2
		}
		return SolveResult{Families: []Family{{
			Base:   (offset - beta) / alpha,
			Period: math.Pi / math.Abs(alpha),
		}}}
	}
	return unsolved("no inverse for %s", f.name)
}

// SolvePolynomial solves sum(coeffs[i] * x^i) = 0. Degree 4 and higher is
// reduced by rational roots until a cubic remains; when that is impossible
// the result is Unsolved.
func SolvePolynomial(coeffs []*Num) SolveResult {
	switch len(coeffs) - 1 {
	case 0:
		if coeffs[0].IsZero() {
			return SolveResult{Error: "identity (0 = 0): every point is a solution"}
		}
		return SolveResult{Error: "no solution (inconsistent)"}
	case 1:
		return SolveLinear(coeffs[1], coeffs[0])
	case 2:
		return SolveQuadraticExact(coeffs[2], coeffs[1], coeffs[0])
	case 3:
		return SolveCubic(coeffs[3], coeffs[2], coeffs[1], coeffs[0])
	}
	var roots []Expr
	for len(coeffs)-1 > 3 {
		r, ok := rationalRoot(coeffs)
		if !ok {
			return unsolved("no closed form for degree %d polynomial", len(coeffs)-1)
		}
		roots = append(roots, r)
		coeffs = deflate(coeffs, r)
	}
	rest := SolvePolynomial(coeffs)
	return SolveResult{
		Solutions: append(roots, rest.Solutions...),
		ExactForm: rest.ExactForm,
		Unsolved:  rest.Unsolved,
		Error:     rest.Error,
	}
}

// maxRationalRootTerm bounds the constant and leading coefficients whose
// divisors are enumerated by rationalRoot.
const maxRationalRootTerm = 1_000_000

// rationalRoot finds a root p/q by the rational root theorem.
func rationalRoot(coeffs []*Num) (*Num, bool) {
	if coeffs[0].IsZero() {
		return N(0), true
	}
	ints := integerCoeffs(coeffs)
	c0 := new(big.Int).Abs(ints[0])
	cn := new(big.Int).Abs(ints[len(ints)-1])
	if !c0.IsInt64() || !cn.IsInt64() || c0.Int64() > maxRationalRootTerm || cn.Int64() > maxRationalRootTerm {
		return nil, false
	}
	for _, p := range divisors(c0.Int64()) {
		for _, q := range divisors(cn.Int64()) {
			for _, s := range []int64{1, -1} {
				r := F(s*p, q)
				if evalPoly(coeffs, r).IsZero() {
					return r, true
				}
			}
		}
	}
	return nil, false
}

// integerCoeffs scales rational coefficients by the lcm of their denominators.
func integerCoeffs(coeffs []*Num) []*big.Int {
	lcm := big.NewInt(1)
	for _, c := range coeffs {
		d := c.val.Denom()
		g := new(big.Int).GCD(nil, nil, lcm, d)
		lcm.Mul(lcm, new(big.Int).Quo(d, g))
	}
	out := make([]*big.Int, len(coeffs))
	for i, c := range coeffs {
		scaled := new(big.Rat).Mul(c.val, new(big.Rat).SetInt(lcm))
		out[i] = new(big.Int).Set(scaled.Num())
	}
	return out
}

func divisors(n int64) []int64 {
	var out []int64
	for d := int64(1); d*d <= n; d++ {
		if n%d == 0 {
			out = append(out, d)
			if d*d != n {
				out = append(out, n/d)
			}
		}
	}
	return out
}

func evalPoly(coeffs []*Num, x *Num) *Num {
	acc := N(0)
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = numAdd(numMul(acc, x), coeffs[i])
	}
	return acc
}

// deflate divides the polynomial by (x - r), dropping the zero remainder.
func deflate(coeffs []*Num, r *Num) []*Num {
	n := len(coeffs) - 1
	out := make([]*Num, n)
	carry := N(0)
	for k := n; k >= 1; k-- {
		carry = numAdd(coeffs[k], numMul(r, carry))
		out[k-1] = carry
	}
	return out
}

func SolveLinear(a, b Expr) SolveResult {
	an, aok := a.Eval()
	bn, bok := b.Eval()
	if aok && bok {
		if an.IsZero() {
			if bn.IsZero() {
				return SolveResult{Error: "identity (0 = 0): infinite solutions"}
			}
			return SolveResult{Error: "no solution (inconsistent)"}
		}
		return SolveResult{Solutions: []Expr{numMul(numNeg(bn), numRecip(an))}, ExactForm: true}
	}
	return SolveResult{Solutions: []Expr{MulOf(N(-1), b, PowOf(a, N(-1))).Simplify()}, ExactForm: false}
}

func SolveQuadraticExact(a, b, c Expr) SolveResult {
	an, aok := a.Eval()
	bn, bok := b.Eval()
	cn, cok := c.Eval()
	if !aok || !bok || !cok {
		disc := AddOf(PowOf(b, N(2)), MulOf(N(-4), a, c))
		denom := MulOf(N(2), a)
		x1 := MulOf(AddOf(MulOf(N(-1), b), SqrtOf(disc)), PowOf(denom, N(-1)))
		x2 := MulOf(AddOf(MulOf(N(-1), b), MulOf(N(-1), SqrtOf(disc))), PowOf(denom, N(-1)))
		return SolveResult{Solutions: []Expr{x1.Simplify(), x2.Simplify()}, ExactForm: true}
	}
	if an.IsZero() {
		return SolveLinear(b, c)
	}
	// disc = b² - 4ac, exactly.
	disc := numAdd(numMul(bn, bn), numMul(N(-4), numMul(an, cn)))
	if disc.IsNegative() {
		af, bf, df := an.Float64(), bn.Float64(), disc.Float64()
		return SolveResult{Error: fmt.Sprintf("complex roots: %g ± %gi", -bf/(2*af), math.Sqrt(-df)/(2*af))}
	}
	twoA := numMul(N(2), an)
	if sq, ok := ratSqrt(disc); ok {
		x1 := numMul(numAdd(numNeg(bn), sq), numRecip(twoA))
		x2 := numMul(numAdd(numNeg(bn), numNeg(sq)), numRecip(twoA))
		if x1.Equal(x2) {
			return SolveResult{Solutions: []Expr{x1}, ExactForm: true}
		}
		return SolveResult{Solutions: []Expr{x1, x2}, ExactForm: true}
	}
	// Irrational roots stay symbolic: (-b ± √disc) / 2a.
	root := SqrtOf(disc)
	x1 := MulOf(AddOf(numNeg(bn), root), numRecip(twoA))
	x2 := MulOf(AddOf(numNeg(bn), MulOf(N(-1), root)), numRecip(twoA))
	return SolveResult{Solutions: []Expr{x1, x2}, ExactForm: true}
}

// ratSqrt returns the exact square root of a non-negative rational when both
// numerator and denominator are perfect squares.
func ratSqrt(n *Num) (*Num, bool) {
	num, den := n.val.Num(), n.val.Denom()
	sn, sd := new(big.Int).Sqrt(num), new(big.Int).Sqrt(den)
	if new(big.Int).Mul(sn, sn).Cmp(num) != 0 || new(big.Int).Mul(sd, sd).Cmp(den) != 0 {
		return nil, false
	}
	return &Num{val: new(big.Rat).SetFrac(sn, sd)}, true
}

func SolveCubic(a, b, c, d Expr) SolveResult {
	an, aok := a.Eval()
	bn, bok := b.Eval()
	cn, cok := c.Eval()
	dn, dok := d.Eval()
	if !aok || !bok || !cok || !dok {
		return unsolved("SolveCubic requires numeric coefficients")
	}
	if an.IsZero() {
		return SolveQuadraticExact(b, c, d)
	}
	// A rational root gives exact values for all three.
	coeffs := []*Num{dn, cn, bn, an}
	if r, ok := rationalRoot(coeffs); ok {
		rest := SolveQuadraticExact(quadCoeffs(deflate(coeffs, r)))
		sols := append([]Expr{r}, rest.Solutions...)
		return SolveResult{Solutions: sols, ExactForm: rest.ExactForm, Error: rest.Error}
	}
	af, bf, cf, df := an.Float64(), bn.Float64(), cn.Float64(), dn.Float64()
	p := (3*af*cf - bf*bf) / (3 * af * af)
	q := (2*bf*bf*bf - 9*af*bf*cf + 27*af*af*df) / (27 * af * af * af)
	offset := bf / (3 * af)
	disc := -(4*p*p*p + 27*q*q)

	var roots []Expr
	if disc > 0 {
		m := 2 * math.Sqrt(-p/3)
		arg := math.Max(-1, math.Min(1, 3*q/(p*m)))
		theta := math.Acos(arg) / 3
		for k := 0; k < 3; k++ {
			roots = append(roots, floatRoots(m*math.Cos(theta-2*math.Pi*float64(k)/3)-offset)...)
		}
	} else if disc == 0 {
		if q == 0 {
			roots = floatRoots(-offset)
		} else {
			roots = floatRoots(3*q/p-offset, -3*q/(2*p)-offset)
		}
	} else {
		A := math.Cbrt(-q/2 + math.Sqrt(q*q/4+p*p*p/27))
		B := float64(0)
		if A != 0 {
			B = -p / (3 * A)
		}
		realRoot := A + B - offset
		realImag := math.Sqrt(3) / 2 * math.Abs(A-B)
		return SolveResult{
			Solutions: floatRoots(realRoot),
			Error:     fmt.Sprintf("1 real root (%.6g); complex pair: real=%.6g, imag=±%.6g", realRoot, -A/2-B/2-offset, realImag),
		}
	}
	return SolveResult{Solutions: roots, ExactForm: false}
}

// quadCoeffs unpacks quadratic coefficients (constant first) into SolveQuadraticExact order.
func quadCoeffs(c []*Num) (a, b, d Expr) { return c[2], c[1], c[0] }

// floatRoots wraps approximate roots, dropping any that are not finite.
func floatRoots(vals ...float64) []Expr {
	out := make([]Expr, 0, len(vals))
	for _, v := range vals {
		if n, ok := numFromFloat(v); ok {
			out = append(out, n)
		}
	}
	return out
}
