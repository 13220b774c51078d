// Package symbolic is a small deterministic symbolic math kernel for real functions
// of one variable.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat) wherever the input allows it
//   - Deterministic simplification and stable output
//   - Differentiation, polynomial utilities and exact root solving
//   - Compilation to plain float64 closures for dense sampling
package symbolic

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(varName string, value Expr) Expr
	Diff(varName string) Expr
	Eval() (*Num, bool)
	Equal(other Expr) bool
	exprType() string
	toJSON() map[string]interface{}
}

// ============================================================
// Num — exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("symbolic: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat converts a finite float64 exactly. Non-finite input yields zero; use
// numFromFloat where the input may be NaN or infinite.
func NFloat(f float64) *Num {
	n, ok := numFromFloat(f)
	if !ok {
		return N(0)
	}
	return n
}

func numFromFloat(f float64) (*Num, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &Num{val: new(big.Rat).SetFloat64(f)}, true
}

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Eval() (*Num, bool)    { return n, true }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) exprType() string      { return "num" }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }
func (n *Num) IsPositive() bool      { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }

// isFloatLike reports whether the rational came from a binary float rather than
// from a short decimal or fraction, so printing it as p/q would be unreadable.
func (n *Num) isFloatLike() bool { return n.val.Denom().BitLen() > 20 }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	if n.isFloatLike() {
		return strconv.FormatFloat(n.Float64(), 'g', -1, 64)
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	if n.isFloatLike() {
		return strconv.FormatFloat(n.Float64(), 'g', 10, 64)
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.val.RatString()}
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("symbolic: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}

// ============================================================
// Sym — symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym      { return &Sym{name: name} }
func (s *Sym) Simplify() Expr { return s }
func (s *Sym) String() string { return s.name }
func (s *Sym) LaTeX() string  { return s.name }
func (s *Sym) Eval() (*Num, bool) {
	return nil, false
}
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string      { return "sym" }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": s.name}
}
func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}
func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

// ============================================================
// Const — named irrational constants
// ============================================================

type Const struct {
	name  string
	latex string
	value float64
}

var (
	Pi = &Const{name: "pi", latex: `\pi`, value: math.Pi}
	E  = &Const{name: "E", latex: "e", value: math.E}
)

func constNamed(name string) (*Const, bool) {
	switch name {
	case "pi", "Pi":
		return Pi, true
	case "E", "e":
		return E, true
	}
	return nil, false
}

func (c *Const) Simplify() Expr        { return c }
func (c *Const) String() string        { return c.name }
func (c *Const) LaTeX() string         { return c.latex }
func (c *Const) Sub(string, Expr) Expr { return c }
func (c *Const) Diff(string) Expr      { return N(0) }
func (c *Const) Eval() (*Num, bool)    { return numFromFloat(c.value) }
func (c *Const) Equal(other Expr) bool { o, ok := other.(*Const); return ok && c.name == o.name }
func (c *Const) Float64() float64      { return c.value }
func (c *Const) exprType() string      { return "const" }
func (c *Const) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "const", "name": c.name}
}

// ============================================================
// Add — sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Simplify flattens nested sums, folds numbers and collects like terms
// (c1*t + c2*t = (c1+c2)*t) keeping first-occurrence order.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}
	type like struct {
		coeff *Num
		term  Expr
	}
	numAccum := N(0)
	groups := map[string]*like{}
	order := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, v)
			continue
		}
		coeff, rest := extractCoefficient(t)
		key := exprKey(rest)
		g, seen := groups[key]
		if !seen {
			g = &like{coeff: N(0), term: rest}
			groups[key] = g
			order = append(order, key)
		}
		g.coeff = numAdd(g.coeff, coeff)
	}
	result := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		g := groups[key]
		switch {
		case g.coeff.IsZero():
		case g.coeff.IsOne():
			result = append(result, g.term)
		default:
			result = append(result, MulOf(g.coeff, g.term))
		}
	}
	if !numAccum.IsZero() {
		result = append(result, numAccum)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range a.terms {
		s := t.String()
		switch {
		case i == 0:
			sb.WriteString(s)
		case strings.HasPrefix(s, "-"):
			sb.WriteString(" - ")
			sb.WriteString(s[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}

func (a *Add) LaTeX() string {
	var sb strings.Builder
	for i, t := range a.terms {
		s := t.LaTeX()
		switch {
		case i == 0:
			sb.WriteString(s)
		case strings.HasPrefix(s, "-"):
			sb.WriteString(" - ")
			sb.WriteString(s[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}

func (a *Add) Sub(varName string, value Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(varName, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Diff(varName string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(varName)
	}
	return AddOf(dTerms...)
}

func (a *Add) Eval() (*Num, bool) {
	acc := N(0)
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) exprType() string { return "add" }
func (a *Add) toJSON() map[string]interface{} {
	ts := make([]map[string]interface{}, len(a.terms))
	for i, t := range a.terms {
		ts[i] = t.toJSON()
	}
	return map[string]interface{}{"type": "add", "terms": ts}
}
func (a *Add) Terms() []Expr { return a.terms }

// ============================================================
// Mul — product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products, folds numbers into a leading coefficient
// and merges powers of a common base (x * x^2 = x^3).
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}
	type power struct {
		base Expr
		exp  Expr
	}
	coeff := N(1)
	powers := map[string]*power{}
	order := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		key := exprKey(base)
		pw, seen := powers[key]
		if !seen {
			pw = &power{base: base, exp: N(0)}
			powers[key] = pw
			order = append(order, key)
		}
		pw.exp = AddOf(pw.exp, exp)
	}
	if coeff.IsZero() {
		return N(0)
	}
	others := make([]Expr, 0, len(order))
	for _, key := range order {
		pw := powers[key]
		f := PowOf(pw.base, pw.exp)
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		others = append(others, f)
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}

	// Precompute sort keys to avoid repeated String() calls in comparator.
	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	for i := range ks {
		others[i] = ks[i].e
	}

	if coeff.IsOne() {
		if len(others) == 1 {
			return others[0]
		}
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]Expr{coeff}, others...)}
}

// split separates a product into its sign, numerator and denominator strings.
func (m *Mul) split(str func(Expr) string, group func(Expr, string) string) (sign string, numer, denom []string) {
	for i, f := range m.factors {
		if n, ok := f.(*Num); ok && i == 0 {
			if n.IsNegative() {
				sign = "-"
				n = numNeg(n)
			}
			if !n.IsOne() {
				numer = append(numer, str(n))
			}
			continue
		}
		if p, ok := f.(*Pow); ok {
			if en, ok := p.exp.(*Num); ok && en.IsNegative() {
				inv := PowOf(p.base, numNeg(en))
				denom = append(denom, group(inv, str(inv)))
				continue
			}
		}
		numer = append(numer, group(f, str(f)))
	}
	return sign, numer, denom
}

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	sign, numer, denom := m.split(Expr.String, parenSum)
	s := strings.Join(numer, "*")
	if s == "" {
		s = "1"
	}
	switch len(denom) {
	case 0:
	case 1:
		s += "/" + denom[0]
	default:
		s += "/(" + strings.Join(denom, "*") + ")"
	}
	return sign + s
}

func (m *Mul) LaTeX() string {
	sign, numer, denom := m.split(Expr.LaTeX, latexParenSum)
	s := strings.Join(numer, " ")
	if len(denom) == 0 {
		return sign + s
	}
	if s == "" {
		s = "1"
	}
	return sign + "\\frac{" + s + "}{" + strings.Join(denom, " ") + "}"
}

func parenSum(e Expr, s string) string {
	switch e.(type) {
	case *Add, *Mul:
		return "(" + s + ")"
	}
	return s
}

func latexParenSum(e Expr, s string) string {
	if _, ok := e.(*Add); ok {
		return "\\left(" + s + "\\right)"
	}
	return s
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(varName)
		others := make([]Expr, 0, len(m.factors)-1)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		if len(others) == 0 {
			terms[i] = dfi
		} else {
			terms[i] = MulOf(append([]Expr{dfi}, others...)...)
		}
	}
	return AddOf(terms...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) toJSON() map[string]interface{} {
	fs := make([]map[string]interface{}, len(m.factors))
	for i, f := range m.factors {
		fs[i] = f.toJSON()
	}
	return map[string]interface{}{"type": "mul", "factors": fs}
}
func (m *Mul) Factors() []Expr { return m.factors }

// ============================================================
// Pow — base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	if en, ok := exp.(*Num); ok && en.IsZero() {
		return N(1)
	}
	if en, ok := exp.(*Num); ok && en.IsOne() {
		return base
	}

	// Handle 0^exp carefully.
	if bn, ok := base.(*Num); ok && bn.IsZero() {
		if en, ok2 := exp.(*Num); ok2 && en.IsNegative() {
			// 0^negative is a pole; keep it so evaluation yields +Inf.
			return &Pow{base: base, exp: exp}
		}
		if _, ok2 := exp.(*Num); ok2 {
			return N(0)
		}
		return &Pow{base: base, exp: exp}
	}

	if bn, ok := base.(*Num); ok && bn.IsOne() {
		return N(1)
	}
	if bn, ok := base.(*Num); ok {
		if en, ok2 := exp.(*Num); ok2 && en.IsInteger() {
			e := en.val.Num().Int64()
			if e >= -20 && e <= 20 {
				result := N(1)
				for i := int64(0); i < abs64(e); i++ {
					result = numMul(result, bn)
				}
				if e < 0 {
					return numRecip(result)
				}
				return result
			}
		}
	}
	// (b^m)^n = b^(m*n) holds for every real b only when n is an integer.
	if inner, ok := base.(*Pow); ok {
		if en, ok2 := exp.(*Num); ok2 && en.IsInteger() {
			return PowOf(inner.base, MulOf(inner.exp, exp))
		}
	}
	return &Pow{base: base, exp: exp}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// powerOperand wraps a base or exponent that would otherwise bind wrongly around ^.
func powerOperand(e Expr) string {
	s := e.String()
	switch v := e.(type) {
	case *Sym, *Const, *Func:
		return s
	case *Num:
		if v.IsInteger() && !v.IsNegative() {
			return s
		}
	}
	return "(" + s + ")"
}

func (p *Pow) String() string {
	if en, ok := p.exp.(*Num); ok && en.IsNegative() {
		inv := PowOf(p.base, numNeg(en))
		return "1/" + parenSum(inv, inv.String())
	}
	return powerOperand(p.base) + "^" + powerOperand(p.exp)
}

func (p *Pow) LaTeX() string {
	if en, ok := p.exp.(*Num); ok {
		if en.Equal(F(1, 2)) {
			return "\\sqrt{" + p.base.LaTeX() + "}"
		}
		if en.IsNegative() {
			return "\\frac{1}{" + PowOf(p.base, numNeg(en)).LaTeX() + "}"
		}
	}
	baseStr := p.base.LaTeX()
	switch p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "\\left(" + baseStr + "\\right)"
	}
	return baseStr + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	_, expIsNum := p.exp.(*Num)
	if expIsNum || !dependsOn(p.exp, varName) {
		newExp := AddOf(p.exp, N(-1))
		return MulOf(p.exp, PowOf(p.base, newExp), du)
	}
	if !dependsOn(p.base, varName) {
		return MulOf(PowOf(p.base, p.exp), LnOf(p.base), dv)
	}
	logTerm := MulOf(dv, LnOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Eval() (*Num, bool) {
	b, ok1 := p.base.Eval()
	e, ok2 := p.exp.Eval()
	if ok1 && ok2 {
		return numFromFloat(math.Pow(b.Float64(), e.Float64()))
	}
	return nil, false
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}
func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }

// ============================================================
// Func — named function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

// funcTable holds the float64 semantics of every supported function. Results
// outside a function's real domain are NaN or ±Inf, never a panic.
var funcTable = map[string]func(float64) float64{
	"sin":       math.Sin,
	"cos":       math.Cos,
	"tan":       math.Tan,
	"exp":       math.Exp,
	"ln":        math.Log,
	"abs":       math.Abs,
	"asin":      math.Asin,
	"acos":      math.Acos,
	"atan":      math.Atan,
	"sinh":      math.Sinh,
	"cosh":      math.Cosh,
	"tanh":      math.Tanh,
	"floor":     math.Floor,
	"ceil":      math.Ceil,
	"sign":      sign,
	"heaviside": heaviside,
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return v // keeps NaN and signed zero
}

// heaviside is the unit step with H(0) = 1.
func heaviside(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return v
	case v >= 0:
		return 1
	}
	return 0
}

// IsFunction reports whether name is a supported function.
func IsFunction(name string) bool {
	_, ok := funcTable[name]
	return ok
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr       { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr       { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr       { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr       { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr        { return funcOf("ln", arg).Simplify() }
func SqrtOf(arg Expr) Expr      { return PowOf(arg, F(1, 2)) }
func AbsOf(arg Expr) Expr       { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr      { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr      { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr      { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr      { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr      { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr      { return funcOf("tanh", arg).Simplify() }
func FloorOf(arg Expr) Expr     { return funcOf("floor", arg).Simplify() }
func CeilOf(arg Expr) Expr      { return funcOf("ceil", arg).Simplify() }
func SignOf(arg Expr) Expr      { return funcOf("sign", arg).Simplify() }
func HeavisideOf(arg Expr) Expr { return funcOf("heaviside", arg).Simplify() }

func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	if n, ok := arg.(*Num); ok {
		if fn, known := funcTable[f.name]; known {
			switch f.name {
			case "sin", "tan", "sinh", "tanh", "asin", "atan", "abs", "sign":
				if n.IsZero() {
					return N(0)
				}
			case "cos", "cosh", "exp":
				if n.IsZero() {
					return N(1)
				}
			case "ln":
				if n.IsOne() {
					return N(0)
				}
			}
			if folded, ok := numFromFloat(fn(n.Float64())); ok {
				if f.name == "floor" || f.name == "ceil" || f.name == "sign" || f.name == "heaviside" || f.name == "abs" {
					return folded
				}
				if n.isFloatLike() {
					return folded
				}
			}
		}
	}
	switch f.name {
	case "sin", "tan":
		if arg.Equal(Pi) {
			return N(0)
		}
	case "cos":
		if arg.Equal(Pi) {
			return N(-1)
		}
	case "ln":
		if arg.Equal(E) {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "exp":
		if inner, ok := arg.(*Func); ok && inner.name == "ln" {
			return inner.arg
		}
	case "abs":
		if n2, ok := arg.(*Num); ok {
			if n2.IsNegative() {
				return numNeg(n2)
			}
			return n2
		}
		if m, ok := arg.(*Mul); ok && len(m.factors) >= 2 {
			if coeff, ok2 := m.factors[0].(*Num); ok2 && coeff.IsNegOne() {
				inner := m.factors[1:]
				if len(inner) == 1 {
					return AbsOf(inner[0])
				}
				return AbsOf(MulOf(inner...))
			}
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	switch f.name {
	case "sin", "cos", "tan", "exp", "ln", "sinh", "cosh", "tanh":
		return "\\" + f.name + "\\left(" + f.arg.LaTeX() + "\\right)"
	case "asin":
		return "\\arcsin\\left(" + f.arg.LaTeX() + "\\right)"
	case "acos":
		return "\\arccos\\left(" + f.arg.LaTeX() + "\\right)"
	case "atan":
		return "\\arctan\\left(" + f.arg.LaTeX() + "\\right)"
	case "abs":
		return "\\left|" + f.arg.LaTeX() + "\\right|"
	case "floor":
		return "\\lfloor " + f.arg.LaTeX() + " \\rfloor"
	case "ceil":
		return "\\lceil " + f.arg.LaTeX() + " \\rceil"
	case "heaviside":
		return "\\theta\\left(" + f.arg.LaTeX() + "\\right)"
	}
	return "\\operatorname{" + f.name + "}\\left(" + f.arg.LaTeX() + "\\right)"
}

func (f *Func) Sub(varName string, value Expr) Expr {
	return funcOf(f.name, f.arg.Sub(varName, value)).Simplify()
}

func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = MulOf(N(-1), SinOf(f.arg))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(f.arg), N(2)))
	case "exp":
		outer = ExpOf(f.arg)
	case "ln":
		outer = PowOf(f.arg, N(-1))
	case "asin":
		outer = PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(f.arg, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(f.arg)
	case "cosh":
		outer = SinhOf(f.arg)
	case "tanh":
		outer = AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(f.arg), N(2))))
	case "abs":
		outer = SignOf(f.arg)
	case "sign", "heaviside", "floor", "ceil":
		// Piecewise constant: zero away from the jumps.
		return N(0)
	default:
		return MulOf(funcOf("D["+f.name+"]", f.arg), du)
	}
	return MulOf(outer, du).Simplify()
}

func (f *Func) Eval() (*Num, bool) {
	n, ok := f.arg.Eval()
	if !ok {
		return nil, false
	}
	fn, known := funcTable[f.name]
	if !known {
		return nil, false
	}
	return numFromFloat(fn(n.Float64()))
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "func", "name": f.name, "arg": f.arg.toJSON()}
}
func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }

// exprKey identifies structurally equal expressions for term collection.
func exprKey(e Expr) string { return e.exprType() + "|" + e.String() }

func extractCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if coeff, ok2 := m.factors[0].(*Num); ok2 {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return coeff, rest[0]
			}
			return coeff, &Mul{factors: rest}
		}
	}
	return N(1), e
}
