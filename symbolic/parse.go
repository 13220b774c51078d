package symbolic

import (
	"fmt"
	"math/big"
	"strings"
)

// ============================================================
// Parser
// ============================================================
//
// Grammar (lowest precedence first):
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("-" | "+") unary | power
//	power   = primary [ ("**" | "^") unary ]
//	primary = number | name | name "(" expr ")" | "(" expr ")"
//
// Power is right-associative and binds tighter than unary minus, so -x**2 is
// -(x**2) and 2**-1 is 1/2. Decimal literals are kept exact.

// SyntaxError reports a malformed formula. Pos is the byte offset of the
// offending token.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// funcAliases maps accepted spellings onto kernel function names.
var funcAliases = map[string]string{
	"log":       "ln",
	"Abs":       "abs",
	"arcsin":    "asin",
	"arccos":    "acos",
	"arctan":    "atan",
	"Heaviside": "heaviside",
	"sgn":       "sign",
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokName
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) describe() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.text)
}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := rune(src[i])
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(rune(src[i+1]))):
			start := i
			for i < len(src) && isDigit(rune(src[i])) {
				i++
			}
			if i < len(src) && src[i] == '.' {
				i++
				for i < len(src) && isDigit(rune(src[i])) {
					i++
				}
			}
			// Exponent only when digits follow, so "2e" stays a number and a name.
			if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
				j := i + 1
				if j < len(src) && (src[j] == '+' || src[j] == '-') {
					j++
				}
				if j < len(src) && isDigit(rune(src[j])) {
					for j < len(src) && isDigit(rune(src[j])) {
						j++
					}
					i = j
				}
			}
			toks = append(toks, token{kind: tokNum, text: src[start:i], pos: start})
		case c == '_' || isLetter(c):
			start := i
			for i < len(src) && (src[i] == '_' || isLetter(rune(src[i])) || isDigit(rune(src[i]))) {
				i++
			}
			toks = append(toks, token{kind: tokName, text: src[start:i], pos: start})
		case c == '*' && i+1 < len(src) && src[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "**", pos: i})
			i += 2
		case strings.ContainsRune("+-*/^()", c):
			toks = append(toks, token{kind: tokOp, text: string(c), pos: i})
			i++
		default:
			return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", src[i])}
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

func isDigit(c rune) bool  { return c >= '0' && c <= '9' }
func isLetter(c rune) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

type parser struct {
	toks []token
	pos  int
}

// Parse reads a formula such as "x**3 - 6*x**2 + 9*x + 2" or "sin(x) + 0.5*cos(2*x)".
// Any identifier that is neither a function nor pi/E becomes a symbol.
func Parse(src string) (Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	if toks[0].kind == tokEOF {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}
	p := &parser{toks: toks}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, &SyntaxError{Pos: t.pos, Msg: "unexpected " + t.describe()}
	}
	return e.Simplify(), nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(ops ...string) bool {
	t := p.peek()
	if t.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

func (p *parser) expect(op string) error {
	if !p.isOp(op) {
		t := p.peek()
		return &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("expected %q, found %s", op, t.describe())}
	}
	p.next()
	return nil
}

func (p *parser) expr() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isOp("+", "-") {
		op := p.next().text
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			right = MulOf(N(-1), right)
		}
		left = AddOf(left, right)
	}
	return left, nil
}

func (p *parser) term() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*", "/") {
		op := p.next().text
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op == "/" {
			right = PowOf(right, N(-1))
		}
		left = MulOf(left, right)
	}
	return left, nil
}

func (p *parser) unary() (Expr, error) {
	if p.isOp("-", "+") {
		op := p.next().text
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			return MulOf(N(-1), operand), nil
		}
		return operand, nil
	}
	return p.power()
}

func (p *parser) power() (Expr, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.isOp("**", "^") {
		p.next()
		exp, err := p.unary()
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil
	}
	return base, nil
}

func (p *parser) primary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		r, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("invalid number %q", t.text)}
		}
		return &Num{val: r}, nil
	case tokName:
		name := t.text
		if alias, ok := funcAliases[name]; ok {
			name = alias
		}
		if p.isOp("(") {
			p.next()
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			if name == "sqrt" {
				return SqrtOf(arg), nil
			}
			if !IsFunction(name) {
				return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unknown function %q", t.text)}
			}
			return funcOf(name, arg).Simplify(), nil
		}
		if name == "sqrt" || IsFunction(name) {
			return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("function %q needs an argument", t.text)}
		}
		if c, ok := constNamed(name); ok {
			return c, nil
		}
		return S(name), nil
	case tokOp:
		if t.text == "(" {
			inner, err := p.expr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return inner, nil
		}
	}
	return nil, &SyntaxError{Pos: t.pos, Msg: "unexpected " + t.describe()}
}
