package symbolic

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// ============================================================
// JSON Serialization
// ============================================================

// ToJSON encodes e as a tree of {"type": ...} objects.
func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// Tree returns the JSON-ready object form of e.
func Tree(e Expr) map[string]interface{} { return e.toJSON() }

// FromJSON rebuilds an expression from its object form, as produced by Tree
// or decoded from JSON. The result is simplified.
func FromJSON(data map[string]interface{}) (Expr, error) {
	if data == nil {
		return nil, fmt.Errorf("expression must be an object")
	}
	typ, ok := data["type"].(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}
	n := node{typ: typ, data: data}

	switch typ {
	case "num":
		val, err := n.str("value")
		if err != nil {
			return nil, err
		}
		r, ok := new(big.Rat).SetString(val)
		if !ok {
			return nil, fmt.Errorf("invalid num value: %s", val)
		}
		return &Num{val: r}, nil
	case "sym":
		name, err := n.str("name")
		if err != nil {
			return nil, err
		}
		return S(name), nil
	case "const":
		name, err := n.str("name")
		if err != nil {
			return nil, err
		}
		c, ok := constNamed(name)
		if !ok {
			return nil, fmt.Errorf("unknown constant: %s", name)
		}
		return c, nil
	case "add":
		terms, err := n.children("terms")
		if err != nil {
			return nil, err
		}
		return AddOf(terms...), nil
	case "mul":
		factors, err := n.children("factors")
		if err != nil {
			return nil, err
		}
		return MulOf(factors...), nil
	case "pow":
		base, err := n.child("base")
		if err != nil {
			return nil, err
		}
		exp, err := n.child("exp")
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil
	case "func":
		name, err := n.str("name")
		if err != nil {
			return nil, err
		}
		if !IsFunction(name) {
			return nil, fmt.Errorf("func: unknown function %q", name)
		}
		arg, err := n.child("arg")
		if err != nil {
			return nil, err
		}
		return funcOf(name, arg).Simplify(), nil
	}
	return nil, fmt.Errorf("unknown expression type: %s", typ)
}

// node is one object of the tree being decoded.
type node struct {
	typ  string
	data map[string]interface{}
}

func (n node) field(name string) (interface{}, error) {
	v, ok := n.data[name]
	if !ok {
		return nil, fmt.Errorf("%s: missing %q", n.typ, name)
	}
	return v, nil
}

func (n node) str(name string) (string, error) {
	v, err := n.field(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%s: %q must be a non-empty string", n.typ, name)
	}
	return s, nil
}

func (n node) child(name string) (Expr, error) {
	v, err := n.field(name)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: %q must be an object", n.typ, name)
	}
	e, err := FromJSON(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", n.typ, name, err)
	}
	return e, nil
}

// children decodes an array field. Tree builds []map[string]interface{}
// while encoding/json yields []interface{}; both are accepted.
func (n node) children(name string) ([]Expr, error) {
	v, err := n.field(name)
	if err != nil {
		return nil, err
	}
	var items []interface{}
	switch raw := v.(type) {
	case []interface{}:
		items = raw
	case []map[string]interface{}:
		items = make([]interface{}, len(raw))
		for i, m := range raw {
			items[i] = m
		}
	default:
		return nil, fmt.Errorf("%s: %q must be an array", n.typ, name)
	}
	out := make([]Expr, len(items))
	for i, it := range items {
		m, ok := it.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %s[%d] must be an object", n.typ, name, i)
		}
		e, err := FromJSON(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %s[%d]: %w", n.typ, name, i, err)
		}
		out[i] = e
	}
	return out, nil
}
