package weierstrass

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/njchilds90/weierstrass/symbolic"
)

// ============================================================
// Tool Interface
// ============================================================

// ToolRequest is a JSON tool invocation, {"tool": ..., "params": {...}}.
// The function is given either as "formula" text or as an "expr" tree in
// the symbolic JSON encoding.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// HandleToolCall runs one tool. It never panics on malformed params; errors
// are reported in ToolResponse.Error.
func HandleToolCall(req ToolRequest, opts ...Option) ToolResponse {
	getExpression := func() (*Expression, error) {
		if v, ok := req.Params["formula"]; ok {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("param formula must be a string")
			}
			return Parse(s)
		}
		v, ok := req.Params["expr"]
		if !ok {
			return nil, fmt.Errorf("missing param: formula or expr")
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid type for param expr")
		}
		e, err := symbolic.FromJSON(m)
		if err != nil {
			return nil, err
		}
		return FromExpr(e)
	}
	getNumber := func(key string) (float64, error) {
		v, ok := req.Params[key]
		if !ok {
			return 0, fmt.Errorf("missing param: %s", key)
		}
		switch n := v.(type) {
		case float64:
			return n, nil
		case string:
			return ParseBound(n)
		}
		return 0, fmt.Errorf("param %s must be a number", key)
	}
	getInterval := func() (*Expression, float64, float64, error) {
		e, err := getExpression()
		if err != nil {
			return nil, 0, 0, err
		}
		a, err := getNumber("a")
		if err != nil {
			return nil, 0, 0, err
		}
		b, err := getNumber("b")
		if err != nil {
			return nil, 0, 0, err
		}
		return e, a, b, nil
	}
	respond := func(e symbolic.Expr) ToolResponse {
		return ToolResponse{Result: symbolic.Tree(e), LaTeX: e.LaTeX(), String: e.String()}
	}

	switch req.Tool {
	case "analyze":
		e, a, b, err := getInterval()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		res, err := Analyze(e, a, b, opts...)
		if errors.Is(err, ErrDiscontinuous) {
			return ToolResponse{
				Result: map[string]interface{}{"is_continuous": false, "theorem_applies": false},
				String: err.Error(),
				Error:  err.Error(),
			}
		}
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: res, LaTeX: e.LaTeX(), String: Summary(res)}

	case "check_continuity":
		e, a, b, err := getInterval()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		ok := CheckContinuity(e, a, b, opts...)
		return ToolResponse{Result: ok, String: fmt.Sprintf("continuous on [%g, %g]: %t", a, b, ok)}

	case "critical_points":
		e, a, b, err := getInterval()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		crit, infl := FindCriticalPoints(e, a, b, opts...)
		if crit == nil {
			crit = []float64{}
		}
		if infl == nil {
			infl = []float64{}
		}
		return ToolResponse{
			Result: map[string]interface{}{"critical_points": crit, "inflection_points": infl},
			String: fmt.Sprintf("critical: %v, inflection: %v", crit, infl),
		}

	case "derivative":
		e, err := getExpression()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		order := 1
		if v, ok := req.Params["order"]; ok {
			n, ok := v.(float64)
			if !ok || (n != 1 && n != 2) {
				return ToolResponse{Error: "param order must be 1 or 2"}
			}
			order = int(n)
		}
		if order == 2 {
			return respond(e.SecondDerivative())
		}
		return respond(e.Derivative())

	case "tool_spec":
		return ToolResponse{Result: ToolSpec(), String: "tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// Summary is a one-line description of a result.
func Summary(r AnalysisResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "f(x) = %s on [%g, %g]: min %g at x=%g, max %g at x=%g",
		r.Function, r.A, r.B, r.GlobalMin.Y, r.GlobalMin.X, r.GlobalMax.Y, r.GlobalMax.X)
	if n := len(r.CriticalPoints); n > 0 {
		fmt.Fprintf(&sb, ", %d critical point(s)", n)
	}
	return sb.String()
}

// ToolSpec returns the JSON schema of the tools.
func ToolSpec() string {
	fn := map[string]string{"formula": "string", "expr": "object"}
	interval := map[string]string{"formula": "string", "expr": "object", "a": "number", "b": "number"}
	tools := []map[string]interface{}{
		ts("analyze", "Global minimum and maximum of f on [a, b] (extreme value theorem). Give formula text or an expr tree; a and b may be numbers or constants like \"2*pi\"", []string{"a", "b"}, interval),
		ts("check_continuity", "Sampling heuristic: does f look continuous on [a, b]", []string{"a", "b"}, interval),
		ts("critical_points", "Interior zeros of f' and f'' on (a, b)", []string{"a", "b"}, interval),
		ts("derivative", "Symbolic derivative of f. Optional order (1 or 2)", []string{}, merge(fn, map[string]string{"order": "integer"})),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}

func merge(a, b map[string]string) map[string]string {
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
