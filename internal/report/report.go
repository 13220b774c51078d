// Package report renders analysis results as plain or styled text.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/njchilds90/weierstrass"
)

// DefaultPrecision is the number of decimals printed for each value.
const DefaultPrecision = 6

// Options controls the rendering.
type Options struct {
	Precision int
	Color     bool
	LaTeX     bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

type writer struct {
	b    strings.Builder
	opts Options
}

func newWriter(o Options) *writer {
	if o.Precision <= 0 {
		o.Precision = DefaultPrecision
	}
	return &writer{opts: o}
}

func (w *writer) style(s lipgloss.Style, text string) string {
	if !w.opts.Color {
		return text
	}
	return s.Render(text)
}

func (w *writer) line(format string, args ...any) {
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *writer) heading(text string) {
	w.b.WriteByte('\n')
	w.line("%s", w.style(headingStyle, text))
}

func (w *writer) num(v float64) string {
	return strconv.FormatFloat(v, 'f', w.opts.Precision, 64)
}

func (w *writer) table(headers []string, rows [][]string, right map[int]bool) {
	for i, l := range formatTable(headers, rows, right) {
		if i == 0 {
			l = w.style(mutedStyle, l)
		}
		w.line("  %s", l)
	}
}

// Render returns the full report for an analysis of e.
func Render(e *weierstrass.Expression, r weierstrass.AnalysisResult, o Options) string {
	w := newWriter(o)
	w.line("%s", w.style(titleStyle, "Weierstrass extreme value theorem"))
	w.line("f(x)   = %s", e.String())
	w.line("f'(x)  = %s", e.Derivative().String())
	w.line("f''(x) = %s", e.SecondDerivative().String())
	if w.opts.LaTeX {
		w.line("LaTeX  f(x) = %s", e.LaTeX())
		w.line("       f'(x) = %s", e.Derivative().LaTeX())
		w.line("       f''(x) = %s", e.SecondDerivative().LaTeX())
	}
	w.line("Interval: [%s, %s]", w.num(r.A), w.num(r.B))
	w.line("Continuous: %s", w.style(goodStyle, "yes"))

	w.heading("Global extrema")
	w.table(
		[]string{"", "x", "f(x)", "location"},
		[][]string{
			{"min", w.num(r.GlobalMin.X), w.num(r.GlobalMin.Y), location(r.MinIsInterior())},
			{"max", w.num(r.GlobalMax.X), w.num(r.GlobalMax.Y), location(r.MaxIsInterior())},
		},
		map[int]bool{1: true, 2: true},
	)

	w.heading("Endpoints")
	w.table(nil, [][]string{
		{"f(a)", "=", w.num(r.EndpointA.Y)},
		{"f(b)", "=", w.num(r.EndpointB.Y)},
	}, map[int]bool{2: true})

	w.heading(fmt.Sprintf("Critical points (%s)", r.Method))
	if len(r.CriticalPoints) == 0 {
		w.line("  none in (a, b)")
	} else {
		rows := make([][]string, len(r.CriticalPoints))
		for i, cp := range r.CriticalPoints {
			rows[i] = []string{strconv.Itoa(i + 1), w.num(cp.X), w.num(cp.Y), cp.Kind.String(), globalMarker(cp)}
		}
		w.table([]string{"#", "x", "f(x)", "type", "global"}, rows, map[int]bool{0: true, 1: true, 2: true})
	}

	w.heading("Inflection points")
	if len(r.InflectionPoints) == 0 {
		w.line("  none in (a, b)")
	} else {
		for _, x := range r.InflectionPoints {
			w.line("  x = %s, f(x) = %s", w.num(x), w.num(e.At(x)))
		}
	}

	w.heading("Shaded area")
	w.line("  ∫ (f(x) - min) dx over [a, b] = %s", w.num(weierstrass.ShadedArea(e, r)))

	w.heading("Conclusion")
	w.line("  f is continuous on the closed interval [%s, %s], so it attains", w.num(r.A), w.num(r.B))
	w.line("  a global minimum %s at x = %s", w.num(r.GlobalMin.Y), w.num(r.GlobalMin.X))
	w.line("  and a global maximum %s at x = %s.", w.num(r.GlobalMax.Y), w.num(r.GlobalMax.X))
	return w.b.String()
}

// RenderRejected returns the report for a function that failed the
// continuity check.
func RenderRejected(err *weierstrass.ContinuityError, o Options) string {
	w := newWriter(o)
	w.line("%s", w.style(titleStyle, "Weierstrass extreme value theorem"))
	w.line("f(x)   = %s", err.Formula)
	w.line("Interval: [%s, %s]", w.num(err.A), w.num(err.B))
	w.line("Continuous: %s", w.style(badStyle, "no"))

	w.heading("Conclusion")
	w.line("  f appears discontinuous on [%s, %s];", w.num(err.A), w.num(err.B))
	w.line("  the theorem does not apply and no extrema are guaranteed.")
	return w.b.String()
}

// Write renders r to out.
func Write(out io.Writer, e *weierstrass.Expression, r weierstrass.AnalysisResult, o Options) error {
	_, err := io.WriteString(out, Render(e, r, o))
	return err
}

func location(interior bool) string {
	if interior {
		return "interior"
	}
	return "endpoint"
}

func globalMarker(cp weierstrass.CriticalPoint) string {
	switch {
	case cp.IsGlobalMin && cp.IsGlobalMax:
		return "min, max"
	case cp.IsGlobalMin:
		return "min"
	case cp.IsGlobalMax:
		return "max"
	}
	return ""
}
