package plot

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/weierstrass"
)

func analyze(t *testing.T, formula string, a, b float64) (*weierstrass.Expression, weierstrass.AnalysisResult) {
	t.Helper()
	e := weierstrass.MustParse(formula)
	r, err := weierstrass.Analyze(e, a, b)
	require.NoError(t, err)
	return e, r
}

// ============================================================
// Terminal plot
// ============================================================

func TestTerminal_Layout(t *testing.T) {
	e, r := analyze(t, "x**3 - 6*x**2 + 9*x + 2", 0, 4)
	var buf bytes.Buffer
	require.NoError(t, Terminal(&buf, e, r, TerminalOptions{Width: 40, Height: 8}))

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// Per panel: title, rows, x range, legend, blank.
	assert.Len(t, lines, 2*(1+8+1+1+1)-1)
	assert.Equal(t, "f(x) = x^3 - 6*x^2 + 9*x + 2", lines[0])
	assert.Equal(t, "f'(x) = 3*x^2 - 12*x + 9", lines[12])
	assert.Contains(t, out, "Legend: ")
	assert.Contains(t, out, "global min/max (marker)")
	assert.Contains(t, out, "critical points (marker)")
	assert.NotContains(t, out, "\x1b[")

	for _, l := range lines[1:9] {
		_, plotArea, ok := strings.Cut(l, axisSeparator)
		require.True(t, ok, l)
		assert.Equal(t, 40, len([]rune(plotArea)))
	}
}

func TestTerminal_ForcedColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	e, r := analyze(t, "x**2", -1, 1)
	var buf bytes.Buffer
	require.NoError(t, Terminal(&buf, e, r, TerminalOptions{Width: 20, Height: 4, ForceColor: true}))
	assert.Contains(t, buf.String(), colorPalette[0].code)

	t.Setenv("NO_COLOR", "1")
	buf.Reset()
	require.NoError(t, Terminal(&buf, e, r, TerminalOptions{Width: 20, Height: 4, ForceColor: true}))
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestTerminal_UndefinedOutsideInterval(t *testing.T) {
	// ln is undefined left of 0, which lies inside the padded domain.
	e, r := analyze(t, "ln(x)", 0.2, 3)
	var buf bytes.Buffer
	require.NoError(t, Terminal(&buf, e, r, TerminalOptions{Width: 30, Height: 6}))
	assert.Contains(t, buf.String(), "f(x) = ln(x)")
}

func TestDrawLine(t *testing.T) {
	var pts [][2]int
	drawLine(0, 0, 3, 1, func(x, y int) { pts = append(pts, [2]int{x, y}) })
	assert.Equal(t, [2]int{0, 0}, pts[0])
	assert.Equal(t, [2]int{3, 1}, pts[len(pts)-1])
	assert.Len(t, pts, 4)

	pts = nil
	drawLine(2, 2, 2, 2, func(x, y int) { pts = append(pts, [2]int{x, y}) })
	assert.Equal(t, [][2]int{{2, 2}}, pts)
}

func TestBraille(t *testing.T) {
	cells := makeCells(1, 1)
	for y := 0; y < 4; y++ {
		for x := 0; x < 2; x++ {
			setBrailleDot(cells, x, y)
		}
	}
	assert.Equal(t, '⣿', brailleFromMask(cells[0][0]))
	assert.Equal(t, '⠀', brailleFromMask(0))

	setBrailleDot(cells, 5, 5) // out of range is ignored
	assert.Len(t, cells, 1)
}

func TestValueToRow(t *testing.T) {
	assert.Equal(t, 0, valueToRow(10, 0, 10, 8))
	assert.Equal(t, 7, valueToRow(0, 0, 10, 8))
	assert.Equal(t, 7, valueToRow(-5, 0, 10, 8))
	assert.Equal(t, 0, valueToRow(5, 0, 10, 1))
}

func TestPlotWidthFor(t *testing.T) {
	assert.Equal(t, minPlotWidth, PlotWidthFor(0))
	assert.Equal(t, minPlotWidth, PlotWidthFor(12))
	assert.Equal(t, 67, PlotWidthFor(80))
}

func TestFiniteRange(t *testing.T) {
	lo, hi := finiteRange([]float64{1, 3, math.NaN(), 2})
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 3.0, hi)

	lo, hi = finiteRange([]float64{5, 5})
	assert.Equal(t, 4.0, lo)
	assert.Equal(t, 6.0, hi)

	lo, hi = finiteRange(nil)
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestPadded(t *testing.T) {
	r := weierstrass.AnalysisResult{A: 0, B: 4}
	assert.Equal(t, Domain{Min: -0.5, Max: 4.5}, Padded(r, DefaultPadding))
	assert.Equal(t, Domain{Min: 0, Max: 4}, Padded(r, -1))

	xs, ys := curve(func(x float64) float64 { return 2 * x }, Domain{Min: 0, Max: 1}, 3)
	assert.Equal(t, []float64{0, 0.5, 1}, xs)
	assert.Equal(t, []float64{0, 1, 2}, ys)
}

// ============================================================
// PNG panels
// ============================================================

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func TestWritePNG_AllPanels(t *testing.T) {
	e, r := analyze(t, "sin(x) + 0.5*cos(2*x)", 0, 6.283185307179586)
	for _, p := range Panels {
		t.Run(p.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WritePNG(&buf, p, e, r, PNGOptions{Width: 320, Height: 200, Samples: 100}))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
		})
	}
}

func TestWritePNG_Constant(t *testing.T) {
	e, r := analyze(t, "5", 0, 1)
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, PanelInterval, e, r, PNGOptions{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
}

func TestWritePNG_UnknownPanel(t *testing.T) {
	e, r := analyze(t, "x", 0, 1)
	assert.Error(t, WritePNG(&bytes.Buffer{}, Panel(9), e, r, PNGOptions{}))
	assert.Equal(t, "Panel(9)", Panel(9).String())
}

func TestSavePNGs(t *testing.T) {
	e, r := analyze(t, "x**2", -1, 1)
	dir := filepath.Join(t.TempDir(), "plots")
	paths, err := SavePNGs(dir, "parabola", e, r, PNGOptions{Width: 200, Height: 150, Samples: 50})
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(dir, "parabola-function.png"), paths[0])
	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, pngSignature), p)
	}
}

func TestFinitePoints(t *testing.T) {
	xs, ys := finitePoints([]float64{0, 1, 2}, []float64{1, math.NaN(), 3})
	assert.Equal(t, []float64{0, 2}, xs)
	assert.Equal(t, []float64{1, 3}, ys)
}
