package plot

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/njchilds90/weierstrass"
)

type lineStyle struct {
	name   string
	period int
	on     int
}

type ansiColor struct {
	name string
	code string
}

const (
	defaultPlotHeight   = 12
	minPlotWidth        = 10
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var (
	solid   = lineStyle{name: "solid", period: 1, on: 1}
	dashed  = lineStyle{name: "dashed", period: 6, on: 3}
	dotted  = lineStyle{name: "dotted", period: 4, on: 1}
	markers = lineStyle{name: "marker", period: 1, on: 1}
)

var colorPalette = []ansiColor{
	{name: "cyan", code: "\x1b[36m"},
	{name: "magenta", code: "\x1b[35m"},
	{name: "yellow", code: "\x1b[33m"},
	{name: "green", code: "\x1b[32m"},
	{name: "blue", code: "\x1b[34m"},
}

// TerminalOptions controls the braille plot. Zero values pick defaults.
type TerminalOptions struct {
	Width      int
	Height     int
	Padding    float64
	ForceColor bool
}

// Terminal writes two braille panels: f over the padded domain with the
// interval edges and global extrema marked, and f′ with its zero line and
// critical points.
func Terminal(w io.Writer, e *weierstrass.Expression, r weierstrass.AnalysisResult, o TerminalOptions) error {
	if o.Height <= 0 {
		o.Height = defaultPlotHeight
	}
	if o.Width <= 0 {
		o.Width = PlotWidthFor(terminalWidth())
	}
	if o.Width < minPlotWidth {
		o.Width = minPlotWidth
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	useColor := shouldUseColor(w, o.ForceColor)
	d := Padded(r, o.Padding)

	xs, ys := curve(e.At, d, o.Width*2)
	lo, hi := finiteRange(ys)
	c := newCanvas(o.Width, o.Height, d, lo, hi)
	c.polyline(c.layer("f(x)", solid), xs, ys)
	edges := c.layer("[a, b]", dashed)
	c.vline(edges, r.A)
	c.vline(edges, r.B)
	ext := c.layer("global min/max", markers)
	c.marker(ext, r.GlobalMin.X, r.GlobalMin.Y)
	c.marker(ext, r.GlobalMax.X, r.GlobalMax.Y)
	if err := c.render(w, fmt.Sprintf("f(x) = %s", r.Function), useColor); err != nil {
		return err
	}

	xs, dys := curve(e.DerivativeAt, d, o.Width*2)
	lo, hi = finiteRange(dys, []float64{0})
	c = newCanvas(o.Width, o.Height, d, lo, hi)
	c.polyline(c.layer("f'(x)", solid), xs, dys)
	c.hline(c.layer("y = 0", dotted), 0)
	crit := c.layer("critical points", markers)
	for _, cp := range r.CriticalPoints {
		c.marker(crit, cp.X, 0)
	}
	return c.render(w, fmt.Sprintf("f'(x) = %s", e.Derivative().String()), useColor)
}

type layer struct {
	name  string
	style lineStyle
	cells [][]uint8
}

// canvas maps data coordinates onto a grid of braille cells, each holding a
// 2x4 block of dots.
type canvas struct {
	width, height int
	domain        Domain
	ymin, ymax    float64
	layers        []*layer
}

func newCanvas(width, height int, d Domain, ymin, ymax float64) *canvas {
	return &canvas{width: width, height: height, domain: d, ymin: ymin, ymax: ymax}
}

func (c *canvas) layer(name string, style lineStyle) *layer {
	l := &layer{name: name, style: style, cells: makeCells(c.height, c.width)}
	c.layers = append(c.layers, l)
	return l
}

func (c *canvas) px(x float64) int {
	span := c.domain.Max - c.domain.Min
	if span <= 0 {
		return 0
	}
	return int(math.Round((x - c.domain.Min) / span * float64(c.width*2-1)))
}

func (c *canvas) py(y float64) int {
	return valueToRow(y, c.ymin, c.ymax, c.height*4)
}

func (c *canvas) polyline(l *layer, xs, ys []float64) {
	prevX, prevY := -1, -1
	for i, x := range xs {
		y := ys[i]
		if math.IsNaN(y) || math.IsInf(y, 0) {
			prevX, prevY = -1, -1
			continue
		}
		px, py := c.px(x), c.py(y)
		if prevX >= 0 {
			drawLine(prevX, prevY, px, py, func(dx, dy int) {
				if l.style.shouldPlot(dx) {
					setBrailleDot(l.cells, dx, dy)
				}
			})
		} else {
			setBrailleDot(l.cells, px, py)
		}
		prevX, prevY = px, py
	}
}

func (c *canvas) vline(l *layer, x float64) {
	px := c.px(x)
	for py := 0; py < c.height*4; py++ {
		if l.style.shouldPlot(py) {
			setBrailleDot(l.cells, px, py)
		}
	}
}

func (c *canvas) hline(l *layer, y float64) {
	py := c.py(y)
	for px := 0; px < c.width*2; px++ {
		if l.style.shouldPlot(px) {
			setBrailleDot(l.cells, px, py)
		}
	}
}

// marker fills the whole cell containing (x, y).
func (c *canvas) marker(l *layer, x, y float64) {
	px, py := c.px(x), c.py(y)
	cx, cy := px/2*2, py/4*4
	for dy := 0; dy < 4; dy++ {
		for dx := 0; dx < 2; dx++ {
			setBrailleDot(l.cells, cx+dx, cy+dy)
		}
	}
}

func (c *canvas) render(w io.Writer, title string, useColor bool) error {
	labels := c.axisLabels()
	labelWidth := 0
	for _, lbl := range labels {
		labelWidth = max(labelWidth, runewidth.StringWidth(lbl))
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for y := 0; y < c.height; y++ {
		var row strings.Builder
		row.WriteString(runewidth.FillLeft(labels[y], labelWidth))
		row.WriteString(axisSeparator)
		for x := 0; x < c.width; x++ {
			mask, colorIdx := c.composeCell(x, y)
			ch := brailleFromMask(mask)
			if useColor && colorIdx >= 0 {
				row.WriteString(colorPalette[colorIdx%len(colorPalette)].code)
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}

	left := formatTick(c.domain.Min)
	right := formatTick(c.domain.Max)
	gap := max(1, c.width-runewidth.StringWidth(left)-runewidth.StringWidth(right))
	indent := strings.Repeat(" ", labelWidth+runewidth.StringWidth(axisSeparator))
	if _, err := fmt.Fprintf(w, "%s%s%s%s\n", indent, left, strings.Repeat(" ", gap), right); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, c.legend(useColor)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func (c *canvas) axisLabels() []string {
	labels := make([]string, c.height)
	labels[0] = formatTick(c.ymax)
	if c.height > 2 {
		labels[c.height/2] = formatTick((c.ymin + c.ymax) / 2)
	}
	if c.height > 1 {
		labels[c.height-1] = formatTick(c.ymin)
	}
	return labels
}

// composeCell merges all layers; the first layer with a dot picks the colour.
func (c *canvas) composeCell(x, y int) (uint8, int) {
	var mask uint8
	colorIdx := -1
	for i, l := range c.layers {
		cellMask := l.cells[y][x]
		if cellMask == 0 {
			continue
		}
		if colorIdx == -1 {
			colorIdx = i
		}
		mask |= cellMask
	}
	return mask, colorIdx
}

func (c *canvas) legend(useColor bool) string {
	parts := make([]string, 0, len(c.layers))
	marker := brailleFromMask(0x01)
	for i, l := range c.layers {
		label := fmt.Sprintf("%c %s (%s)", marker, l.name, l.style.name)
		if useColor {
			label = colorPalette[i%len(colorPalette)].code + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - 10 - runewidth.StringWidth(axisSeparator)
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func (ls lineStyle) shouldPlot(x int) bool {
	if ls.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%ls.period < ls.on
}

func valueToRow(v, minVal, maxVal float64, height int) int {
	if height <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	row := int(math.Round((1 - pos) * float64(height-1)))
	if row < 0 {
		row = 0
	}
	if row >= height {
		row = height - 1
	}
	return row
}

// drawLine walks the Bresenham line from (x0, y0) to (x1, y1).
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := y1 - y0
	if dy > 0 {
		dy = -dy
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if y < 0 || x < 0 {
		return
	}
	cellY, cellX := y/4, x/2
	if cellY >= len(cells) || cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

// brailleDotMask maps a dot position within a cell to its Unicode bit.
func brailleDotMask(x, y int) uint8 {
	if x == 0 {
		return [4]uint8{0x01, 0x02, 0x04, 0x40}[y]
	}
	return [4]uint8{0x08, 0x10, 0x20, 0x80}[y]
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
