package plot

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/njchilds90/weierstrass"
)

// Panel selects one of the PNG views.
type Panel int

const (
	// PanelFunction is f over the padded domain with the interval edges,
	// endpoints and global extrema marked.
	PanelFunction Panel = iota
	// PanelDerivative is f′ over the padded domain with its critical points.
	PanelDerivative
	// PanelInterval is f on [a, b] with the min/max levels and the region
	// between f and its minimum filled.
	PanelInterval
)

// Panels lists every panel in drawing order.
var Panels = []Panel{PanelFunction, PanelDerivative, PanelInterval}

func (p Panel) String() string {
	switch p {
	case PanelFunction:
		return "function"
	case PanelDerivative:
		return "derivative"
	case PanelInterval:
		return "interval"
	}
	return fmt.Sprintf("Panel(%d)", int(p))
}

// PNGOptions controls image rendering. Zero values pick defaults.
type PNGOptions struct {
	Width   int
	Height  int
	Padding float64
	Samples int
}

func (o PNGOptions) withDefaults() PNGOptions {
	if o.Width <= 0 {
		o.Width = 900
	}
	if o.Height <= 0 {
		o.Height = 540
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.Samples <= 0 {
		o.Samples = DefaultSamples
	}
	return o
}

var (
	shadeColor = drawing.ColorFromHex("C89A3A").WithAlpha(90)
	bandColor  = chart.ColorAlternateGray
)

func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    5,
		DotColor:    col,
	}
}

func strokeStyle(col drawing.Color, dashed bool) chart.Style {
	s := chart.Style{StrokeColor: col, StrokeWidth: 2}
	if dashed {
		s.StrokeDashArray = []float64{6, 4}
	}
	return s
}

// WritePNG renders panel p to w.
func WritePNG(w io.Writer, p Panel, e *weierstrass.Expression, r weierstrass.AnalysisResult, o PNGOptions) error {
	o = o.withDefaults()
	var ch chart.Chart
	switch p {
	case PanelFunction:
		ch = functionChart(e, r, o)
	case PanelDerivative:
		ch = derivativeChart(e, r, o)
	case PanelInterval:
		ch = intervalChart(e, r, o)
	default:
		return fmt.Errorf("unknown panel %d", int(p))
	}
	ch.Width, ch.Height = o.Width, o.Height
	ch.Background = chart.Style{Padding: chart.Box{Top: 30, Left: 16, Right: 16, Bottom: 16}}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s panel: %w", p, err)
	}
	return nil
}

// SavePNGs writes every panel into dir as <prefix>-<panel>.png and returns
// the file paths.
func SavePNGs(dir, prefix string, e *weierstrass.Expression, r weierstrass.AnalysisResult, o PNGOptions) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create plot directory: %w", err)
	}
	paths := make([]string, 0, len(Panels))
	for _, p := range Panels {
		path := filepath.Join(dir, fmt.Sprintf("%s-%s.png", prefix, p))
		if err := savePNG(path, p, e, r, o); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func savePNG(path string, p Panel, e *weierstrass.Expression, r weierstrass.AnalysisResult, o PNGOptions) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WritePNG(f, p, e, r, o)
}

func functionChart(e *weierstrass.Expression, r weierstrass.AnalysisResult, o PNGOptions) chart.Chart {
	d := Padded(r, o.Padding)
	xs, ys := finitePoints(curve(e.At, d, o.Samples))
	lo, hi := finiteRange(ys)

	series := []chart.Series{
		chart.ContinuousSeries{Name: "f(x)", XValues: xs, YValues: ys, Style: strokeStyle(chart.ColorBlue, false)},
		chart.ContinuousSeries{Name: "a", XValues: []float64{r.A, r.A}, YValues: []float64{lo, hi}, Style: strokeStyle(bandColor, true)},
		chart.ContinuousSeries{Name: "b", XValues: []float64{r.B, r.B}, YValues: []float64{lo, hi}, Style: strokeStyle(bandColor, true)},
		chart.ContinuousSeries{
			Name:    "endpoints",
			XValues: []float64{r.EndpointA.X, r.EndpointB.X},
			YValues: []float64{r.EndpointA.Y, r.EndpointB.Y},
			Style:   pointStyle(chart.ColorBlack),
		},
		chart.ContinuousSeries{Name: "global min", XValues: []float64{r.GlobalMin.X}, YValues: []float64{r.GlobalMin.Y}, Style: pointStyle(chart.ColorGreen)},
		chart.ContinuousSeries{Name: "global max", XValues: []float64{r.GlobalMax.X}, YValues: []float64{r.GlobalMax.Y}, Style: pointStyle(chart.ColorRed)},
	}
	return chart.Chart{
		Title:  fmt.Sprintf("f(x) = %s", r.Function),
		XAxis:  chart.XAxis{Name: "x"},
		YAxis:  chart.YAxis{Name: "f(x)", Range: &chart.ContinuousRange{Min: lo, Max: hi}},
		Series: series,
	}
}

func derivativeChart(e *weierstrass.Expression, r weierstrass.AnalysisResult, o PNGOptions) chart.Chart {
	d := Padded(r, o.Padding)
	xs, ys := finitePoints(curve(e.DerivativeAt, d, o.Samples))
	lo, hi := finiteRange(ys, []float64{0})

	series := []chart.Series{
		chart.ContinuousSeries{Name: "f'(x)", XValues: xs, YValues: ys, Style: strokeStyle(chart.ColorOrange, false)},
		chart.ContinuousSeries{Name: "y = 0", XValues: []float64{d.Min, d.Max}, YValues: []float64{0, 0}, Style: strokeStyle(bandColor, true)},
	}
	if len(r.CriticalPoints) > 0 {
		cx := make([]float64, len(r.CriticalPoints))
		cy := make([]float64, len(r.CriticalPoints))
		for i, cp := range r.CriticalPoints {
			cx[i] = cp.X
		}
		series = append(series, chart.ContinuousSeries{Name: "critical points", XValues: cx, YValues: cy, Style: pointStyle(chart.ColorRed)})
	}
	return chart.Chart{
		Title:  fmt.Sprintf("f'(x) = %s", e.Derivative().String()),
		XAxis:  chart.XAxis{Name: "x"},
		YAxis:  chart.YAxis{Name: "f'(x)", Range: &chart.ContinuousRange{Min: lo, Max: hi}},
		Series: series,
	}
}

func intervalChart(e *weierstrass.Expression, r weierstrass.AnalysisResult, o PNGOptions) chart.Chart {
	xs, ys := finitePoints(curve(e.At, Domain{Min: r.A, Max: r.B}, o.Samples))
	lo, hi := r.GlobalMin.Y, r.GlobalMax.Y
	if hi-lo < 1e-9 {
		hi = lo + 1
	}
	// The fill of a series reaches down to the bottom of the plot, so the
	// y range starts exactly at the global minimum.
	top := hi + 0.05*(hi-lo)

	shade := strokeStyle(chart.ColorBlue, false)
	shade.FillColor = shadeColor
	series := []chart.Series{
		chart.ContinuousSeries{Name: "f(x)", XValues: xs, YValues: ys, Style: shade},
		chart.ContinuousSeries{Name: "min", XValues: []float64{r.A, r.B}, YValues: []float64{r.GlobalMin.Y, r.GlobalMin.Y}, Style: strokeStyle(chart.ColorGreen, true)},
		chart.ContinuousSeries{Name: "max", XValues: []float64{r.A, r.B}, YValues: []float64{r.GlobalMax.Y, r.GlobalMax.Y}, Style: strokeStyle(chart.ColorRed, true)},
		chart.AnnotationSeries{Annotations: []chart.Value2{
			{XValue: r.GlobalMin.X, YValue: r.GlobalMin.Y, Label: fmt.Sprintf("min %.4g", r.GlobalMin.Y)},
			{XValue: r.GlobalMax.X, YValue: r.GlobalMax.Y, Label: fmt.Sprintf("max %.4g", r.GlobalMax.Y)},
		}},
	}
	return chart.Chart{
		Title:  fmt.Sprintf("f on [%g, %g]", r.A, r.B),
		XAxis:  chart.XAxis{Name: "x", Range: &chart.ContinuousRange{Min: r.A, Max: r.B}},
		YAxis:  chart.YAxis{Name: "f(x)", Range: &chart.ContinuousRange{Min: lo, Max: top}},
		Series: series,
	}
}

// finitePoints drops samples where f is undefined.
func finitePoints(xs, ys []float64) ([]float64, []float64) {
	outX := xs[:0:0]
	outY := ys[:0:0]
	for i, y := range ys {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		outX = append(outX, xs[i])
		outY = append(outY, y)
	}
	return outX, outY
}
