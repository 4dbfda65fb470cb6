// Package render draws a single figure frame as a static PNG.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/agegap/internal/domain/types"
)

// Sentinel kinds for render errors.
var (
	ErrFrameNotFound = errors.New("frame not found")
	ErrRender        = errors.New("render frame")
)

const (
	defaultWidth  = 1000
	defaultHeight = 500

	// log10 bounds of the ratio axis
	xMin = -2.1
	xMax = 2.1
	yMin = -10
	yMax = 120

	maxDotRadius = 40
)

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithSize sets the image size in pixels.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 && height > 0 {
			r.width, r.height = width, height
		}
	}
}

// Renderer draws frames with go-chart.
type Renderer struct {
	width  int
	height int
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{width: defaultWidth, height: defaultHeight}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FramePNG writes the frame of a year as PNG. The ratio axis is drawn in
// log10 units; bubbles with a non-positive ratio are not plotted.
func (r *Renderer) FramePNG(w io.Writer, fig types.Figure, year int, title string) error {
	frame, ok := fig.Frame(year)
	if !ok {
		return fmt.Errorf("%w: %d", ErrFrameNotFound, year)
	}

	series := []chart.Series{balanceLine()}
	for i, tr := range frame.Data {
		if tr.Name == types.ReferenceTraceName {
			series = append(series, referenceLine(tr))
			continue
		}
		if s, ok := bubbles(tr, drawing.ColorFromHex(palette[i%len(palette)])); ok {
			series = append(series, s)
		}
	}

	ch := chart.Chart{
		Title:      title,
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Ratio of Female/Male within Selected Age Range",
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks: logTicks(),
		},
		YAxis: chart.YAxis{
			Name:  "% Among All Medalists",
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.LegendLeft(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

// palette mirrors the default Plotly qualitative colours.
var palette = []string{
	"636efa", "ef553b", "00cc96", "ab63fa", "ffa15a",
	"19d3f3", "ff6692", "b6e880", "ff97ff", "fecb52",
}

func logTicks() []chart.Tick {
	labels := []string{"0.01", "0.1", "1", "10", "100"}
	ticks := make([]chart.Tick, len(labels))
	for i, l := range labels {
		ticks[i] = chart.Tick{Value: float64(i - 2), Label: l}
	}
	return ticks
}

// balanceLine marks a female/male ratio of 1.
func balanceLine() chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name: "Female/Male = 1",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("999999"),
			StrokeWidth:     1,
			StrokeDashArray: []float64{2, 4},
		},
		XValues: []float64{0, 0},
		YValues: []float64{yMin, yMax},
	}
}

func referenceLine(tr types.Trace) chart.ContinuousSeries {
	y := 0.0
	if len(tr.Y) > 0 {
		y = tr.Y[0].OrZero()
	}
	return chart.ContinuousSeries{
		Name: tr.Name,
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("d3d3d3"),
			StrokeWidth:     2,
			StrokeDashArray: []float64{6, 4},
		},
		XValues: []float64{xMin, xMax},
		YValues: []float64{y, y},
	}
}

// bubbles plots one category. Dot radius follows Plotly's area sizing:
// diameter = sqrt(size/sizeref), at least sizemin.
func bubbles(tr types.Trace, col drawing.Color) (chart.ContinuousSeries, bool) {
	var xs, ys, radii []float64
	for i, x := range tr.X {
		if x <= 0 || i >= len(tr.Y) {
			continue
		}
		xs = append(xs, math.Log10(x))
		ys = append(ys, tr.Y[i].OrZero())
		radii = append(radii, dotRadius(tr.Marker, i))
	}
	if len(xs) == 0 {
		return chart.ContinuousSeries{}, false
	}
	return chart.ContinuousSeries{
		Name: tr.Name,
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotColor:    col.WithAlpha(180),
			DotWidth:    4,
			DotWidthProvider: func(_, _ chart.Range, index int, _, _ float64) float64 {
				return radii[index]
			},
		},
		XValues: xs,
		YValues: ys,
	}, true
}

func dotRadius(m *types.Marker, i int) float64 {
	if m == nil || i >= len(m.Size) || m.SizeRef <= 0 {
		return 2
	}
	d := math.Max(math.Sqrt(float64(m.Size[i])/m.SizeRef), m.SizeMin)
	return math.Min(d/2, maxDotRadius)
}
