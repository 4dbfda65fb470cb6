// Package frames builds the animated bubble-chart figure from aggregate rows:
// one frame per year, each with a reference line and one bubble series per
// sport category.
package frames

import (
	"fmt"
	"strconv"

	"github.com/montanaflynn/stats"

	"github.com/okian/agegap/internal/domain/types"
)

const (
	// DefaultFrameDuration is the animation frame duration in milliseconds.
	DefaultFrameDuration = 2500
	// Uncategorized names the series of sports missing from the category lookup.
	Uncategorized = "Uncategorized"

	sizeRefScale = 1e3
	bubbleHover  = "<b>%{text}</b>" +
		"<br><br><b>Size</b>(# of medalists within this age group):%{marker.size} (Female+Male)" +
		"<br><b>Y</b>(% of this age group of all):%{y}%" +
		"<br><b>X</b>(ratio of female over male): %{x:.2f}" +
		"<br><br> %{customdata}<br>"
)

// referenceX spans the whole log x-domain.
var referenceX = []float64{0, 0.01, 1, 100, 150}

// Options controls figure construction.
type Options struct {
	// ShowText draws the sport label on each bubble.
	ShowText bool
	// FrameDuration in milliseconds; 0 means DefaultFrameDuration.
	FrameDuration int
	// Hosts labels the slider steps by year.
	Hosts map[int]string
}

// Build turns multi-year aggregate rows into an animated figure. Frames are
// ordered as years; bubble sizes share one reference across all frames.
func Build(rows []types.AggregateRow, years []int, opts Options) types.Figure {
	if opts.FrameDuration <= 0 {
		opts.FrameDuration = DefaultFrameDuration
	}
	sizeRef := globalSizeRef(rows)

	byYear := make(map[int][]types.AggregateRow, len(years))
	for _, r := range rows {
		byYear[r.Year] = append(byYear[r.Year], r)
	}

	fig := types.Figure{Frames: make([]types.Frame, 0, len(years))}
	for _, y := range years {
		yearRows := byYear[y]
		data := []types.Trace{referenceTrace(ReferenceShare(yearRows))}
		for _, cat := range categories(yearRows) {
			data = append(data, bubbleTrace(cat, yearRows, sizeRef, opts.ShowText))
		}
		fig.Frames = append(fig.Frames, types.Frame{Name: strconv.Itoa(y), Year: y, Data: data})
	}
	if n := len(fig.Frames); n > 0 {
		fig.Data = fig.Frames[n-1].Data
	}
	fig.Layout = Layout(years, opts)
	return fig
}

// ReferenceShare returns 100·ΣFaM/ΣAll over the rows of one year, NaN when
// nobody medalled that year.
func ReferenceShare(rows []types.AggregateRow) types.Number {
	fam := make([]float64, len(rows))
	all := make([]float64, len(rows))
	for i, r := range rows {
		fam[i] = float64(r.FaM)
		all[i] = float64(r.All)
	}
	sumFaM, err := stats.Sum(fam)
	if err != nil {
		return types.NaN()
	}
	sumAll, err := stats.Sum(all)
	if err != nil || sumAll == 0 {
		return types.NaN()
	}
	return types.Number(sumFaM / sumAll * 100)
}

func globalSizeRef(rows []types.AggregateRow) float64 {
	maxFaM := 0
	for _, r := range rows {
		maxFaM = max(maxFaM, r.FaM)
	}
	if maxFaM == 0 {
		return 1
	}
	return float64(maxFaM) / sizeRefScale
}

// categories lists the series names of one year in first-appearance order.
func categories(rows []types.AggregateRow) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		c := seriesName(r)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func seriesName(r types.AggregateRow) string {
	if r.Category == "" {
		return Uncategorized
	}
	return r.Category
}

func referenceTrace(share types.Number) types.Trace {
	hover := fmt.Sprintf("<b>%.2f%%</b> of all medalists at that olympic (all sports aggregated)<br> fell in this age range",
		share.OrZero())
	t := types.Trace{
		Type:          "scatter",
		Name:          types.ReferenceTraceName,
		X:             referenceX,
		Y:             make([]types.Number, len(referenceX)),
		Text:          make([]string, len(referenceX)),
		TextPosition:  "middle right",
		Line:          &types.Line{Color: "lightgrey", Dash: "dash", Width: 2},
		HoverTemplate: "%{text}",
		ShowLegend:    new(bool),
		Opacity:       0.5,
	}
	for i := range referenceX {
		t.Y[i] = share
		t.Text[i] = hover
	}
	return t
}

func bubbleTrace(cat string, rows []types.AggregateRow, sizeRef float64, showText bool) types.Trace {
	mode := "markers"
	if showText {
		mode = "markers+text"
	}
	t := types.Trace{
		Type:          "scatter",
		Name:          cat,
		Mode:          mode,
		TextPosition:  "middle center",
		TextFont:      &types.Font{Family: "sans serif", Size: 10, Color: "grey"},
		Marker:        &types.Marker{SizeMode: "area", SizeRef: sizeRef, SizeMin: 1},
		HoverTemplate: bubbleHover,
	}
	for _, r := range rows {
		if seriesName(r) != cat {
			continue
		}
		t.X = append(t.X, r.FoM)
		t.Y = append(t.Y, types.Number(r.AoAll.OrZero()))
		t.Text = append(t.Text, r.Label)
		t.CustomData = append(t.CustomData, r.Roster)
		t.Marker.Size = append(t.Marker.Size, r.FaM)
	}
	return t
}
