package types

// ReferenceTraceName names the per-frame reference line.
const ReferenceTraceName = "% of Age"

// Figure is a Plotly-compatible animated figure: one frame per year, the
// traces to draw before the animation starts, and the layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Frames []Frame `json:"frames"`
	Layout Layout  `json:"layout"`
}

// Frame returns the frame of a year.
func (f Figure) Frame(year int) (Frame, bool) {
	for _, fr := range f.Frames {
		if fr.Year == year {
			return fr, true
		}
	}
	return Frame{}, false
}

// Frame is one animation step.
type Frame struct {
	Name string  `json:"name"`
	Year int     `json:"-"`
	Data []Trace `json:"data"`
}

// Trace is a scatter series: either the reference line or one bubble series per category.
type Trace struct {
	Type          string    `json:"type"`
	Name          string    `json:"name"`
	Mode          string    `json:"mode,omitempty"`
	X             []float64 `json:"x"`
	Y             []Number  `json:"y"`
	Text          []string  `json:"text,omitempty"`
	CustomData    []string  `json:"customdata,omitempty"`
	TextPosition  string    `json:"textposition,omitempty"`
	TextFont      *Font     `json:"textfont,omitempty"`
	Marker        *Marker   `json:"marker,omitempty"`
	Line          *Line     `json:"line,omitempty"`
	HoverTemplate string    `json:"hovertemplate,omitempty"`
	ShowLegend    *bool     `json:"showlegend,omitempty"`
	Opacity       float64   `json:"opacity,omitempty"`
}

// Marker sizes bubbles by area.
type Marker struct {
	SizeMode string  `json:"sizemode"`
	Size     []int   `json:"size"`
	SizeRef  float64 `json:"sizeref"`
	SizeMin  float64 `json:"sizemin"`
}

// Line styles the reference trace.
type Line struct {
	Color string  `json:"color,omitempty"`
	Dash  string  `json:"dash,omitempty"`
	Width float64 `json:"width"`
}

// Font styles trace text.
type Font struct {
	Family string `json:"family,omitempty"`
	Size   int    `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
}
