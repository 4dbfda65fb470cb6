package types

// Layout is the static part of the figure: axes, balance-zone shapes,
// annotations and the animation controls.
type Layout struct {
	XAxis       Axis         `json:"xaxis"`
	YAxis       Axis         `json:"yaxis"`
	Legend      Legend       `json:"legend"`
	Margin      Margin       `json:"margin"`
	Height      int          `json:"height"`
	HoverMode   string       `json:"hovermode"`
	Template    string       `json:"template"`
	Shapes      []Shape      `json:"shapes"`
	Annotations []Annotation `json:"annotations"`
	UpdateMenus []UpdateMenu `json:"updatemenus"`
	Sliders     []Slider     `json:"sliders"`
}

// Axis describes one axis. Ranges of log axes are in log10 units.
type Axis struct {
	Type       string     `json:"type,omitempty"`
	Range      [2]float64 `json:"range"`
	Title      AxisTitle  `json:"title"`
	FixedRange bool       `json:"fixedrange"`
}

// AxisTitle is an axis caption.
type AxisTitle struct {
	Text     string `json:"text"`
	Standoff int    `json:"standoff,omitempty"`
}

// Legend places the category legend.
type Legend struct {
	Orientation string  `json:"orientation"`
	YAnchor     string  `json:"yanchor"`
	Y           float64 `json:"y"`
	XAnchor     string  `json:"xanchor"`
	X           float64 `json:"x"`
	ItemSizing  string  `json:"itemsizing"`
}

// Margin in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Shape is a vertical line or shaded band in data coordinates.
type Shape struct {
	Type      string  `json:"type"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	X0        float64 `json:"x0"`
	X1        float64 `json:"x1"`
	Y0        float64 `json:"y0"`
	Y1        float64 `json:"y1"`
	FillColor string  `json:"fillcolor,omitempty"`
	Opacity   float64 `json:"opacity"`
	Line      Line    `json:"line"`
}

// Annotation is a text label placed in data coordinates.
type Annotation struct {
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ShowArrow bool    `json:"showarrow"`
}

// UpdateMenu holds the play/pause buttons.
type UpdateMenu struct {
	Type       string   `json:"type"`
	Direction  string   `json:"direction"`
	ShowActive bool     `json:"showactive"`
	Buttons    []Button `json:"buttons"`
	Pad        Pad      `json:"pad"`
	X          float64  `json:"x"`
	XAnchor    string   `json:"xanchor"`
	Y          float64  `json:"y"`
	YAnchor    string   `json:"yanchor"`
}

// Button triggers an animate call. Args follow Plotly.animate's positional form.
type Button struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// Pad is padding in pixels.
type Pad struct {
	T int `json:"t,omitempty"`
	B int `json:"b,omitempty"`
	R int `json:"r,omitempty"`
}

// Slider selects a frame by year.
type Slider struct {
	Active       int          `json:"active"`
	YAnchor      string       `json:"yanchor"`
	XAnchor      string       `json:"xanchor"`
	CurrentValue CurrentValue `json:"currentvalue"`
	Transition   Transition   `json:"transition"`
	Pad          Pad          `json:"pad"`
	Len          float64      `json:"len"`
	X            float64      `json:"x"`
	Y            float64      `json:"y"`
	Steps        []SliderStep `json:"steps"`
}

// CurrentValue is the slider caption.
type CurrentValue struct {
	Prefix  string `json:"prefix"`
	Visible bool   `json:"visible"`
	XAnchor string `json:"xanchor"`
	Font    Font   `json:"font"`
}

// SliderStep animates to one frame; its label is the host city.
type SliderStep struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// AnimationOptions is the second argument of Plotly.animate.
type AnimationOptions struct {
	Frame       FrameOptions `json:"frame"`
	Mode        string       `json:"mode,omitempty"`
	FromCurrent bool         `json:"fromcurrent,omitempty"`
	Transition  Transition   `json:"transition"`
}

// FrameOptions controls frame timing.
type FrameOptions struct {
	Duration float64 `json:"duration"`
	Redraw   bool    `json:"redraw"`
}

// Transition controls tweening between frames.
type Transition struct {
	Duration float64 `json:"duration"`
	Easing   string  `json:"easing,omitempty"`
}
