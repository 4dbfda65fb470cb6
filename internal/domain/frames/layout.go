package frames

import (
	"strconv"

	"github.com/okian/agegap/internal/domain/types"
)

// Balance zone bounds on the female/male ratio axis.
const (
	balanceLo = 0.2
	balanceHi = 5.0
	xMax      = 150.0

	transitionShare = 0.4
)

// Layout returns the static figure layout: log ratio axis, balance-zone
// shading, zone captions and the play/pause and year-slider controls.
func Layout(years []int, opts Options) types.Layout {
	duration := float64(opts.FrameDuration)
	if duration <= 0 {
		duration = DefaultFrameDuration
	}
	transition := transitionShare * duration

	return types.Layout{
		XAxis: types.Axis{
			Type:       "log",
			Range:      [2]float64{-2.1, 2.1},
			Title:      types.AxisTitle{Text: "Ratio of Female/Male within Selected Age Range", Standoff: 5},
			FixedRange: true,
		},
		YAxis: types.Axis{
			Range:      [2]float64{-10, 120},
			Title:      types.AxisTitle{Text: "% Among All Medalists"},
			FixedRange: true,
		},
		Legend:      types.Legend{Orientation: "h", YAnchor: "bottom", Y: 1, XAnchor: "left", X: 0, ItemSizing: "constant"},
		Margin:      types.Margin{L: 50, R: 50, T: 10, B: 10},
		Height:      500,
		HoverMode:   "closest",
		Template:    "none",
		Shapes:      shapes(),
		Annotations: annotations(),
		UpdateMenus: []types.UpdateMenu{playPause(duration, transition)},
		Sliders:     []types.Slider{yearSlider(years, opts.Hosts, duration, transition)},
	}
}

func shapes() []types.Shape {
	vrect := func(x0, x1 float64, color string) types.Shape {
		return types.Shape{
			Type: "rect", XRef: "x", YRef: "paper",
			X0: x0, X1: x1, Y0: 0, Y1: 1,
			FillColor: color, Opacity: 0.1,
			Line: types.Line{Width: 0},
		}
	}
	return []types.Shape{
		{
			Type: "line", XRef: "x", YRef: "paper",
			X0: 1, X1: 1, Y0: 0, Y1: 1,
			Opacity: 0.3,
			Line:    types.Line{Dash: "dot", Width: 2},
		},
		vrect(balanceLo, balanceHi, "green"),
		vrect(0, balanceLo, "steelblue"),
		vrect(balanceHi, xMax, "pink"),
	}
}

func annotations() []types.Annotation {
	return []types.Annotation{
		{Text: "Let's call this <br> Gender Balance Zone", X: 0, Y: 114},
		{Text: "Male-favored", X: -1.9, Y: 114},
		{Text: "Female-favored", X: 1.9, Y: 114},
	}
}

func playPause(duration, transition float64) types.UpdateMenu {
	return types.UpdateMenu{
		Type:      "buttons",
		Direction: "left",
		Buttons: []types.Button{
			{
				Label:  "Play",
				Method: "animate",
				Args: []any{nil, types.AnimationOptions{
					Frame:       types.FrameOptions{Duration: duration},
					FromCurrent: true,
					Transition:  types.Transition{Duration: transition, Easing: "quadratic-in-out"},
				}},
			},
			{
				Label:  "Pause",
				Method: "animate",
				Args: []any{[]any{nil}, types.AnimationOptions{
					Frame:      types.FrameOptions{Duration: 0},
					Mode:       "immediate",
					Transition: types.Transition{Duration: 0},
				}},
			},
		},
		Pad:     types.Pad{R: 10, T: 50},
		X:       0.1,
		XAnchor: "right",
		Y:       0,
		YAnchor: "top",
	}
}

func yearSlider(years []int, hosts map[int]string, duration, transition float64) types.Slider {
	s := types.Slider{
		Active:  len(years) - 1,
		YAnchor: "top",
		XAnchor: "left",
		CurrentValue: types.CurrentValue{
			Prefix: "Year: ", Visible: true, XAnchor: "right",
			Font: types.Font{Size: 20},
		},
		Transition: types.Transition{Duration: transition, Easing: "cubic-in-out"},
		Pad:        types.Pad{B: 20, T: 20},
		Len:        0.9,
		X:          0.1,
		Y:          0,
		Steps:      make([]types.SliderStep, 0, len(years)),
	}
	if s.Active < 0 {
		s.Active = 0
	}
	for _, y := range years {
		s.Steps = append(s.Steps, types.SliderStep{
			Label:  hosts[y],
			Method: "animate",
			Args: []any{[]string{strconv.Itoa(y)}, types.AnimationOptions{
				Frame:      types.FrameOptions{Duration: duration},
				Mode:       "afterall",
				Transition: types.Transition{Duration: transition},
			}},
		})
	}
	return s
}
