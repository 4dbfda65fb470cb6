package frames

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/agegap/internal/domain/types"
)

func row(year int, sport, cat string, all, female, male int, fom float64, aoall types.Number) types.AggregateRow {
	return types.AggregateRow{
		Year: year, Sport: sport, Category: cat, Label: sport,
		All: all, Female: female, Male: male, FaM: female + male,
		FoM: fom, AoAll: aoall, Roster: "roster-" + sport,
	}
}

func toyRows() []types.AggregateRow {
	return []types.AggregateRow{
		row(2000, "Fencing", "", 0, 0, 0, -100, types.NaN()),
		row(2000, "Rowing", "Water", 2, 0, 1, 0.01, 50),
		row(2000, "Swimming", "Aquatics", 4, 2, 2, 1, 100),
		row(2004, "Fencing", "", 1, 1, 0, 100, 100),
		row(2004, "Rowing", "Water", 2, 1, 1, 1, 100),
		row(2004, "Swimming", "Aquatics", 10, 3, 5, 0.6, 80),
	}
}

func TestBuild(t *testing.T) {
	Convey("Given aggregate rows over two years", t, func() {
		years := []int{2000, 2004}
		fig := Build(toyRows(), years, Options{ShowText: true, Hosts: map[int]string{2000: "Sydney", 2004: "Athens"}})

		Convey("Then there should be one frame per year in order", func() {
			So(len(fig.Frames), ShouldEqual, 2)
			So(fig.Frames[0].Name, ShouldEqual, "2000")
			So(fig.Frames[1].Year, ShouldEqual, 2004)
		})

		Convey("Then each frame should hold the reference line plus one series per category", func() {
			f := fig.Frames[0]
			So(len(f.Data), ShouldEqual, 1+3)
			So(f.Data[0].Name, ShouldEqual, types.ReferenceTraceName)
			So(f.Data[1].Name, ShouldEqual, Uncategorized)
			So(f.Data[2].Name, ShouldEqual, "Water")
			So(f.Data[3].Name, ShouldEqual, "Aquatics")
		})

		Convey("Then the reference line should be the year's overall share", func() {
			ref := fig.Frames[0].Data[0]
			So(ref.X, ShouldResemble, []float64{0, 0.01, 1, 100, 150})
			So(len(ref.Y), ShouldEqual, 5)
			// (0+1+4) / (0+2+4)
			So(float64(ref.Y[0]), ShouldAlmostEqual, 5.0/6.0*100, 1e-9)
			So(ref.Text[0], ShouldStartWith, "<b>83.33%</b> of all medalists")
			// unset mode lets plotly draw lines and markers for a short series
			So(ref.Mode, ShouldBeEmpty)
			b, err := json.Marshal(ref)
			So(err, ShouldBeNil)
			So(string(b), ShouldNotContainSubstring, `"mode"`)

			So(float64(fig.Frames[1].Data[0].Y[4]), ShouldAlmostEqual, 11.0/13.0*100, 1e-9)
		})

		Convey("Then bubble sizes should share the global maximum", func() {
			for _, f := range fig.Frames {
				for _, tr := range f.Data[1:] {
					So(tr.Marker.SizeRef, ShouldEqual, 8.0/1000)
					So(tr.Marker.SizeMode, ShouldEqual, "area")
					So(tr.Marker.SizeMin, ShouldEqual, 1)
				}
			}
		})

		Convey("Then undefined AoAll should be plotted at zero", func() {
			fencing := fig.Frames[0].Data[1]
			So(fencing.X, ShouldResemble, []float64{-100})
			So(float64(fencing.Y[0]), ShouldEqual, 0)
			So(fencing.Marker.Size, ShouldResemble, []int{0})
			So(fencing.CustomData, ShouldResemble, []string{"roster-Fencing"})
		})

		Convey("Then labels should be shown when requested", func() {
			So(fig.Frames[1].Data[1].Mode, ShouldEqual, "markers+text")
			So(fig.Frames[1].Data[1].Text, ShouldResemble, []string{"Fencing"})
		})

		Convey("Then the default data should be the last frame", func() {
			So(len(fig.Data), ShouldEqual, len(fig.Frames[1].Data))
			So(fig.Data[3].Marker.Size, ShouldResemble, []int{8})
		})

		Convey("Then the layout should carry the slider and the balance zones", func() {
			l := fig.Layout
			So(l.XAxis.Type, ShouldEqual, "log")
			So(l.XAxis.Range, ShouldResemble, [2]float64{-2.1, 2.1})
			So(l.YAxis.Range, ShouldResemble, [2]float64{-10, 120})
			So(len(l.Shapes), ShouldEqual, 4)
			So(len(l.Annotations), ShouldEqual, 3)
			So(l.Sliders[0].Active, ShouldEqual, 1)
			So(l.Sliders[0].Steps[0].Label, ShouldEqual, "Sydney")
			So(l.Sliders[0].Transition.Duration, ShouldAlmostEqual, 1000, 1e-9)
			So(len(l.UpdateMenus[0].Buttons), ShouldEqual, 2)
		})

		Convey("Then the figure should serialize without NaN", func() {
			b, err := json.Marshal(fig)
			So(err, ShouldBeNil)
			So(string(b), ShouldNotContainSubstring, "NaN")
		})
	})

	Convey("Given labels turned off", t, func() {
		fig := Build(toyRows(), []int{2000, 2004}, Options{ShowText: false, FrameDuration: 1000})
		So(fig.Frames[0].Data[1].Mode, ShouldEqual, "markers")
		So(fig.Layout.Sliders[0].Transition.Duration, ShouldAlmostEqual, 400, 1e-9)
	})

	Convey("Given no medalists at all", t, func() {
		rows := []types.AggregateRow{row(2000, "Rowing", "Water", 0, 0, 0, -100, types.NaN())}
		fig := Build(rows, []int{2000}, Options{})

		Convey("Then sizeref should fall back to 1 and the share be undefined", func() {
			So(fig.Frames[0].Data[1].Marker.SizeRef, ShouldEqual, 1)
			So(fig.Frames[0].Data[0].Y[0].Valid(), ShouldBeFalse)
		})
	})

	Convey("Given no years", t, func() {
		fig := Build(nil, nil, Options{})
		So(len(fig.Frames), ShouldEqual, 0)
		So(fig.Data, ShouldBeNil)
		So(fig.Layout.Sliders[0].Active, ShouldEqual, 0)
	})
}
