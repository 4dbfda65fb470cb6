package model

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func sampleMedalists() []Medalist {
	return []Medalist{
		{Year: 2020, Sport: "Archery(射箭)", Player: "Ann", Gender: Female, Country: "Korea", Age: 19},
		{Year: 2016, Sport: "Rowing(赛艇)", Player: "Bob", Gender: Male, Country: "Germany", Age: 31, SportCategory: "Water"},
		{Year: 2020, Sport: "Rowing(赛艇)", Player: "Cid", Gender: Male, Country: "Australia", Age: 27, Meta: "Cid::27::Male::Australia"},
	}
}

func TestDataset(t *testing.T) {
	Convey("Given a dataset built from three medalists", t, func() {
		ds := NewDataset(sampleMedalists(),
			map[int]string{2016: "Rio de Janeiro", 2020: "Tokyo"},
			map[string]string{"Archery(射箭)": "Precision", "Rowing(赛艇)": "Water"})

		Convey("Then derived lists should be sorted and distinct", func() {
			So(ds.Len(), ShouldEqual, 3)
			So(ds.Years(), ShouldResemble, []int{2016, 2020})
			So(ds.Countries(), ShouldResemble, []string{"Australia", "Germany", "Korea"})
			So(ds.Sports(), ShouldResemble, []string{"Archery(射箭)", "Rowing(赛艇)"})
		})

		Convey("Then missing categories and roster strings should be filled", func() {
			ms := ds.Medalists()
			So(ms[0].SportCategory, ShouldEqual, "Precision")
			So(ms[0].Meta, ShouldEqual, "Ann::19::Female::Korea")
			So(ms[2].Meta, ShouldEqual, "Cid::27::Male::Australia")
		})

		Convey("Then lookups should tolerate unknown keys", func() {
			So(ds.HostCity(2020), ShouldEqual, "Tokyo")
			So(ds.HostCity(1900), ShouldEqual, "")
			_, ok := ds.Category("Curling")
			So(ok, ShouldBeFalse)
		})

		Convey("Then returned slices should not alias internal state", func() {
			years := ds.Years()
			years[0] = 1
			ms := ds.Medalists()
			ms[0].Player = "Mallory"
			hosts := ds.Hosts()
			hosts[2020] = "Paris"
			So(ds.Years()[0], ShouldEqual, 2016)
			So(ds.Medalists()[0].Player, ShouldEqual, "Ann")
			So(ds.HostCity(2020), ShouldEqual, "Tokyo")
		})

		Convey("Then Each should visit every record in load order", func() {
			var players []string
			ds.Each(func(m Medalist) { players = append(players, m.Player) })
			So(players, ShouldResemble, []string{"Ann", "Bob", "Cid"})
		})
	})
}

func TestRosterMeta(t *testing.T) {
	Convey("Given composite roster strings", t, func() {
		Convey("When composing and parsing", func() {
			meta := ComposeMeta("O'Brien", 33, Male, "Ireland")
			entry, ok := ParseMeta(meta)

			Convey("Then the fields should round trip", func() {
				So(meta, ShouldEqual, "O'Brien::33::Male::Ireland")
				So(ok, ShouldBeTrue)
				So(entry, ShouldResemble, RosterEntry{Player: "O'Brien", Age: "33", Gender: Male, Country: "Ireland"})
			})
		})

		Convey("When the string is malformed", func() {
			_, ok := ParseMeta("only::three::parts")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestColumns(t *testing.T) {
	Convey("Given a medalist", t, func() {
		m := Medalist{Year: 2008, Sport: "Judo", SportCategory: "Combat", Medal: "Gold", Player: "Kim",
			Gender: Female, Country: "Japan", Age: 24, DateOfBirth: "1984-03-01", SportDetails: "-63kg"}

		Convey("Then numeric columns should expose numbers", func() {
			v, ok := m.Number(ColAge)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 24)
			_, ok = m.Number(ColCountry)
			So(ok, ShouldBeFalse)
			So(IsNumericColumn(ColYear), ShouldBeTrue)
			So(IsNumericColumn(ColSport), ShouldBeFalse)
		})

		Convey("Then every display column should render as text", func() {
			for _, col := range DisplayColumns {
				_, ok := m.Text(col)
				So(ok, ShouldBeTrue)
				So(IsColumn(col), ShouldBeTrue)
			}
			_, ok := m.Text("Height")
			So(ok, ShouldBeFalse)
		})

		Convey("Then the table row should follow display order", func() {
			So(m.Row().Cells(), ShouldResemble, []string{
				"2008", "Combat", "Judo", "Gold", "Kim", "Female", "Japan", "24", "1984-03-01", "-63kg",
			})
		})
	})
}

func TestParseGender(t *testing.T) {
	Convey("Given raw gender cells", t, func() {
		So(ParseGender(" male "), ShouldEqual, Male)
		So(ParseGender("Women"), ShouldEqual, Female)
		So(ParseGender("F"), ShouldEqual, Female)
		So(ParseGender("Mixed"), ShouldEqual, Gender("Mixed"))
	})
}
