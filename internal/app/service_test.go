package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/agegap/internal/adapters/export"
	"github.com/okian/agegap/internal/adapters/render"
	"github.com/okian/agegap/internal/adapters/repository"
	"github.com/okian/agegap/internal/domain/aggregate"
	"github.com/okian/agegap/internal/domain/model"
	"github.com/okian/agegap/pkg/logger"
)

type memorySource struct {
	medalists []model.Medalist
	err       error
}

func (m memorySource) Load(context.Context) (*model.Dataset, repository.Report, error) {
	if m.err != nil {
		return nil, repository.Report{}, m.err
	}
	data := model.NewDataset(m.medalists,
		map[int]string{2000: "Sydney", 2004: "Athens"},
		map[string]string{"Swimming(游泳)": "Aquatics", "Rowing(赛艇)": "Water"},
	)
	return data, repository.Report{MedalistsPath: "memory", Records: len(m.medalists), Skipped: 1}, nil
}

func toyMedalists() []model.Medalist {
	mk := func(year int, sport, player string, g model.Gender, country string, age int) model.Medalist {
		return model.Medalist{Year: year, Sport: sport, Player: player, Gender: g, Country: country, Age: age}
	}
	return []model.Medalist{
		mk(2000, "Swimming(游泳)", "Ann", model.Female, "United States", 20),
		mk(2000, "Swimming(游泳)", "Carl", model.Male, "United Kingdom", 31),
		mk(2000, "Rowing(赛艇)", "Eli", model.Male, "United Kingdom", 33),
		mk(2004, "Swimming(游泳)", "Fay", model.Female, "United Kingdom", 35),
		mk(2004, "Rowing(赛艇)", "Gia", model.Female, "United States", 30),
		mk(2004, "Rowing(赛艇)", "Hal", model.Male, "United States", 38),
		mk(2004, "Fencing", "Ida", model.Female, "France", 45),
	}
}

func newStartedService(opts ...Option) *Service {
	opts = append([]Option{
		WithSource(memorySource{medalists: toyMedalists()}),
		WithLogger(logger.Nop()),
		WithAgeBounds(10, 40),
		WithDefaultAgeLo(30),
		WithPageSize(2, 3),
		WithRenderer(render.New(render.WithSize(320, 200))),
	}, opts...)
	s := New(opts...)
	So(s.Start(context.Background()), ShouldBeNil)
	return s
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		ctx := context.Background()

		Convey("When it has not been started", func() {
			s := New(WithLogger(logger.Nop()), WithSource(memorySource{medalists: toyMedalists()}))
			_, err := s.ComputeFrames(ctx, FigureRequest{})
			So(errors.Is(err, ErrNotStarted), ShouldBeTrue)
			_, err = s.Years()
			So(errors.Is(err, ErrNotStarted), ShouldBeTrue)
		})

		Convey("When the source fails", func() {
			boom := errors.New("disk on fire")
			s := New(WithLogger(logger.Nop()), WithSource(memorySource{err: boom}))
			err := s.Start(ctx)
			So(errors.Is(err, boom), ShouldBeTrue)
		})

		Convey("When started twice and stopped", func() {
			s := newStartedService()
			So(s.Start(ctx), ShouldBeNil)

			stats := s.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["records"], ShouldEqual, 7)
			So(stats["skippedRows"], ShouldEqual, 1)
			So(stats["firstYear"], ShouldEqual, 2000)

			s.Stop()
			So(s.GetStats()["started"], ShouldEqual, false)
		})
	})
}

func TestServiceLookups(t *testing.T) {
	Convey("Given a started service", t, func() {
		s := newStartedService()

		years, err := s.Years()
		So(err, ShouldBeNil)
		So(years, ShouldResemble, []int{2000, 2004})

		countries, err := s.Countries()
		So(err, ShouldBeNil)
		So(countries, ShouldResemble, []string{"All", "France", "United Kingdom", "United States"})

		hosts, err := s.Hosts()
		So(err, ShouldBeNil)
		So(hosts["2004"], ShouldEqual, "Athens")

		So(s.AgeRange(), ShouldResemble, AgeRange{Min: 10, Max: 40, DefaultLo: 30, DefaultHi: 40})

		label, err := s.AgeRangeLabel(30, 40)
		So(err, ShouldBeNil)
		So(label, ShouldEqual, "(30-40+) selected")

		_, err = s.AgeRangeLabel(5, 40)
		So(errors.Is(err, ErrBadRequest), ShouldBeTrue)

		// 0 in a request means "default", so it cannot be a slider bound
		So(New(WithAgeBounds(0, 30)).AgeRange(), ShouldResemble, AgeRange{Min: 10, Max: 40, DefaultLo: 30, DefaultHi: 40})
	})
}

func TestComputeFrames(t *testing.T) {
	Convey("Given a started service", t, func() {
		s := newStartedService()
		ctx := context.Background()

		Convey("When computing with defaults", func() {
			fig, err := s.ComputeFrames(ctx, FigureRequest{})

			Convey("Then one frame per year should be built", func() {
				So(err, ShouldBeNil)
				So(len(fig.Frames), ShouldEqual, 2)
				So(fig.Layout.Sliders[0].Steps[1].Label, ShouldEqual, "Athens")
				So(fig.Data[1].Mode, ShouldEqual, "markers+text")
			})
		})

		Convey("When labels are turned off", func() {
			off := false
			fig, err := s.ComputeFrames(ctx, FigureRequest{AgeLo: 10, AgeHi: 40, ShowText: &off})
			So(err, ShouldBeNil)
			So(fig.Data[1].Mode, ShouldEqual, "markers")
		})

		Convey("When the age range is inverted", func() {
			_, err := s.ComputeFrames(ctx, FigureRequest{AgeLo: 35, AgeHi: 20})
			So(errors.Is(err, ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, aggregate.ErrInvalidAgeRange), ShouldBeTrue)
		})

		Convey("When the age range leaves the slider bounds", func() {
			_, err := s.ComputeFrames(ctx, FigureRequest{AgeLo: 5, AgeHi: 20})
			So(errors.Is(err, ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, aggregate.ErrInvalidAgeRange), ShouldBeFalse)
		})

		Convey("When a country is blank", func() {
			_, err := s.ComputeFrames(ctx, FigureRequest{Countries: []string{""}})
			So(errors.Is(err, ErrBadRequest), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "countries[0] is required")
		})

		Convey("When computing aggregates for one country", func() {
			rows, err := s.Aggregate(ctx, FigureRequest{AgeLo: 10, AgeHi: 40, Countries: []string{"France"}})
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 2)
			So(rows[1].FoM, ShouldEqual, 100.0)
		})

		Convey("When summarizing", func() {
			sum, err := s.Summary(ctx, FigureRequest{AgeLo: 10, AgeHi: 40})
			So(err, ShouldBeNil)
			So(len(sum), ShouldEqual, 2)
			So(sum[1].Female.Count, ShouldEqual, 3)
		})
	})
}

func TestApplyFilter(t *testing.T) {
	Convey("Given a started service", t, func() {
		s := newStartedService()
		ctx := context.Background()

		Convey("When filtering with the default order", func() {
			page, err := s.ApplyFilter(ctx, TableRequest{FilterQuery: `{Country} contains "ited"`})

			Convey("Then matching rows should come back sorted by age descending", func() {
				So(err, ShouldBeNil)
				So(page.Total, ShouldEqual, 6)
				So(page.PageSize, ShouldEqual, 2)
				So(page.Pages, ShouldEqual, 3)
				So(page.Rows[0].Player, ShouldEqual, "Hal")
				So(page.Rows[1].Player, ShouldEqual, "Fay")
				So(page.Report.Applied, ShouldEqual, 1)
			})
		})

		Convey("When a garbage clause is combined with a valid one", func() {
			page, err := s.ApplyFilter(ctx, TableRequest{FilterQuery: "nonsense && {Age} ge 35", PageSize: 50})
			So(err, ShouldBeNil)
			So(page.PageSize, ShouldEqual, 3)
			So(page.Total, ShouldEqual, 3)
			So(len(page.Report.Skipped), ShouldEqual, 1)
		})

		Convey("When the sort key is invalid", func() {
			_, err := s.ApplyFilter(ctx, TableRequest{SortBy: "Shoe size"})
			So(errors.Is(err, ErrBadRequest), ShouldBeTrue)
		})

		Convey("When the page is negative", func() {
			_, err := s.ApplyFilter(ctx, TableRequest{Page: -1})
			So(errors.Is(err, ErrBadRequest), ShouldBeTrue)
		})

		Convey("When the page is far past the end", func() {
			page, err := s.ApplyFilter(ctx, TableRequest{Page: 1 << 62, PageSize: 2})

			Convey("Then an empty page should come back", func() {
				So(err, ShouldBeNil)
				So(page.Rows, ShouldBeEmpty)
				So(page.Total, ShouldEqual, 7)
				So(page.Pages, ShouldEqual, 4)
			})
		})
	})
}

func TestExportAndSnapshot(t *testing.T) {
	Convey("Given a started service", t, func() {
		s := newStartedService()
		ctx := context.Background()

		Convey("When exporting the filtered table as CSV", func() {
			var buf bytes.Buffer
			err := s.Export(ctx, &buf, export.CSV, TableRequest{FilterQuery: "{Year} eq 2000", SortBy: "Player"})
			So(err, ShouldBeNil)
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			So(len(lines), ShouldEqual, 4)
			So(lines[1], ShouldStartWith, "2000,Aquatics,Swimming(游泳),,Ann")
		})

		Convey("When exporting aggregates", func() {
			var buf bytes.Buffer
			So(s.ExportAggregates(ctx, &buf, export.CSV, FigureRequest{}), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "Rowing(赛艇)")
		})

		Convey("When rendering a snapshot", func() {
			var buf bytes.Buffer
			So(s.Snapshot(ctx, &buf, 2004, FigureRequest{AgeLo: 10, AgeHi: 40}), ShouldBeNil)
			So(bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")), ShouldBeTrue)
		})

		Convey("When rendering a year that does not exist", func() {
			err := s.Snapshot(ctx, &bytes.Buffer{}, 1896, FigureRequest{})
			So(errors.Is(err, render.ErrFrameNotFound), ShouldBeTrue)
		})
	})
}

func TestGuard(t *testing.T) {
	Convey("Given a computation that panics", t, func() {
		s := newStartedService()
		err := s.guard(context.Background(), "test.op", func() error { panic("index out of range") })

		Convey("Then it should surface as ErrComputation", func() {
			So(errors.Is(err, ErrComputation), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "test.op")
			So(s.GetStats()["computationFails"], ShouldEqual, int64(1))
		})
	})
}
