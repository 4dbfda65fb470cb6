package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/agegap/internal/adapters/export"
	"github.com/okian/agegap/internal/adapters/http/api"
	"github.com/okian/agegap/internal/adapters/render"
	"github.com/okian/agegap/internal/adapters/repository"
	service "github.com/okian/agegap/internal/app"
	"github.com/okian/agegap/internal/domain/aggregate"
	"github.com/okian/agegap/internal/domain/model"
	"github.com/okian/agegap/internal/domain/types"
	"github.com/okian/agegap/pkg/logger"
)

type memorySource struct{}

func (memorySource) Load(context.Context) (*model.Dataset, repository.Report, error) {
	medalists := []model.Medalist{
		{Year: 2000, Sport: "Swimming(游泳)", Player: "Ann", Gender: model.Female, Country: "United States", Age: 31},
		{Year: 2000, Sport: "Swimming(游泳)", Player: "Carl", Gender: model.Male, Country: "United Kingdom", Age: 33},
		{Year: 2004, Sport: "Rowing(赛艇)", Player: "Gia", Gender: model.Female, Country: "United States", Age: 30},
		{Year: 2004, Sport: "Rowing(赛艇)", Player: "Hal", Gender: model.Male, Country: "France", Age: 38},
	}
	data := model.NewDataset(medalists,
		map[int]string{2000: "Sydney", 2004: "Athens"},
		map[string]string{"Swimming(游泳)": "Aquatics", "Rowing(赛艇)": "Water"},
	)
	return data, repository.Report{MedalistsPath: "memory", Records: len(medalists)}, nil
}

// failingDeps answers every call with the configured error.
type failingDeps struct {
	err error
}

func (f failingDeps) Years() ([]int, error)             { return nil, f.err }
func (f failingDeps) Countries() ([]string, error)      { return nil, f.err }
func (f failingDeps) Hosts() (map[string]string, error) { return nil, f.err }
func (f failingDeps) AgeRange() service.AgeRange {
	return service.AgeRange{Min: 10, Max: 40, DefaultLo: 30, DefaultHi: 40}
}
func (f failingDeps) AgeRangeLabel(int, int) (string, error) { return "", f.err }
func (f failingDeps) ComputeFrames(context.Context, service.FigureRequest) (types.Figure, error) {
	return types.Figure{}, f.err
}
func (f failingDeps) Aggregate(context.Context, service.FigureRequest) ([]types.AggregateRow, error) {
	return nil, f.err
}
func (f failingDeps) Summary(context.Context, service.FigureRequest) ([]aggregate.YearSummary, error) {
	return nil, f.err
}
func (f failingDeps) Snapshot(context.Context, io.Writer, int, service.FigureRequest) error {
	return f.err
}
func (f failingDeps) ApplyFilter(context.Context, service.TableRequest) (service.TablePage, error) {
	return service.TablePage{}, f.err
}
func (f failingDeps) Export(context.Context, io.Writer, export.Format, service.TableRequest) error {
	return f.err
}
func (f failingDeps) ExportAggregates(context.Context, io.Writer, export.Format, service.FigureRequest) error {
	return f.err
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newMux(deps api.Dependencies, stats api.StatsProvider) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, stats, logger.Nop()).Register(context.Background(), mux)
	return mux
}

func newLiveMux() *http.ServeMux {
	svc := service.New(
		service.WithSource(memorySource{}),
		service.WithLogger(logger.Nop()),
		service.WithRenderer(render.New(render.WithSize(320, 200))),
	)
	So(svc.Start(context.Background()), ShouldBeNil)
	return newMux(svc, svc)
}

func get(mux http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newLiveMux()

		Convey("Then the health endpoint should serve metrics", func() {
			w := get(mux, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "agegap_dashboard")
		})

		Convey("And every response should carry a request id", func() {
			w := get(mux, "/api/years")
			So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)

			req := httptest.NewRequest(http.MethodGet, "/api/years", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
		})

		Convey("And unknown routes should 404", func() {
			So(get(mux, "/api/nope").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And a nil mux should panic", func() {
			So(func() {
				api.NewServer(failingDeps{}, &mockStatsProvider{}, nil).Register(context.Background(), nil)
			}, ShouldPanic)
		})
	})
}

func TestLookupEndpoints(t *testing.T) {
	Convey("Given a live API", t, func() {
		mux := newLiveMux()

		Convey("When listing years", func() {
			w := get(mux, "/api/years")
			var years []int
			So(json.Unmarshal(w.Body.Bytes(), &years), ShouldBeNil)
			So(years, ShouldResemble, []int{2000, 2004})
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
		})

		Convey("When listing countries", func() {
			var countries []string
			So(json.Unmarshal(get(mux, "/api/countries").Body.Bytes(), &countries), ShouldBeNil)
			So(countries[0], ShouldEqual, "All")
			So(len(countries), ShouldEqual, 4)
		})

		Convey("When listing hosts", func() {
			var hosts map[string]string
			So(json.Unmarshal(get(mux, "/api/hosts").Body.Bytes(), &hosts), ShouldBeNil)
			So(hosts["2000"], ShouldEqual, "Sydney")
		})

		Convey("When asking for the age range caption", func() {
			var body map[string]any
			So(json.Unmarshal(get(mux, "/api/age-range?lo=25&hi=40").Body.Bytes(), &body), ShouldBeNil)
			So(body["label"], ShouldEqual, "(25-40+) selected")

			So(json.Unmarshal(get(mux, "/api/age-range").Body.Bytes(), &body), ShouldBeNil)
			So(body["label"], ShouldEqual, "(30-40+) selected")

			w := get(mux, "/api/age-range?lo=abc")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestFigureEndpoints(t *testing.T) {
	Convey("Given a live API", t, func() {
		mux := newLiveMux()

		Convey("When requesting the figure", func() {
			w := get(mux, "/api/figure?age_lo=10&age_hi=40&countries=United%20States&countries=France")

			Convey("Then a frame per year should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var fig types.Figure
				So(json.Unmarshal(w.Body.Bytes(), &fig), ShouldBeNil)
				So(len(fig.Frames), ShouldEqual, 2)
				So(fig.Frames[0].Name, ShouldEqual, "2000")
			})
		})

		Convey("When the age range is inverted", func() {
			w := get(mux, "/api/figure?age_lo=35&age_hi=20")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w)["code"], ShouldEqual, "bad_request")
		})

		Convey("When show_text is not a boolean", func() {
			So(get(mux, "/api/figure?show_text=maybe").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When requesting aggregates", func() {
			w := get(mux, "/api/aggregate?age_lo=10&age_hi=40")
			So(w.Code, ShouldEqual, http.StatusOK)
			var rows []map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &rows), ShouldBeNil)
			So(len(rows), ShouldEqual, 4)
			So(rows[0], ShouldContainKey, "iDisplay")
		})

		Convey("When exporting aggregates as xlsx", func() {
			w := get(mux, "/api/aggregate/export?format=xlsx")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, "aggregates.xlsx")
			So(bytes.HasPrefix(w.Body.Bytes(), []byte("PK")), ShouldBeTrue)
		})

		Convey("When requesting the summary", func() {
			w := get(mux, "/api/summary?age_lo=10&age_hi=40")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"host":"Athens"`)
		})

		Convey("When requesting a PNG snapshot", func() {
			w := get(mux, "/api/frames/2004.png")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "image/png")
			So(bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")), ShouldBeTrue)
		})

		Convey("When requesting a snapshot of a missing year", func() {
			w := get(mux, "/api/frames/1900.png")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the snapshot year is not a number", func() {
			So(get(mux, "/api/frames/last.png").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestTableEndpoints(t *testing.T) {
	Convey("Given a live API", t, func() {
		mux := newLiveMux()

		Convey("When filtering the table", func() {
			w := get(mux, "/api/table?filter_query="+url.QueryEscape("{Age} ge 31 && junk")+"&page_size=1")

			Convey("Then the page and the report should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var page service.TablePage
				So(json.Unmarshal(w.Body.Bytes(), &page), ShouldBeNil)
				So(page.Total, ShouldEqual, 3)
				So(page.Pages, ShouldEqual, 3)
				So(page.Rows[0].Player, ShouldEqual, "Hal")
				So(page.Report.Applied, ShouldEqual, 1)
				So(len(page.Report.Skipped), ShouldEqual, 1)
			})
		})

		Convey("When the sort is invalid", func() {
			w := get(mux, "/api/table?sort_by=Nope")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the page is not a number", func() {
			So(get(mux, "/api/table?page=two").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When exporting as CSV", func() {
			w := get(mux, "/api/table/export?format=csv&sort_by=Player")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "text/csv")
			lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
			So(len(lines), ShouldEqual, 5)
			So(lines[0], ShouldStartWith, "Year,Sport_cat,Sport")
		})

		Convey("When the export format is unknown", func() {
			w := get(mux, "/api/table/export?format=pdf")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("op: %w", service.ErrBadRequest), http.StatusBadRequest, "bad_request"},
		{fmt.Errorf("op: %w: boom", service.ErrComputation), http.StatusUnprocessableEntity, "computation_failed"},
		{service.ErrNotStarted, http.StatusServiceUnavailable, "not_ready"},
		{errors.New("disk"), http.StatusInternalServerError, "internal_error"},
	}

	Convey("Given dependencies that fail", t, func() {
		for _, tc := range cases {
			mux := newMux(failingDeps{err: tc.err}, &mockStatsProvider{})

			for _, target := range []string{"/api/years", "/api/figure", "/api/table", "/api/frames/2000.png"} {
				w := get(mux, target)
				So(w.Code, ShouldEqual, tc.status)
				So(decodeError(w)["code"], ShouldEqual, tc.code)
			}
		}
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given a stats provider", t, func() {
		mux := newMux(failingDeps{}, &mockStatsProvider{stats: map[string]interface{}{"started": true, "records": 4}})

		Convey("When requesting stats", func() {
			w := get(mux, "/api/stats")

			Convey("Then the provider's map should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["started"], ShouldEqual, true)
				So(body["records"], ShouldEqual, 4.0)
			})
		})
	})
}
