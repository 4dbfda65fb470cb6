package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/agegap/internal/adapters/export"
	"github.com/okian/agegap/internal/domain/types"
)

func run(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	root := newRootCmd(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--data-dir", filepath.Join("..", "..", "data"), "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestAggregateCommand(t *testing.T) {
	Convey("Given the sample data", t, func() {
		Convey("When aggregate rows are printed as a table", func() {
			out, err := run("aggregate", "--year", "2008", "--age-lo", "10")

			Convey("Then only 2008 rows should be listed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "2008")
				So(out, ShouldNotContainSubstring, "2012")
				So(out, ShouldContainSubstring, "Swimming")
			})
		})

		Convey("When aggregate rows are exported as CSV", func() {
			out, err := run("aggregate", "--format", "csv", "--country", "Kenya")

			Convey("Then the header and rows should be written", func() {
				So(err, ShouldBeNil)
				lines := strings.Split(strings.TrimSpace(out), "\n")
				So(len(lines), ShouldBeGreaterThan, 1)
				So(lines[0], ShouldStartWith, "Year,")
			})
		})

		Convey("When an unknown format is given", func() {
			_, err := run("aggregate", "--format", "pdf")

			Convey("Then ErrUnknownFormat should be returned", func() {
				So(errors.Is(err, export.ErrUnknownFormat), ShouldBeTrue)
			})
		})
	})
}

func TestFilterCommand(t *testing.T) {
	Convey("Given the sample data", t, func() {
		Convey("When the table is filtered to CSV", func() {
			out, err := run("filter", "--query", "{Country} eq Kenya && {Age} ge 30", "--format", "csv")

			Convey("Then every match should be exported", func() {
				So(err, ShouldBeNil)
				lines := strings.Split(strings.TrimSpace(out), "\n")
				So(len(lines), ShouldEqual, 7)
				for _, l := range lines[1:] {
					So(l, ShouldContainSubstring, "Kenya")
				}
			})
		})

		Convey("When the table view gets an unusable clause", func() {
			out, err := run("filter", "--query", "{Country} eq Kenya && nonsense", "--page-size", "5")

			Convey("Then the page and the ignored clause should be reported", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "page 1/4, 16 rows")
				So(out, ShouldContainSubstring, `ignored "nonsense"`)
			})
		})
	})
}

func TestFramesAndSnapshotCommands(t *testing.T) {
	Convey("Given the sample data", t, func() {
		Convey("When the figure is written to stdout", func() {
			out, err := run("frames", "--age-lo", "20", "--age-hi", "35", "--no-text")

			Convey("Then it should decode with one frame per year", func() {
				So(err, ShouldBeNil)
				var fig types.Figure
				So(json.Unmarshal([]byte(out), &fig), ShouldBeNil)
				So(len(fig.Frames), ShouldEqual, 6)
				So(fig.Frames[0].Name, ShouldEqual, "1996")
			})
		})

		Convey("When a snapshot is rendered to a file", func() {
			path := filepath.Join(t.TempDir(), "2008.png")
			_, err := run("snapshot", "--year", "2008", "--out", path)

			Convey("Then a PNG should be written", func() {
				So(err, ShouldBeNil)
				b, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(string(b[:4]), ShouldEqual, "\x89PNG")
			})
		})

		Convey("When the snapshot year is missing", func() {
			_, err := run("snapshot", "--out", filepath.Join(t.TempDir(), "x.png"))

			Convey("Then the command should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestProbeCommand(t *testing.T) {
	Convey("Given a server that is down", t, func() {
		srv := httptest.NewServer(nil)
		url := srv.URL
		srv.Close()

		Convey("When probing it", func() {
			_, err := run("probe", "--url", url, "--timeout", "1s")

			Convey("Then the probe should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
