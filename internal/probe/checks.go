package probe

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	service "github.com/okian/agegap/internal/app"
	"github.com/okian/agegap/internal/domain/types"
)

// FoM sentinels as served by the API.
const (
	fomAbsent   = -100
	fomNoFemale = 0.01
	fomNoMale   = 100
)

// check is one named verification against the server.
type check struct {
	name string
	run  func(ctx context.Context) error
}

// environment is what the server reports about its data.
type environment struct {
	years     []int
	countries []string
	ages      struct {
		Min       int `json:"min"`
		Max       int `json:"max"`
		DefaultLo int `json:"default_lo"`
		DefaultHi int `json:"default_hi"`
	}
}

func discover(ctx context.Context, c *HTTPClient) (*environment, error) {
	env := &environment{}
	if err := c.GetJSON(ctx, "/api/years", &env.years); err != nil {
		return nil, err
	}
	if err := c.GetJSON(ctx, "/api/countries", &env.countries); err != nil {
		return nil, err
	}
	if err := c.GetJSON(ctx, "/api/age-range", &env.ages); err != nil {
		return nil, err
	}
	if len(env.years) == 0 {
		return nil, fmt.Errorf("server reports no years")
	}
	return env, nil
}

// selection is one age range and country subset.
type selection struct {
	lo, hi    int
	countries []string
}

func (s selection) query() string {
	q := url.Values{}
	q.Set("age_lo", strconv.Itoa(s.lo))
	q.Set("age_hi", strconv.Itoa(s.hi))
	for _, c := range s.countries {
		q.Add("countries", c)
	}
	return q.Encode()
}

func (s selection) String() string {
	return fmt.Sprintf("ages %d-%d countries %v", s.lo, s.hi, s.countries)
}

func randomSelections(env *environment, n int, seed uint64) []selection {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	span := env.ages.Max - env.ages.Min + 1
	named := env.countries[1:]

	out := make([]selection, 0, n)
	for range n {
		a := env.ages.Min + rng.IntN(span)
		b := env.ages.Min + rng.IntN(span)
		sel := selection{lo: min(a, b), hi: max(a, b)}
		if k := rng.IntN(4); k > 0 && len(named) > 0 {
			for range k {
				sel.countries = append(sel.countries, named[rng.IntN(len(named))])
			}
		}
		out = append(out, sel)
	}
	return out
}

func staticChecks(c *HTTPClient, env *environment) []check {
	return []check{
		{"years ascending", func(context.Context) error {
			if !slices.IsSorted(env.years) {
				return fmt.Errorf("years not ascending: %v", env.years)
			}
			return nil
		}},
		{"countries start with All", func(context.Context) error {
			if len(env.countries) == 0 || env.countries[0] != "All" {
				return fmt.Errorf("first country option is not All: %v", env.countries)
			}
			if !slices.IsSorted(env.countries[1:]) {
				return fmt.Errorf("countries not sorted")
			}
			return nil
		}},
		{"age range caption", func(ctx context.Context) error {
			var body struct {
				Label string `json:"label"`
			}
			path := fmt.Sprintf("/api/age-range?lo=%d&hi=%d", env.ages.Min, env.ages.Max)
			if err := c.GetJSON(ctx, path, &body); err != nil {
				return err
			}
			want := fmt.Sprintf("(%d-%d+) selected", env.ages.Min, env.ages.Max)
			if body.Label != want {
				return fmt.Errorf("label %q, want %q", body.Label, want)
			}
			return nil
		}},
		{"default figure has one frame per year", func(ctx context.Context) error {
			var fig types.Figure
			if err := c.GetJSON(ctx, "/api/figure", &fig); err != nil {
				return err
			}
			return checkFigure(fig, env.years)
		}},
		{"inverted age range is rejected", func(ctx context.Context) error {
			path := fmt.Sprintf("/api/figure?age_lo=%d&age_hi=%d", env.ages.Max, env.ages.Min)
			status, _, _, err := c.Get(ctx, path)
			if err != nil {
				return err
			}
			if status != http.StatusBadRequest {
				return fmt.Errorf("status %d, want 400", status)
			}
			return nil
		}},
		{"unparseable filter leaves the table unchanged", func(ctx context.Context) error {
			var all, junk service.TablePage
			if err := c.GetJSON(ctx, "/api/table", &all); err != nil {
				return err
			}
			if err := c.GetJSON(ctx, "/api/table?filter_query="+url.QueryEscape("no operator here"), &junk); err != nil {
				return err
			}
			if junk.Total != all.Total || len(junk.Report.Skipped) != 1 {
				return fmt.Errorf("total %d vs %d, skipped %d", junk.Total, all.Total, len(junk.Report.Skipped))
			}
			return nil
		}},
		{"numeric filter matches exactly one year", func(ctx context.Context) error {
			year := env.years[0]
			var page service.TablePage
			q := url.QueryEscape(fmt.Sprintf("{Year} eq %d", year))
			if err := c.GetJSON(ctx, "/api/table?page_size=500&filter_query="+q, &page); err != nil {
				return err
			}
			for _, r := range page.Rows {
				if r.Year != year {
					return fmt.Errorf("row of year %d in %d filter", r.Year, year)
				}
			}
			if page.Total == 0 {
				return fmt.Errorf("no rows for year %d", year)
			}
			return nil
		}},
		{"csv export matches the table total", func(ctx context.Context) error {
			var page service.TablePage
			if err := c.GetJSON(ctx, "/api/table", &page); err != nil {
				return err
			}
			status, _, body, err := c.Get(ctx, "/api/table/export?format=csv")
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("status %d", status)
			}
			records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
			if err != nil {
				return fmt.Errorf("parse csv: %w", err)
			}
			if len(records) != page.Total+1 {
				return fmt.Errorf("csv has %d records, want %d", len(records), page.Total+1)
			}
			return nil
		}},
		{"snapshot is a PNG", func(ctx context.Context) error {
			year := env.years[len(env.years)-1]
			status, hdr, body, err := c.Get(ctx, fmt.Sprintf("/api/frames/%d.png", year))
			if err != nil {
				return err
			}
			if status != http.StatusOK || hdr.Get("Content-Type") != "image/png" {
				return fmt.Errorf("status %d, content type %q", status, hdr.Get("Content-Type"))
			}
			if !bytes.HasPrefix(body, []byte("\x89PNG")) {
				return fmt.Errorf("body is not a PNG")
			}
			return nil
		}},
	}
}

// sampleCheck verifies the aggregate invariants of one selection against the
// widest age range for the same countries and against all countries.
func sampleCheck(c *HTTPClient, env *environment, sel selection) check {
	return check{name: "aggregate " + sel.String(), run: func(ctx context.Context) error {
		var rows, wide, everyone []types.AggregateRow
		if err := c.GetJSON(ctx, "/api/aggregate?"+sel.query(), &rows); err != nil {
			return err
		}
		wideSel := selection{lo: env.ages.Min, hi: env.ages.Max, countries: sel.countries}
		if err := c.GetJSON(ctx, "/api/aggregate?"+wideSel.query(), &wide); err != nil {
			return err
		}
		allSel := selection{lo: sel.lo, hi: sel.hi}
		if err := c.GetJSON(ctx, "/api/aggregate?"+allSel.query(), &everyone); err != nil {
			return err
		}

		for _, r := range rows {
			if err := checkRow(r); err != nil {
				return err
			}
		}
		if err := subset(rows, wide, "age range"); err != nil {
			return err
		}
		if err := subset(rows, everyone, "country set"); err != nil {
			return err
		}

		var fig types.Figure
		if err := c.GetJSON(ctx, "/api/figure?"+sel.query(), &fig); err != nil {
			return err
		}
		return checkFigure(fig, env.years)
	}}
}

func checkRow(r types.AggregateRow) error {
	key := fmt.Sprintf("%d/%s", r.Year, r.Sport)
	switch {
	case r.FaM != r.Female+r.Male:
		return fmt.Errorf("%s: FaM %v != Female %v + Male %v", key, r.FaM, r.Female, r.Male)
	case r.FaM > r.All:
		return fmt.Errorf("%s: FaM %v > All %v", key, r.FaM, r.All)
	case r.Female == 0 && r.Male == 0 && r.FoM != fomAbsent:
		return fmt.Errorf("%s: FoM %v, want %v", key, r.FoM, fomAbsent)
	case r.Female == 0 && r.Male > 0 && r.FoM != fomNoFemale:
		return fmt.Errorf("%s: FoM %v, want %v", key, r.FoM, fomNoFemale)
	case r.Female > 0 && r.Male == 0 && r.FoM != fomNoMale:
		return fmt.Errorf("%s: FoM %v, want %v", key, r.FoM, fomNoMale)
	case r.All == 0 && r.AoAll.Valid():
		return fmt.Errorf("%s: AoAll %v with no medalists", key, r.AoAll)
	case r.All > 0 && (!r.AoAll.Valid() || r.AoAll < 0 || r.AoAll > 100):
		return fmt.Errorf("%s: AoAll %v outside [0, 100]", key, r.AoAll)
	}
	return nil
}

// subset checks that every row of narrow is dominated by its wider counterpart.
func subset(narrow, wider []types.AggregateRow, what string) error {
	index := make(map[string]types.AggregateRow, len(wider))
	for _, r := range wider {
		index[strconv.Itoa(r.Year)+"/"+r.Sport] = r
	}
	for _, r := range narrow {
		key := strconv.Itoa(r.Year) + "/" + r.Sport
		w, ok := index[key]
		if !ok {
			if r.FaM > 0 {
				return fmt.Errorf("%s: row %s missing from the wider %s", what, key, what)
			}
			continue
		}
		if r.FaM > w.FaM || r.Female > w.Female || r.Male > w.Male {
			return fmt.Errorf("%s: row %s not contained in the wider %s", what, key, what)
		}
	}
	return nil
}

func checkFigure(fig types.Figure, years []int) error {
	if len(fig.Frames) != len(years) {
		return fmt.Errorf("%d frames for %d years", len(fig.Frames), len(years))
	}
	for i, f := range fig.Frames {
		if f.Name != strconv.Itoa(years[i]) {
			return fmt.Errorf("frame %d named %q, want %d", i, f.Name, years[i])
		}
		if len(f.Data) == 0 || f.Data[0].Name != types.ReferenceTraceName {
			return fmt.Errorf("frame %s does not start with the reference trace", f.Name)
		}
		for _, t := range f.Data[1:] {
			if strings.TrimSpace(t.Name) == "" {
				return fmt.Errorf("frame %s has an unnamed trace", f.Name)
			}
		}
	}
	return nil
}
