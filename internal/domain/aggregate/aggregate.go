// Package aggregate turns the medalist table into per-sport, per-year age and
// gender aggregates for one filter invocation.
package aggregate

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/okian/agegap/internal/domain/model"
	"github.com/okian/agegap/internal/domain/types"
)

// Default aggregation configuration constants.
const (
	defaultAgeMax         = 40
	defaultRosterLineStep = 6
	unboundedAge          = math.MaxInt
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithAgeMax sets the age that is treated as "and older" when used as the upper bound.
func WithAgeMax(age int) Option {
	return func(a *Aggregator) {
		if age > 0 {
			a.ageMax = age
		}
	}
}

// WithRosterLineStep sets how many roster entries fit on one line.
func WithRosterLineStep(step int) Option {
	return func(a *Aggregator) {
		if step > 0 {
			a.rosterStep = step
		}
	}
}

// Params selects the slice of the medalist table to aggregate.
type Params struct {
	AgeLo int
	// AgeHi equal to the configured age max means no upper bound.
	AgeHi int
	// Countries restricts the table; empty or ["All"] means every country.
	Countries []string
}

// Validate checks the age range.
func (p Params) Validate() error {
	if p.AgeLo < 0 || p.AgeHi < p.AgeLo {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidAgeRange, p.AgeLo, p.AgeHi)
	}
	return nil
}

// AllCountries reports whether the country filter is a no-op: no countries,
// or exactly the "All" sentinel. "All" next to real countries restricts to those.
func (p Params) AllCountries() bool {
	return len(p.Countries) == 0 || (len(p.Countries) == 1 && p.Countries[0] == model.AllCountries)
}

// Aggregator computes aggregate rows over an immutable dataset. It holds no
// mutable state and is safe for concurrent use.
type Aggregator struct {
	data       *model.Dataset
	ageMax     int
	rosterStep int
}

// New creates an Aggregator for a dataset.
func New(data *model.Dataset, opts ...Option) *Aggregator {
	a := &Aggregator{
		data:       data,
		ageMax:     defaultAgeMax,
		rosterStep: defaultRosterLineStep,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AgeMax returns the configured open-ended upper age.
func (a *Aggregator) AgeMax() int { return a.ageMax }

// sportTally accumulates the counts of one sport in one year.
type sportTally struct {
	ever   map[int]struct{}
	all    int
	male   int
	female int
	meta   []string
}

// Year aggregates one year. Every sport that occurs in the country-filtered
// table in any year gets a row, with zero counts when it is absent from the
// target year. Rows are sorted by sport.
func (a *Aggregator) Year(year int, p Params) []types.AggregateRow {
	lo, hi := a.bounds(p)
	allow := countrySet(p)

	tallies := make(map[string]*sportTally)
	a.data.Each(func(m model.Medalist) {
		if allow != nil {
			if _, ok := allow[m.Country]; !ok {
				return
			}
		}
		t, ok := tallies[m.Sport]
		if !ok {
			t = &sportTally{ever: make(map[int]struct{})}
			tallies[m.Sport] = t
		}
		t.ever[m.Year] = struct{}{}
		if m.Year != year {
			return
		}
		t.all++
		if m.Age < lo || m.Age > hi {
			return
		}
		switch m.Gender {
		case model.Male:
			t.male++
		case model.Female:
			t.female++
		}
		t.meta = append(t.meta, m.Meta)
	})

	sports := make([]string, 0, len(tallies))
	for s := range tallies {
		sports = append(sports, s)
	}
	sort.Strings(sports)

	rows := make([]types.AggregateRow, 0, len(sports))
	for _, s := range sports {
		t := tallies[s]
		fam := t.female + t.male
		rows = append(rows, types.AggregateRow{
			Year:              year,
			Sport:             s,
			YearsOfOccurrence: sortedYears(t.ever),
			All:               t.all,
			Male:              t.male,
			Female:            t.female,
			FaM:               fam,
			FoM:               FemaleOverMale(t.female, t.male),
			AoAll:             ShareOfAll(fam, t.all),
			Meta:              t.meta,
			Roster:            FormatRoster(t.meta, a.rosterStep),
		})
	}
	return rows
}

// Years runs Year for every year in order, concatenates the results and
// attaches the sport category and display label.
func (a *Aggregator) Years(years []int, p Params) []types.AggregateRow {
	var out []types.AggregateRow
	for _, y := range years {
		out = append(out, a.Year(y, p)...)
	}
	for i := range out {
		out[i].Category, _ = a.data.Category(out[i].Sport)
		out[i].Label = DisplayLabel(out[i].Sport)
	}
	return out
}

func (a *Aggregator) bounds(p Params) (int, int) {
	if p.AgeHi == a.ageMax {
		return p.AgeLo, unboundedAge
	}
	return p.AgeLo, p.AgeHi
}

func countrySet(p Params) map[string]struct{} {
	if p.AllCountries() {
		return nil
	}
	set := make(map[string]struct{}, len(p.Countries))
	for _, c := range p.Countries {
		set[c] = struct{}{}
	}
	return set
}

func sortedYears(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for y := range set {
		out = append(out, y)
	}
	slices.Sort(out)
	return out
}
