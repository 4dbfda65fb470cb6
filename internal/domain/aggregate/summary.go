package aggregate

import (
	"github.com/montanaflynn/stats"

	"github.com/okian/agegap/internal/domain/model"
	"github.com/okian/agegap/internal/domain/types"
)

// AgeStats describes the ages of one gender in one year.
type AgeStats struct {
	Count  int          `json:"count"`
	Mean   types.Number `json:"mean"`
	Median types.Number `json:"median"`
	Min    types.Number `json:"min"`
	Max    types.Number `json:"max"`
}

// YearSummary is the age profile of the medalists of one year within the filter.
type YearSummary struct {
	Year   int      `json:"year"`
	Host   string   `json:"host"`
	Female AgeStats `json:"female"`
	Male   AgeStats `json:"male"`
}

// Summary computes per-year age statistics by gender for the medalists that
// pass the country filter and the age range.
func (a *Aggregator) Summary(years []int, p Params) []YearSummary {
	lo, hi := a.bounds(p)
	allow := countrySet(p)

	female := make(map[int][]float64)
	male := make(map[int][]float64)
	a.data.Each(func(m model.Medalist) {
		if allow != nil {
			if _, ok := allow[m.Country]; !ok {
				return
			}
		}
		if m.Age < lo || m.Age > hi {
			return
		}
		switch m.Gender {
		case model.Male:
			male[m.Year] = append(male[m.Year], float64(m.Age))
		case model.Female:
			female[m.Year] = append(female[m.Year], float64(m.Age))
		}
	})

	out := make([]YearSummary, 0, len(years))
	for _, y := range years {
		out = append(out, YearSummary{
			Year:   y,
			Host:   a.data.HostCity(y),
			Female: describe(female[y]),
			Male:   describe(male[y]),
		})
	}
	return out
}

func describe(ages []float64) AgeStats {
	s := AgeStats{Count: len(ages), Mean: types.NaN(), Median: types.NaN(), Min: types.NaN(), Max: types.NaN()}
	if len(ages) == 0 {
		return s
	}
	if v, err := stats.Mean(ages); err == nil {
		s.Mean = types.Number(round2(v))
	}
	if v, err := stats.Median(ages); err == nil {
		s.Median = types.Number(v)
	}
	if v, err := stats.Min(ages); err == nil {
		s.Min = types.Number(v)
	}
	if v, err := stats.Max(ages); err == nil {
		s.Max = types.Number(v)
	}
	return s
}
