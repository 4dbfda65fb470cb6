package model

import (
	"slices"
	"sort"
)

// AllCountries is the country-filter sentinel meaning "no restriction".
const AllCountries = "All"

// Dataset is the immutable reference data loaded once at process start:
// the medalist table plus the host-city and sport-category lookups.
// Every accessor returns copies, so callers can never mutate shared state.
type Dataset struct {
	medalists  []Medalist
	years      []int
	countries  []string
	sports     []string
	hosts      map[int]string
	categories map[string]string
}

// NewDataset takes ownership of copies of its inputs and derives the sorted
// year, country and sport lists. Medalists without a category get one from
// the lookup when available.
func NewDataset(medalists []Medalist, hosts map[int]string, categories map[string]string) *Dataset {
	d := &Dataset{
		medalists:  make([]Medalist, len(medalists)),
		hosts:      make(map[int]string, len(hosts)),
		categories: make(map[string]string, len(categories)),
	}
	for k, v := range hosts {
		d.hosts[k] = v
	}
	for k, v := range categories {
		d.categories[k] = v
	}

	years := make(map[int]struct{})
	countries := make(map[string]struct{})
	sports := make(map[string]struct{})
	for i, m := range medalists {
		if m.SportCategory == "" {
			m.SportCategory = d.categories[m.Sport]
		}
		if m.Meta == "" {
			m.Meta = ComposeMeta(m.Player, m.Age, m.Gender, m.Country)
		}
		d.medalists[i] = m
		years[m.Year] = struct{}{}
		countries[m.Country] = struct{}{}
		sports[m.Sport] = struct{}{}
	}

	d.years = sortedKeys(years, func(a, b int) bool { return a < b })
	d.countries = sortedKeys(countries, func(a, b string) bool { return a < b })
	d.sports = sortedKeys(sports, func(a, b string) bool { return a < b })
	return d
}

func sortedKeys[K comparable](set map[K]struct{}, less func(a, b K) bool) []K {
	out := make([]K, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Len returns the number of medalist records.
func (d *Dataset) Len() int { return len(d.medalists) }

// Medalists returns a copy of the medalist table in load order.
func (d *Dataset) Medalists() []Medalist { return slices.Clone(d.medalists) }

// Each calls fn for every medalist in load order without copying the table.
func (d *Dataset) Each(fn func(Medalist)) {
	for _, m := range d.medalists {
		fn(m)
	}
}

// Years returns the ascending distinct years.
func (d *Dataset) Years() []int { return slices.Clone(d.years) }

// Countries returns the sorted distinct countries.
func (d *Dataset) Countries() []string { return slices.Clone(d.countries) }

// Sports returns the sorted distinct sports.
func (d *Dataset) Sports() []string { return slices.Clone(d.sports) }

// HostCity returns the host-city label for a year, or "" when unknown.
func (d *Dataset) HostCity(year int) string { return d.hosts[year] }

// Hosts returns a copy of the year -> host city lookup.
func (d *Dataset) Hosts() map[int]string {
	out := make(map[int]string, len(d.hosts))
	for k, v := range d.hosts {
		out[k] = v
	}
	return out
}

// Category returns the category of a sport. ok is false for sports missing
// from the lookup.
func (d *Dataset) Category(sport string) (string, bool) {
	c, ok := d.categories[sport]
	return c, ok
}
