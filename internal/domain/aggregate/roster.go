package aggregate

import (
	"strings"

	"github.com/okian/agegap/internal/domain/model"
)

// rosterBreak is inserted after every full line of roster entries.
const rosterBreak = "<br>&nbsp;&nbsp;"

// countryRoster keeps entries grouped by country in first-appearance order.
type countryRoster struct {
	order   []string
	players map[string][]string
}

func newCountryRoster() *countryRoster {
	return &countryRoster{players: make(map[string][]string)}
}

func (r *countryRoster) add(country, entry string) {
	if _, ok := r.players[country]; !ok {
		r.order = append(r.order, country)
	}
	r.players[country] = append(r.players[country], entry)
}

func (r *countryRoster) format(step int) string {
	var b strings.Builder
	for _, c := range r.order {
		b.WriteString(c)
		b.WriteString(": ")
		b.WriteString(strings.Join(withBreaks(r.players[c], step), " ,"))
		b.WriteString("<br>")
	}
	return b.String()
}

// withBreaks appends a break element after every step entries, including
// after the last entry when the count is a multiple of step.
func withBreaks(entries []string, step int) []string {
	out := make([]string, 0, len(entries)+len(entries)/step)
	for i, e := range entries {
		out = append(out, e)
		if (i+1)%step == 0 {
			out = append(out, rosterBreak)
		}
	}
	return out
}

// FormatRoster renders composite roster strings as a Females block followed
// by a Males block, each listing "Country: name(age) ,name(age)" lines.
// Malformed entries are ignored.
func FormatRoster(metas []string, step int) string {
	if step <= 0 {
		step = defaultRosterLineStep
	}
	males, females := newCountryRoster(), newCountryRoster()
	for _, meta := range metas {
		e, ok := model.ParseMeta(meta)
		if !ok {
			continue
		}
		r := females
		if e.Gender == model.Male {
			r = males
		}
		r.add(e.Country, e.Player+"("+e.Age+")")
	}
	return "<br><b>Females</b>:<br>" + females.format(step) + "<br><b>Males</b>:<br>" + males.format(step)
}
