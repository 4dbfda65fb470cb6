package query

import (
	"strings"

	"github.com/okian/agegap/internal/domain/model"
)

// Reasons a clause is skipped.
const (
	ReasonUnparsed      = "unparsed"
	ReasonUnknownColumn = "unknown column"
	ReasonTypeMismatch  = "type mismatch"
)

// Skipped describes a clause that did not restrict the table.
type Skipped struct {
	Clause string `json:"clause"`
	Reason string `json:"reason"`
}

// Report summarizes one Apply call.
type Report struct {
	Applied int       `json:"applied"`
	Skipped []Skipped `json:"skipped,omitempty"`
	Matched int       `json:"matched"`
}

// Apply filters medalists by every clause in turn. Clauses that cannot be
// applied leave the rows unchanged and are listed in the report. The input
// slice is never modified.
func Apply(medalists []model.Medalist, clauses []Clause) ([]model.Medalist, Report) {
	var rep Report
	rows := medalists
	for _, c := range clauses {
		pred, reason := predicate(c)
		if pred == nil {
			rep.Skipped = append(rep.Skipped, Skipped{Clause: c.Source, Reason: reason})
			continue
		}
		rep.Applied++
		kept := make([]model.Medalist, 0, len(rows))
		for _, m := range rows {
			if pred(m) {
				kept = append(kept, m)
			}
		}
		rows = kept
	}
	if rep.Applied == 0 {
		rows = append([]model.Medalist(nil), medalists...)
	}
	rep.Matched = len(rows)
	return rows, rep
}

type matcher func(model.Medalist) bool

func predicate(c Clause) (matcher, string) {
	if !c.Valid() {
		return nil, ReasonUnparsed
	}
	if !model.IsColumn(c.Column) {
		return nil, ReasonUnknownColumn
	}
	col := c.Column

	switch c.Op {
	case OpContains:
		needle := strings.ToLower(c.Value.Raw)
		return func(m model.Medalist) bool {
			s, _ := m.Text(col)
			return strings.Contains(strings.ToLower(s), needle)
		}, ""
	case OpDateStartsWith:
		prefix := c.Value.Raw
		return func(m model.Medalist) bool {
			s, _ := m.Text(col)
			return strings.HasPrefix(s, prefix)
		}, ""
	}

	numericCol := model.IsNumericColumn(col)
	switch {
	case numericCol && c.Value.Numeric:
		want := c.Value.Num
		return func(m model.Medalist) bool {
			v, _ := m.Number(col)
			return compare(c.Op, cmpFloat(v, want))
		}, ""
	case !numericCol && !c.Value.Numeric:
		want := c.Value.Raw
		return func(m model.Medalist) bool {
			v, _ := m.Text(col)
			return compare(c.Op, strings.Compare(v, want))
		}, ""
	}

	switch c.Op {
	case OpEq:
		return func(model.Medalist) bool { return false }, ""
	case OpNe:
		return func(model.Medalist) bool { return true }, ""
	default:
		return nil, ReasonTypeMismatch
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case a == b:
		return 0
	}
	// NaN compares unequal to everything
	return 2
}

func compare(op Operator, c int) bool {
	switch op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpLt:
		return c == -1
	case OpLe:
		return c == -1 || c == 0
	case OpGt:
		return c == 1
	case OpGe:
		return c == 1 || c == 0
	}
	return false
}
