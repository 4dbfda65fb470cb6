// Package query implements the table filter language: clauses of the form
// "{Column} op value" joined by " && ", plus sorting and paging of the
// filtered rows.
package query

import (
	"strconv"
	"strings"
)

// Operator is a canonical filter operator.
type Operator string

// Supported operators.
const (
	OpGe             Operator = "ge"
	OpLe             Operator = "le"
	OpLt             Operator = "lt"
	OpGt             Operator = "gt"
	OpNe             Operator = "ne"
	OpEq             Operator = "eq"
	OpContains       Operator = "contains"
	OpDateStartsWith Operator = "datestartswith"
)

// ClauseSeparator joins clauses; only conjunction is supported.
const ClauseSeparator = " && "

// operatorTokens is checked in order; the first token contained in a clause wins.
var operatorTokens = []struct {
	op     Operator
	tokens []string
}{
	{OpGe, []string{"ge ", ">="}},
	{OpLe, []string{"le ", "<="}},
	{OpLt, []string{"lt ", "<"}},
	{OpGt, []string{"gt ", ">"}},
	{OpNe, []string{"ne ", "!="}},
	{OpEq, []string{"eq ", "="}},
	{OpContains, []string{"contains "}},
	{OpDateStartsWith, []string{"datestartswith "}},
}

// Value is a parsed clause value: a number when the unquoted text parses as
// a float, a string otherwise.
type Value struct {
	Raw     string
	Num     float64
	Numeric bool
}

// Clause is one parsed "{Column} op value" predicate. The zero Clause is the
// invalid clause.
type Clause struct {
	Column string
	Op     Operator
	Value  Value
	Source string
}

// Valid reports whether the clause parsed.
func (c Clause) Valid() bool { return c.Op != "" }

// Parse splits a query on " && " and parses every clause. Blank queries
// produce no clauses.
func Parse(q string) []Clause {
	if strings.TrimSpace(q) == "" {
		return nil
	}
	parts := strings.Split(q, ClauseSeparator)
	out := make([]Clause, 0, len(parts))
	for _, p := range parts {
		out = append(out, ParseClause(p))
	}
	return out
}

// ParseClause parses one clause. Text without a known operator, or with an
// empty value, yields the zero Clause.
func ParseClause(s string) Clause {
	for _, ot := range operatorTokens {
		for _, tok := range ot.tokens {
			i := strings.Index(s, tok)
			if i < 0 {
				continue
			}
			value, ok := parseValue(s[i+len(tok):])
			if !ok {
				return Clause{Source: s}
			}
			return Clause{Column: columnName(s[:i]), Op: ot.op, Value: value, Source: s}
		}
	}
	return Clause{Source: s}
}

// columnName takes the text between the first '{' and the last '}'. A
// missing '{' starts at the beginning; a missing '}' drops the last byte.
func columnName(part string) string {
	start := strings.IndexByte(part, '{') + 1
	end := strings.LastIndexByte(part, '}')
	if end < 0 {
		end += len(part)
	}
	if end <= start {
		return ""
	}
	return part[start:end]
}

func parseValue(part string) (Value, bool) {
	part = strings.TrimSpace(part)
	if part == "" {
		return Value{}, false
	}
	q := part[0]
	if (q == '\'' || q == '"' || q == '`') && part[len(part)-1] == q {
		inner := ""
		if len(part) > 1 {
			inner = part[1 : len(part)-1]
		}
		return Value{Raw: strings.ReplaceAll(inner, `\`+string(q), string(q))}, true
	}
	if f, err := strconv.ParseFloat(part, 64); err == nil {
		return Value{Raw: part, Num: f, Numeric: true}, true
	}
	return Value{Raw: part}, true
}
