package repository

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/agegap/internal/domain/model"
)

// requiredColumns must be present in the header row.
var requiredColumns = []string{
	model.ColYear, model.ColSport, model.ColGender, model.ColCountry, model.ColAge, model.ColPlayer,
}

type parsedTable struct {
	medalists []model.Medalist
	// skippedRows holds 1-based line numbers of dropped rows.
	skippedRows []int
}

// tableParser maps the header row onto medalist fields.
type tableParser struct {
	index map[string]int
	out   parsedTable
}

func newTableParser(header []string) (*tableParser, error) {
	p := &tableParser{index: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := p.index[h]; !dup {
			p.index[h] = i
		}
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := p.index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrSchema, strings.Join(missing, ", "))
	}
	return p, nil
}

func (p *tableParser) cell(row []string, col string) string {
	i, ok := p.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// add parses one data row; line is its 1-based position in the file.
func (p *tableParser) add(line int, row []string) {
	year, okYear := parseInt(p.cell(row, model.ColYear))
	age, okAge := parseInt(p.cell(row, model.ColAge))
	if !okYear || !okAge {
		p.out.skippedRows = append(p.out.skippedRows, line)
		return
	}
	p.out.medalists = append(p.out.medalists, model.Medalist{
		Year:          year,
		Sport:         p.cell(row, model.ColSport),
		SportCategory: p.cell(row, model.ColSportCat),
		Medal:         p.cell(row, model.ColMedal),
		Player:        p.cell(row, model.ColPlayer),
		Gender:        model.ParseGender(p.cell(row, model.ColGender)),
		Country:       p.cell(row, model.ColCountry),
		Age:           age,
		DateOfBirth:   p.cell(row, model.ColDateOfBirth),
		SportDetails:  p.cell(row, model.ColSportDetails),
		Meta:          p.cell(row, model.ColMeta),
	})
}

// parseInt accepts integers and integral floats such as "24.0".
func parseInt(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
