package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/okian/agegap/internal/domain/model"
)

// SortKey orders rows by one column.
type SortKey struct {
	Column string `json:"column"`
	Desc   bool   `json:"desc"`
}

// DefaultSort is the display order of the medalist table.
var DefaultSort = []SortKey{{Column: model.ColAge, Desc: true}}

// ParseSort parses "Column [asc|desc], Column [asc|desc]". An empty string
// yields DefaultSort.
func ParseSort(s string) ([]SortKey, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultSort, nil
	}
	var keys []SortKey
	for _, part := range strings.Split(s, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 || len(fields) > 2 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSort, part)
		}
		k := SortKey{Column: fields[0]}
		if !model.IsColumn(k.Column) {
			return nil, fmt.Errorf("%w: unknown column %q", ErrInvalidSort, k.Column)
		}
		if len(fields) == 2 {
			switch strings.ToLower(fields[1]) {
			case "asc":
			case "desc":
				k.Desc = true
			default:
				return nil, fmt.Errorf("%w: direction %q", ErrInvalidSort, fields[1])
			}
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Sort orders rows in place by the keys. The sort is stable, so rows that
// compare equal keep their load order.
func Sort(rows []model.Medalist, keys []SortKey) {
	slices.SortStableFunc(rows, func(a, b model.Medalist) int {
		for _, k := range keys {
			var c int
			if model.IsNumericColumn(k.Column) {
				x, _ := a.Number(k.Column)
				y, _ := b.Number(k.Column)
				c = cmp.Compare(x, y)
			} else {
				x, _ := a.Text(k.Column)
				y, _ := b.Text(k.Column)
				c = strings.Compare(x, y)
			}
			if k.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}

// Page is one page of rows.
type Page struct {
	Rows     []model.Medalist
	Page     int
	PageSize int
	Total    int
	Pages    int
}

// Paginate returns the zero-based page of rows. Pages past the end are empty.
func Paginate(rows []model.Medalist, page, size int) Page {
	p := Page{Page: max(page, 0), PageSize: size, Total: len(rows)}
	if size <= 0 {
		p.Rows = rows
		p.Pages = 1
		return p
	}
	if len(rows) > 0 {
		p.Pages = (len(rows)-1)/size + 1
	}
	// compare pages before multiplying so a huge page cannot overflow
	if p.Page >= p.Pages {
		p.Rows = []model.Medalist{}
		return p
	}
	start := p.Page * size
	p.Rows = rows[start:min(start+size, len(rows))]
	return p
}
