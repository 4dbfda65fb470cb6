package repository

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readXLSX reads the first sheet of a workbook.
func readXLSX(path string) (parsedTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return parsedTable{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return parsedTable{}, fmt.Errorf("%w: %s has no sheets", ErrSchema, path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return parsedTable{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if len(rows) == 0 {
		return parsedTable{}, fmt.Errorf("%w: %s has no header row", ErrSchema, path)
	}

	p, err := newTableParser(rows[0])
	if err != nil {
		return parsedTable{}, err
	}
	for i, row := range rows[1:] {
		p.add(i+2, row)
	}
	return p.out, nil
}
