package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

func readCSV(path string) (parsedTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return parsedTable{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()
	return parseCSV(f)
}

func parseCSV(r io.Reader) (parsedTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return parsedTable{}, fmt.Errorf("%w: read header: %w", ErrSchema, err)
	}
	p, err := newTableParser(header)
	if err != nil {
		return parsedTable{}, err
	}

	line := 1
	for {
		row, err := reader.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return parsedTable{}, fmt.Errorf("%w: line %d: %w", ErrLoad, line, err)
		}
		p.add(line, row)
	}
	return p.out, nil
}
