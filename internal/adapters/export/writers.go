package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"
)

func writeCSV(w io.Writer, header []string, n int, row func(int) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(row(i)); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func writeXLSX(w io.Writer, sheet string, header []string, n int, row func(int) []any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	setRow := func(idx int, values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, idx)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &values)
	}
	titles := make([]any, len(header))
	for i, h := range header {
		titles[i] = h
	}
	if err := setRow(1, titles); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	for i := 0; i < n; i++ {
		if err := setRow(i+2, row(i)); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func writeParquet[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
