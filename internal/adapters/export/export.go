// Package export writes table and aggregate rows as CSV, XLSX or Parquet.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/agegap/internal/domain/model"
	"github.com/okian/agegap/internal/domain/types"
)

// Format is an export file format.
type Format string

// Supported formats.
const (
	CSV     Format = "csv"
	XLSX    Format = "xlsx"
	Parquet Format = "parquet"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, XLSX, Parquet:
		return f, nil
	case "":
		return CSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case Parquet:
		return "application/vnd.apache.parquet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// FileName returns base with the format's extension.
func (f Format) FileName(base string) string {
	return base + "." + string(f)
}

// AggregateRecord is the flat, file-friendly shape of an aggregate row.
type AggregateRecord struct {
	Year     int64    `parquet:"year,snappy"`
	Sport    string   `parquet:"sport,snappy"`
	Category string   `parquet:"sport_cat,snappy"`
	All      int64    `parquet:"all,snappy"`
	Male     int64    `parquet:"male,snappy"`
	Female   int64    `parquet:"female,snappy"`
	FaM      int64    `parquet:"fam,snappy"`
	FoM      float64  `parquet:"fom,snappy"`
	AoAll    *float64 `parquet:"aoall,optional,snappy"`
	Years    string   `parquet:"years_of_occurrence,snappy"`
}

// aggregateHeader matches AggregateRecord.cells.
var aggregateHeader = []string{
	"Year", "Sport", "Sport_cat", "All", "Male", "Female", "FaM", "FoM", "AoAll", "YearsofOccurance",
}

// NewAggregateRecords flattens aggregate rows.
func NewAggregateRecords(rows []types.AggregateRow) []AggregateRecord {
	out := make([]AggregateRecord, 0, len(rows))
	for _, r := range rows {
		rec := AggregateRecord{
			Year: int64(r.Year), Sport: r.Sport, Category: r.Category,
			All: int64(r.All), Male: int64(r.Male), Female: int64(r.Female), FaM: int64(r.FaM),
			FoM: r.FoM, Years: joinYears(r.YearsOfOccurrence),
		}
		if r.AoAll.Valid() {
			v := float64(r.AoAll)
			rec.AoAll = &v
		}
		out = append(out, rec)
	}
	return out
}

func (r AggregateRecord) cells() []string {
	aoall := ""
	if r.AoAll != nil {
		aoall = strconv.FormatFloat(*r.AoAll, 'f', -1, 64)
	}
	return []string{
		strconv.FormatInt(r.Year, 10), r.Sport, r.Category,
		strconv.FormatInt(r.All, 10), strconv.FormatInt(r.Male, 10),
		strconv.FormatInt(r.Female, 10), strconv.FormatInt(r.FaM, 10),
		strconv.FormatFloat(r.FoM, 'f', -1, 64), aoall, r.Years,
	}
}

func (r AggregateRecord) values() []any {
	var aoall any
	if r.AoAll != nil {
		aoall = *r.AoAll
	}
	return []any{r.Year, r.Sport, r.Category, r.All, r.Male, r.Female, r.FaM, r.FoM, aoall, r.Years}
}

// tableValues keeps Year and Age numeric in spreadsheets.
func tableValues(r model.Row) []any {
	return []any{
		r.Year, r.SportCat, r.Sport, r.Medal, r.Player,
		r.Gender, r.Country, r.Age, r.DateofBirth, r.SportDetails,
	}
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, " ")
}

// WriteTable writes medalist table rows in the given format.
func WriteTable(w io.Writer, f Format, rows []model.Row) error {
	switch f {
	case CSV:
		return writeCSV(w, model.DisplayColumns, len(rows), func(i int) []string { return rows[i].Cells() })
	case XLSX:
		return writeXLSX(w, "Medalists", model.DisplayColumns, len(rows), func(i int) []any { return tableValues(rows[i]) })
	case Parquet:
		return writeParquet(w, rows)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteAggregates writes aggregate rows in the given format.
func WriteAggregates(w io.Writer, f Format, rows []types.AggregateRow) error {
	recs := NewAggregateRecords(rows)
	switch f {
	case CSV:
		return writeCSV(w, aggregateHeader, len(recs), func(i int) []string { return recs[i].cells() })
	case XLSX:
		return writeXLSX(w, "Aggregates", aggregateHeader, len(recs), func(i int) []any { return recs[i].values() })
	case Parquet:
		return writeParquet(w, recs)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
