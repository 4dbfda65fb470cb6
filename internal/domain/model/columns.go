package model

import (
	"strconv"
)

// Column names of the medalist table, as exposed to the table view and the filter language.
const (
	ColYear         = "Year"
	ColSportCat     = "Sport_cat"
	ColSport        = "Sport"
	ColMedal        = "Medal"
	ColPlayer       = "Player"
	ColGender       = "Gender"
	ColCountry      = "Country"
	ColAge          = "Age"
	ColDateOfBirth  = "DateofBirth"
	ColSportDetails = "SportDetails"
	ColMeta         = "iMeta"
)

// DisplayColumns lists the table columns in display order.
var DisplayColumns = []string{
	ColYear, ColSportCat, ColSport, ColMedal, ColPlayer,
	ColGender, ColCountry, ColAge, ColDateOfBirth, ColSportDetails,
}

// IsColumn reports whether name is a displayed column.
func IsColumn(name string) bool {
	for _, c := range DisplayColumns {
		if c == name {
			return true
		}
	}
	return false
}

// IsNumericColumn reports whether the column holds integers.
func IsNumericColumn(name string) bool {
	return name == ColYear || name == ColAge
}

// Number returns the value of a numeric column.
func (m Medalist) Number(col string) (float64, bool) {
	switch col {
	case ColYear:
		return float64(m.Year), true
	case ColAge:
		return float64(m.Age), true
	}
	return 0, false
}

// Text returns the value of a column rendered as a string. Numeric columns
// are formatted in base 10.
func (m Medalist) Text(col string) (string, bool) {
	switch col {
	case ColYear:
		return strconv.Itoa(m.Year), true
	case ColAge:
		return strconv.Itoa(m.Age), true
	case ColSportCat:
		return m.SportCategory, true
	case ColSport:
		return m.Sport, true
	case ColMedal:
		return m.Medal, true
	case ColPlayer:
		return m.Player, true
	case ColGender:
		return string(m.Gender), true
	case ColCountry:
		return m.Country, true
	case ColDateOfBirth:
		return m.DateOfBirth, true
	case ColSportDetails:
		return m.SportDetails, true
	}
	return "", false
}

// Row is the table-view shape of a medalist, keyed by the source column names.
type Row struct {
	Year         int    `json:"Year" parquet:"year"`
	SportCat     string `json:"Sport_cat" parquet:"sport_cat"`
	Sport        string `json:"Sport" parquet:"sport"`
	Medal        string `json:"Medal" parquet:"medal"`
	Player       string `json:"Player" parquet:"player"`
	Gender       string `json:"Gender" parquet:"gender"`
	Country      string `json:"Country" parquet:"country"`
	Age          int    `json:"Age" parquet:"age"`
	DateofBirth  string `json:"DateofBirth" parquet:"date_of_birth"`
	SportDetails string `json:"SportDetails" parquet:"sport_details"`
}

// Row converts the medalist to its table-view shape.
func (m Medalist) Row() Row {
	return Row{
		Year:         m.Year,
		SportCat:     m.SportCategory,
		Sport:        m.Sport,
		Medal:        m.Medal,
		Player:       m.Player,
		Gender:       string(m.Gender),
		Country:      m.Country,
		Age:          m.Age,
		DateofBirth:  m.DateOfBirth,
		SportDetails: m.SportDetails,
	}
}

// Cells returns the row values in DisplayColumns order.
func (r Row) Cells() []string {
	return []string{
		strconv.Itoa(r.Year), r.SportCat, r.Sport, r.Medal, r.Player,
		r.Gender, r.Country, strconv.Itoa(r.Age), r.DateofBirth, r.SportDetails,
	}
}
