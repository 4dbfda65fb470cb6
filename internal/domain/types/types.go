// Package types contains the shapes exchanged between the aggregation pipeline,
// the frame builder and the transport adapters.
package types

import (
	"bytes"
	"math"
	"strconv"
)

// Number is a float64 that serializes NaN and ±Inf as JSON null.
type Number float64

// NaN is the undefined Number.
func NaN() Number { return Number(math.NaN()) }

// Valid reports whether the number is finite.
func (n Number) Valid() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// OrZero returns the value, or 0 when it is undefined.
func (n Number) OrZero() float64 {
	if !n.Valid() {
		return 0
	}
	return float64(n)
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(n), 'f', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler; null decodes to NaN.
func (n *Number) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*n = NaN()
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// AggregateRow is one sport in one year for one filter invocation.
type AggregateRow struct {
	Year  int    `json:"Year"`
	Sport string `json:"Sport"`
	// YearsOfOccurrence lists every year the sport appears in the country-filtered table.
	YearsOfOccurrence []int `json:"YearsofOccurance"`

	// All counts medalists of the sport in the year, ignoring the age range.
	All    int `json:"All"`
	Male   int `json:"Male"`
	Female int `json:"Female"`
	// FaM is Female+Male within the age range.
	FaM int `json:"FaM"`
	// FoM is Female/Male with sentinels for the degenerate cases.
	FoM float64 `json:"FoM"`
	// AoAll is FaM/All in percent; undefined when All is 0.
	AoAll Number `json:"AoAll"`

	Meta     []string `json:"iMeta"`
	Roster   string   `json:"iDisplay"`
	Category string   `json:"Sport_cat"`
	Label    string   `json:"iSport"`
}
