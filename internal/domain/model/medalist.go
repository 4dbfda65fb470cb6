// Package model contains the medalist record and the immutable dataset shared by every request.
package model

import (
	"strconv"
	"strings"
)

// Gender of a medalist as written in the source table.
type Gender string

// Known genders. Anything that is not Male is counted with the female roster,
// matching how the source table is rendered.
const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

// ParseGender normalizes a raw gender cell.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "men":
		return Male
	case "female", "f", "women":
		return Female
	default:
		return Gender(strings.TrimSpace(s))
	}
}

// MetaSeparator joins the fields of the composite roster string.
const MetaSeparator = "::"

// Medalist is one row of the medalist table. It is never mutated after load.
type Medalist struct {
	Year          int
	Sport         string
	SportCategory string
	Medal         string
	Player        string
	Gender        Gender
	Country       string
	Age           int
	DateOfBirth   string
	SportDetails  string
	// Meta is the precomputed "player::age::gender::country" roster string.
	Meta string
}

// ComposeMeta builds the composite roster string for a medalist.
func ComposeMeta(player string, age int, gender Gender, country string) string {
	return strings.Join([]string{player, strconv.Itoa(age), string(gender), country}, MetaSeparator)
}

// RosterEntry is the decoded form of Meta.
type RosterEntry struct {
	Player  string
	Age     string
	Gender  Gender
	Country string
}

// ParseMeta decodes a composite roster string. ok is false when it does not
// have exactly four fields.
func ParseMeta(meta string) (RosterEntry, bool) {
	parts := strings.Split(meta, MetaSeparator)
	if len(parts) != 4 {
		return RosterEntry{}, false
	}
	return RosterEntry{Player: parts[0], Age: parts[1], Gender: Gender(parts[2]), Country: parts[3]}, true
}
