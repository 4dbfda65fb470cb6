// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers an optional YAML file and AGEGAP_* environment variables on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8055".
	Addr string `koanf:"addr"`

	// DataDir holds the reference files. Relative paths resolve against the
	// executable's directory first, then the working directory.
	DataDir string `koanf:"data_dir"`

	// MedalistsFile is the medalist table (.csv or .xlsx) inside DataDir.
	MedalistsFile string `koanf:"medalists_file"`

	// HostCitiesFile maps year -> host city label (JSON object).
	HostCitiesFile string `koanf:"host_cities_file"`

	// SportCategoriesFile maps sport -> category (JSON object).
	SportCategoriesFile string `koanf:"sport_categories_file"`

	// AgeMin and AgeMax bound the age slider. A selected upper bound equal to
	// AgeMax means "AgeMax and older". AgeMin must be positive: an age of 0 in
	// a request stands for the default.
	AgeMin int `koanf:"age_min"`
	AgeMax int `koanf:"age_max"`

	// DefaultAgeLo is the initial lower bound of the age selection.
	DefaultAgeLo int `koanf:"default_age_lo"`

	// FrameDurationMS is the animation frame duration; transitions take 40% of it.
	FrameDurationMS int `koanf:"frame_duration_ms"`

	// RosterLineStep is the number of roster entries per line in hover text.
	RosterLineStep int `koanf:"roster_line_step"`

	// PageSize and MaxPageSize bound table paging.
	PageSize    int `koanf:"page_size"`
	MaxPageSize int `koanf:"max_page_size"`

	// ShowText is the default for bubble text labels.
	ShowText bool `koanf:"show_text"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":8055",
		DataDir:             "data",
		MedalistsFile:       "olympic_medalists.csv",
		HostCitiesFile:      "hostcities.json",
		SportCategoriesFile: "sportcats.json",
		AgeMin:              10,
		AgeMax:              40,
		DefaultAgeLo:        30,
		FrameDurationMS:     2500,
		RosterLineStep:      6,
		PageSize:            10,
		MaxPageSize:         500,
		ShowText:            true,
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.AgeMin <= 0 || c.AgeMin >= c.AgeMax:
		return fmt.Errorf("%w: age_min must be positive and below age_max (got %d..%d)", ErrInvalidConfig, c.AgeMin, c.AgeMax)
	case c.DefaultAgeLo < c.AgeMin || c.DefaultAgeLo > c.AgeMax:
		return fmt.Errorf("%w: default_age_lo %d outside %d..%d", ErrInvalidConfig, c.DefaultAgeLo, c.AgeMin, c.AgeMax)
	case c.RosterLineStep <= 0:
		return fmt.Errorf("%w: roster_line_step must be positive", ErrInvalidConfig)
	case c.PageSize <= 0 || c.PageSize > c.MaxPageSize:
		return fmt.Errorf("%w: page_size must be in 1..max_page_size", ErrInvalidConfig)
	case c.FrameDurationMS <= 0:
		return fmt.Errorf("%w: frame_duration_ms must be positive", ErrInvalidConfig)
	case c.MedalistsFile == "" || c.HostCitiesFile == "" || c.SportCategoriesFile == "":
		return fmt.Errorf("%w: data file names must not be empty", ErrInvalidConfig)
	}
	return nil
}
