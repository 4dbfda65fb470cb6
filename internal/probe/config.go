// Package probe verifies a running dashboard server end to end: it checks
// the lookups, the figure shape and the aggregate invariants over random
// age/country selections, then the table filter, export and snapshot paths.
package probe

import (
	"errors"
	"time"
)

// ErrCheckFailed is returned by Run when at least one check failed.
var ErrCheckFailed = errors.New("probe check failed")

// Config holds configuration for a probe run.
type Config struct {
	BaseURL string        // Base URL of the service
	Samples int           // Random age/country selections to check
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	Seed    uint64        // Seed for the random selections
	Verbose bool          // Print passing checks too
}

// DefaultConfig returns the settings used by medalctl probe.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8055",
		Samples: 20,
		Workers: 4,
		Timeout: 30 * time.Second,
		Seed:    1,
	}
}

// Result is the outcome of one check.
type Result struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Passed reports whether the check succeeded.
func (r Result) Passed() bool { return r.Err == nil }

// Stats holds run statistics.
type Stats struct {
	Checks    int
	Passed    int
	Failed    int
	Requests  int64
	StartTime time.Time
	Duration  time.Duration
}
