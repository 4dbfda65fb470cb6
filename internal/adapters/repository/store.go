// Package repository loads the static reference data: the medalist table and
// the host-city and sport-category lookups.
package repository

import (
	"context"

	"github.com/okian/agegap/internal/domain/model"
)

// Report describes one load.
type Report struct {
	MedalistsPath string
	Records       int
	// Skipped counts rows dropped because Year or Age did not parse.
	Skipped    int
	Hosts      int
	Categories int
}

// Source provides the reference data once at startup.
type Source interface {
	// Load reads every file and builds the immutable dataset.
	Load(ctx context.Context) (*model.Dataset, Report, error)
}
