package repository

import "errors"

// Sentinel kinds for reference data loading errors.
var (
	ErrLoad              = errors.New("load reference data")
	ErrSchema            = errors.New("medalist table schema")
	ErrUnsupportedFormat = errors.New("unsupported medalist table format")
)
