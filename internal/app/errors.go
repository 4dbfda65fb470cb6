package service

import "errors"

// Sentinel kinds returned by the service.
var (
	// ErrComputation wraps a failure recovered inside a computation. Callers
	// keep their current view.
	ErrComputation = errors.New("computation failed")
	// ErrBadRequest marks invalid request parameters.
	ErrBadRequest = errors.New("bad request")
	// ErrNotStarted is returned before Start has loaded the dataset.
	ErrNotStarted = errors.New("service not started")
)
