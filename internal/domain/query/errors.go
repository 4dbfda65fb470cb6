package query

import "errors"

// ErrInvalidSort is returned for a sort key naming an unknown column or direction.
var ErrInvalidSort = errors.New("invalid sort key")
