package aggregate

import "errors"

// ErrInvalidAgeRange is returned for a negative or inverted age range.
var ErrInvalidAgeRange = errors.New("invalid age range")
