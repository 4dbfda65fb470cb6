package api

import "errors"

// ErrBadRequest marks request parameters that could not be decoded.
var ErrBadRequest = errors.New("bad request")
