package domain

import "errors"

// Sentinel errors shared across modules. Handlers map these to HTTP status
// codes; read paths treat ErrNotFound as an empty result where the API
// contract calls for fail-soft behavior.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)
