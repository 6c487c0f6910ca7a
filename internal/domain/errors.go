package domain

import "errors"

// Sentinel errors shared across services. Controllers map these to HTTP
// status codes; anything not matching one of them is treated as internal.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
)
