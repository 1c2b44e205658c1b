package store

import "errors"

var (
	// ErrInvalidInput marks malformed, missing, or referentially-unresolvable
	// request data. Maps to HTTP 400.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a well-formed identifier with no corresponding live
	// entity. Maps to HTTP 404.
	ErrNotFound = errors.New("not found")
)
