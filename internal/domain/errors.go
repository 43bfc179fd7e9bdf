package domain

import "errors"

var (
	// ErrValidation marks input that fails domain validation.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a lookup that matched no row.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a write that violated a uniqueness constraint.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized marks an action the acting profile may not perform.
	ErrUnauthorized = errors.New("unauthorized")
)
