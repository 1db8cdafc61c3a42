package domain

import "errors"

var (
	// ErrUnauthenticated is returned when no identity can be resolved for the caller.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound is returned when an id-and-owner filtered mutation matches no row.
	// A row that exists but belongs to another user produces the same error, so
	// callers cannot discover other users' ids.
	ErrNotFound = errors.New("not found")
)
