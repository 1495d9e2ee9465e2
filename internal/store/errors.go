package store

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row within the
	// caller's scope. Tenant-scoped stores deliberately do not distinguish
	// "doesn't exist" from "belongs to another tenant".
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an insert violates a uniqueness
	// constraint.
	ErrConflict = errors.New("already exists")
)
