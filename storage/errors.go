package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when a project has no stored rules.
	ErrNotFound = errors.New("rules not found")

	// ErrInvalidProject is returned for project names that cannot be used as keys.
	ErrInvalidProject = errors.New("invalid project name")
)
