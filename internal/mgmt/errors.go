package mgmt

import "errors"

var (
	// ErrMalformedName is returned when an object name or pattern cannot be parsed.
	ErrMalformedName = errors.New("malformed object name")

	// ErrInstanceNotFound is returned when no bean is registered under a name.
	ErrInstanceNotFound = errors.New("instance not found")

	// ErrInstanceExists is returned when registering a name twice.
	ErrInstanceExists = errors.New("instance already exists")

	// ErrAttributeNotFound is returned when a bean has no readable attribute of that name.
	ErrAttributeNotFound = errors.New("attribute not found")

	// ErrPatternNotAllowed is returned when a pattern is used where a concrete name is required.
	ErrPatternNotAllowed = errors.New("pattern not allowed")
)
