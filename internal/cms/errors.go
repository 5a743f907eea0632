package cms

import "errors"

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when attempting to create a record that already exists.
	ErrDuplicate = errors.New("record already exists")

	// ErrLinked is returned when attempting to overwrite an existing external link.
	ErrLinked = errors.New("record already linked to an external content")
)
