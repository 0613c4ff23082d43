package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by stores on a uniqueness violation.
	ErrConflict = errors.New("conflict")
)

// ConflictError reports a uniqueness violation on a specific column.
// It matches ErrConflict under errors.Is, so callers that do not care
// which column collided keep working with the sentinel.
type ConflictError struct {
	Column Column
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("duplicate value for %s", e.Column)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
