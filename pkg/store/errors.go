package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation names a goal id that is not in
// the store. It is wrapped with the id.
var ErrNotFound = errors.New("goal not found")

// ValidationError rejects a mutation before anything is applied.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FormatError reports a malformed import payload or persisted snapshot.
type FormatError struct {
	Source string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid format in %s", e.Source)
	}
	return fmt.Sprintf("invalid format in %s: %v", e.Source, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// PersistenceError reports that the collection could not be written. The
// in-memory collection is left as it was before the mutation.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting %s: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
