package apperr

import (
	"fmt"

	"github.com/google/uuid"
)

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// UnknownEntityError reports a scored edge referencing an entity outside the
// pass's registry. It is fatal for the pass: row indices are fixed when the
// buffers are allocated, so there is no row to merge the edge into.
type UnknownEntityError struct {
	Entity uuid.UUID
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("entity %s is not registered for this pass", e.Entity)
}

func NewUnknownEntity(id uuid.UUID) *UnknownEntityError {
	return &UnknownEntityError{Entity: id}
}
