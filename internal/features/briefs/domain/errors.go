package domain

import (
	"errors"
	"fmt"
)

var (
	ErrBriefNotFound   = errors.New("brief not found")
	ErrMissingField    = errors.New("missing required field")
	ErrInvalidSpec     = errors.New("generated spec is not a JSON object")
	ErrEmptyCompletion = errors.New("model returned an empty completion")
)

// MissingFieldError names the required field that was left empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("Missing required field: %s", e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }
