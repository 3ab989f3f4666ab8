// Package apperror defines the domain errors shared by every layer.
//
// Errors carry a sentinel (ErrNotFound, ErrValidation) so callers can use
// errors.Is, plus a human-readable Message and, for validation failures, the
// Field that was rejected. The HTTP layer maps the sentinels to status codes.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)

type AppError struct {
	Err     error  // sentinel
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// FieldOf returns the rejected field of a validation error anywhere in the
// chain, or "" when err carries none.
func FieldOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
