// Package apperrors defines the error taxonomy shared by parsers, generators and the CLI.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrParse          = errors.New("parse error")
	ErrNotFound       = errors.New("not found")
	ErrInvalidJSON    = errors.New("invalid JSON data")
	ErrAnchorNotFound = errors.New("anchor not found")
)

// GenerationError reports a generator failure together with the artifact type that raised it.
type GenerationError struct {
	Type string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate %s: %v", e.Type, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// GenerationFailed wraps err as a GenerationError for the given artifact type.
// An error that already is a GenerationError is returned unchanged.
func GenerationFailed(artifactType string, err error) error {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return err
	}
	return &GenerationError{Type: artifactType, Err: err}
}

// Validation builds an ErrValidation error with a formatted message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Parse builds an ErrParse error with a formatted message.
func Parse(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrParse, fmt.Sprintf(format, args...))
}

// NotFound builds an ErrNotFound error naming what was missing.
func NotFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// InvalidJSON wraps a decoding failure as ErrInvalidJSON.
func InvalidJSON(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
}
