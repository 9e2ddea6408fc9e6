// Package errs defines the error categories surfaced to CLI users.
//
// Every condition detected locally (missing resource, duplicate name,
// conflicting flags) wraps one of the sentinel errors below so that tests
// and callers can classify failures with errors.Is. Service-level errors
// from the management SDK propagate unmodified.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a resource or named sub-entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a create collided with an existing name.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidArgument indicates conflicting or missing flags, detected
	// before any network call.
	ErrInvalidArgument = errors.New("invalid argument")
)

// NotFoundf formats a message and wraps ErrNotFound.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// AlreadyExistsf formats a message and wraps ErrAlreadyExists.
func AlreadyExistsf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrAlreadyExists)...)
}

// InvalidArgumentf formats a message and wraps ErrInvalidArgument.
func InvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidArgument)...)
}
