// Package errors declares the sentinel errors every domain wraps its own errors around.
// Handlers map the sentinels to HTTP status codes; the gateway sends their text to workers.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: unknown queue, item, process key or correlation.
	ErrNotFound = errors.New("not found")

	// ErrConflict: duplicate queue name, non-empty queue deletion or a repeated callback.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput: a request that failed validation or a forbidden state transition.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized: missing or wrong operator API key.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden: the caller is authenticated but may not perform the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrLocked: the resource exists but does not accept the operation right now, e.g. a paused queue.
	ErrLocked = errors.New("locked")

	// ErrUnavailable: the workflow engine or the automation provider failed.
	ErrUnavailable = errors.New("unavailable")
)

// Wrap prefixes err with message, keeping it matchable with Is. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
