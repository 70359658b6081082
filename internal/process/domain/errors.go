package domain

import (
	"github.com/allisson/orchestrator/internal/errors"
)

// Process starter error definitions.
var (
	// ErrUnknownProcess indicates no descriptor is registered for the process key.
	ErrUnknownProcess = errors.Wrap(errors.ErrNotFound, "unknown process")

	// ErrDuplicateProcessKey indicates two descriptors share a key.
	ErrDuplicateProcessKey = errors.Wrap(errors.ErrConflict, "duplicate process key")

	// ErrInvalidDescriptor indicates a descriptor failed validation at registration.
	ErrInvalidDescriptor = errors.Wrap(errors.ErrInvalidInput, "invalid process descriptor")
)
