package domain

import (
	"github.com/allisson/orchestrator/internal/errors"
)

// Automation task error definitions.
var (
	// ErrInvalidCorrelation indicates a callback whose process id and token match no START record.
	ErrInvalidCorrelation = errors.Wrap(errors.ErrNotFound, "invalid correlation token or unknown task")

	// ErrDuplicateCallback indicates the task already has a FINISH or FINISH_WITH_ERROR record.
	ErrDuplicateCallback = errors.Wrap(errors.ErrConflict, "callback already processed")

	// ErrProviderUnavailable indicates the automation provider rejected or did not answer a task.
	ErrProviderUnavailable = errors.Wrap(errors.ErrUnavailable, "automation provider unavailable")

	// ErrUnknownReport indicates an audit export was requested for a report that does not exist.
	ErrUnknownReport = errors.Wrap(errors.ErrInvalidInput, "unknown audit report")
)
