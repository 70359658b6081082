// Package usecase implements automation task dispatch, callback correlation and the
// audit export of the task ledger.
package usecase

import (
	"context"
	"io"
	"time"

	rpaDomain "github.com/allisson/orchestrator/internal/rpa/domain"
)

// EventLogRepository defines the interface for ledger persistence operations.
type EventLogRepository interface {
	// Create appends an entry. Returns ErrDuplicateCallback when a second finish is written.
	Create(ctx context.Context, event *rpaDomain.EventLog) error
	// GetStartForUpdate loads and locks the START entry of a task.
	// Returns ErrInvalidCorrelation when none exists.
	GetStartForUpdate(ctx context.Context, processID, correlationToken string) (*rpaDomain.EventLog, error)
	HasFinish(ctx context.Context, processID, correlationToken string) (bool, error)
	ListSince(ctx context.Context, since time.Time, types []rpaDomain.EventType) ([]*rpaDomain.EventLog, error)
}

// RPAUseCase defines the automation task operations.
type RPAUseCase interface {
	// StartTask hands a task to the automation provider and records START, or START_ERROR
	// followed by ErrProviderUnavailable.
	StartTask(ctx context.Context, input rpaDomain.StartTaskInput) (map[string]any, error)
	// HandleCallback correlates a provider callback with its START entry, notifies the
	// workflow engine and records exactly one finish entry. Engine failures are recorded as
	// FINISH_WITH_ERROR and are not returned.
	HandleCallback(ctx context.Context, callback rpaDomain.Callback) error
	// Export writes the report as CSV and returns the number of data rows written.
	Export(ctx context.Context, report rpaDomain.Report, w io.Writer) (int, error)
}
