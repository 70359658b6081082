// Package usecase starts workflow processes through the descriptor registry and records
// process side effects in the process event log.
package usecase

import (
	"context"

	processDomain "github.com/allisson/orchestrator/internal/process/domain"
)

// EventLogRepository defines the interface for process event persistence.
type EventLogRepository interface {
	Create(ctx context.Context, event *processDomain.EventLog) error
}

// ProcessUseCase defines the process starter operations.
type ProcessUseCase interface {
	// Keys lists the processes that can be started.
	Keys() []string
	// Start starts the process for each subject and reports a per-subject outcome.
	// Returns ErrUnknownProcess when the key is not registered.
	Start(ctx context.Context, processKey string, subjects []processDomain.Subject) ([]processDomain.Outcome, error)
	// LogEvent records an arbitrary process side effect.
	LogEvent(ctx context.Context, processID, eventType string, data map[string]any) (*processDomain.EventLog, error)
}
