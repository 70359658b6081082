// Package domain defines the automation task ledger, callback payloads and their errors.
//
// The ledger is append-only: a START row is written when a task is handed to the automation
// provider and at most one FINISH or FINISH_WITH_ERROR row may follow it for the same
// (process id, correlation token) pair.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType is the kind of a ledger entry.
type EventType string

const (
	EventStart           EventType = "start"
	EventStartError      EventType = "start_error"
	EventFinish          EventType = "finish"
	EventFinishWithError EventType = "finish_with_error"
)

// IsFinish reports whether t completes a task.
func (t EventType) IsFinish() bool {
	return t == EventFinish || t == EventFinishWithError
}

// EventSource names the external provider that produced an entry.
type EventSource string

// SourceAutomationProvider is the source of every entry written by this service.
const SourceAutomationProvider EventSource = "automation_provider"

// FinishGuard is stored on finish rows only. Together with the unique
// (process_id, correlation_token, finish_guard) index it allows one finish per task.
const FinishGuard = 1

// Keys written into EventData.
const (
	DataKeyProcessID        = "process_id"
	DataKeyTaskType         = "task_type"
	DataKeyCorrelationToken = "correlation_token"
	DataKeyCallbackURL      = "callback_url"
	DataKeyProviderTaskID   = "provider_task_id"
	DataKeyError            = "error"
	DataKeyResponseContent  = "response_content"
	DataKeyRequest          = "request"
	DataKeyEngineRequest    = "engine_request"
)

// EventLog is one entry of the automation task ledger.
type EventLog struct {
	ID               uuid.UUID
	ProcessID        string
	EventType        EventType
	EventSource      EventSource
	CorrelationToken string
	EventData        map[string]any
	CreatedAt        time.Time
}

// NewEventLog builds a ledger entry with a fresh time-ordered id.
func NewEventLog(
	processID string,
	eventType EventType,
	correlationToken string,
	data map[string]any,
	now time.Time,
) *EventLog {
	if data == nil {
		data = map[string]any{}
	}
	return &EventLog{
		ID:               uuid.Must(uuid.NewV7()),
		ProcessID:        processID,
		EventType:        eventType,
		EventSource:      SourceAutomationProvider,
		CorrelationToken: correlationToken,
		EventData:        data,
		CreatedAt:        now,
	}
}

// FinishGuardValue returns the value persisted in the finish_guard column.
func (e *EventLog) FinishGuardValue() *int {
	if !e.EventType.IsFinish() {
		return nil
	}
	guard := FinishGuard
	return &guard
}

// TaskType returns the task type recorded in the entry data.
func (e *EventLog) TaskType() string {
	return e.DataString(DataKeyTaskType)
}

// DataString returns a string value from EventData, or "" when missing or not a string.
func (e *EventLog) DataString(key string) string {
	value, ok := e.EventData[key].(string)
	if !ok {
		return ""
	}
	return value
}

// CopyData returns a shallow copy of EventData.
func (e *EventLog) CopyData() map[string]any {
	data := make(map[string]any, len(e.EventData))
	for k, v := range e.EventData {
		data[k] = v
	}
	return data
}
