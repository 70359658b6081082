// Package domain defines workflow process descriptors, their registry and the process event log.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event types written by the process starter. LogEvent accepts any other type as well.
const (
	EventStart      = "start"
	EventEnd        = "end"
	EventStartError = "start_error"
	EventSkipped    = "skipped"
)

// EventLog is an entry of the process event log.
type EventLog struct {
	ID        uuid.UUID
	ProcessID string
	EventType string
	EventData map[string]any
	CreatedAt time.Time
}

// NewEventLog builds an entry with a fresh time-ordered id.
func NewEventLog(processID, eventType string, data map[string]any, now time.Time) *EventLog {
	if data == nil {
		data = map[string]any{}
	}
	return &EventLog{
		ID:        uuid.Must(uuid.NewV7()),
		ProcessID: processID,
		EventType: eventType,
		EventData: data,
		CreatedAt: now,
	}
}
