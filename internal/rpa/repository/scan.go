// Package repository implements the automation task ledger for PostgreSQL and MySQL.
//
// The finish_guard column is only set on finish rows; a unique index over
// (process_id, correlation_token, finish_guard) lets the database reject a second finish.
package repository

import (
	"encoding/json"

	apperrors "github.com/allisson/orchestrator/internal/errors"
	rpaDomain "github.com/allisson/orchestrator/internal/rpa/domain"
)

const eventColumns = `id, process_id, event_type, event_source, correlation_token, event_data, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner, idDest any) (*rpaDomain.EventLog, error) {
	var event rpaDomain.EventLog
	var eventType, eventSource string
	var data []byte

	if err := row.Scan(
		idDest,
		&event.ProcessID,
		&eventType,
		&eventSource,
		&event.CorrelationToken,
		&data,
		&event.CreatedAt,
	); err != nil {
		return nil, err
	}

	event.EventType = rpaDomain.EventType(eventType)
	event.EventSource = rpaDomain.EventSource(eventSource)
	event.EventData = map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &event.EventData); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal event data")
		}
	}
	return &event, nil
}

func marshalEventData(data map[string]any) ([]byte, error) {
	if data == nil {
		data = map[string]any{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal event data")
	}
	return encoded, nil
}

func eventTypeStrings(types []rpaDomain.EventType) []string {
	values := make([]string, 0, len(types))
	for _, t := range types {
		values = append(values, string(t))
	}
	return values
}
