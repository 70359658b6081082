// Package repository implements queue and work item persistence.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// PostgreSQL stores item ids as native UUID and payloads as JSONB, MySQL uses BINARY(16) and JSON.
package repository

import (
	"encoding/json"

	apperrors "github.com/allisson/orchestrator/internal/errors"
	queueDomain "github.com/allisson/orchestrator/internal/queue/domain"
)

const queueColumns = `id, name, description, is_active, created_at`

const itemColumns = `id, queue_id, payload, priority, status, attempts, max_attempts, error,
	locked_by, locked_at, started_at, finished_at, created_at, updated_at`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanQueue(row scanner) (*queueDomain.Queue, error) {
	var queue queueDomain.Queue
	if err := row.Scan(
		&queue.ID,
		&queue.Name,
		&queue.Description,
		&queue.IsActive,
		&queue.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &queue, nil
}

// scanItem reads a row selected with itemColumns. The id column is scanned into idDest so
// each driver can decode its own representation.
func scanItem(row scanner, idDest any) (*queueDomain.QueueItem, error) {
	var item queueDomain.QueueItem
	var payload []byte
	var status string

	if err := row.Scan(
		idDest,
		&item.QueueID,
		&payload,
		&item.Priority,
		&status,
		&item.Attempts,
		&item.MaxAttempts,
		&item.Error,
		&item.LockedBy,
		&item.LockedAt,
		&item.StartedAt,
		&item.FinishedAt,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}

	item.Status = queueDomain.ItemStatus(status)
	item.Payload = map[string]any{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &item.Payload); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal item payload")
		}
	}
	return &item, nil
}

func marshalPayload(payload map[string]any) ([]byte, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal item payload")
	}
	return data, nil
}
