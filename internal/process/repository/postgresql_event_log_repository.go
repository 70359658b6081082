// Package repository implements the process event log for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/allisson/orchestrator/internal/database"
	apperrors "github.com/allisson/orchestrator/internal/errors"
	processDomain "github.com/allisson/orchestrator/internal/process/domain"
)

func marshalEventData(data map[string]any) ([]byte, error) {
	if data == nil {
		data = map[string]any{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal process event data")
	}
	return encoded, nil
}

// PostgreSQLEventLogRepository implements process event persistence for PostgreSQL.
type PostgreSQLEventLogRepository struct {
	db *sql.DB
}

// NewPostgreSQLEventLogRepository creates a new PostgreSQL process event repository.
func NewPostgreSQLEventLogRepository(db *sql.DB) *PostgreSQLEventLogRepository {
	return &PostgreSQLEventLogRepository{db: db}
}

// Create appends a process event.
func (p *PostgreSQLEventLogRepository) Create(ctx context.Context, event *processDomain.EventLog) error {
	querier := database.GetTx(ctx, p.db)

	data, err := marshalEventData(event.EventData)
	if err != nil {
		return err
	}

	query := `INSERT INTO process_event_logs (id, process_id, event_type, event_data, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err = querier.ExecContext(ctx, query, event.ID, event.ProcessID, event.EventType, data, event.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create process event log")
	}
	return nil
}
