package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/orchestrator/internal/database"
	apperrors "github.com/allisson/orchestrator/internal/errors"
	processDomain "github.com/allisson/orchestrator/internal/process/domain"
)

// MySQLEventLogRepository implements process event persistence for MySQL using BINARY(16) ids.
type MySQLEventLogRepository struct {
	db *sql.DB
}

// NewMySQLEventLogRepository creates a new MySQL process event repository.
func NewMySQLEventLogRepository(db *sql.DB) *MySQLEventLogRepository {
	return &MySQLEventLogRepository{db: db}
}

// Create appends a process event.
func (m *MySQLEventLogRepository) Create(ctx context.Context, event *processDomain.EventLog) error {
	querier := database.GetTx(ctx, m.db)

	id, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal process event id")
	}

	data, err := marshalEventData(event.EventData)
	if err != nil {
		return err
	}

	query := `INSERT INTO process_event_logs (id, process_id, event_type, event_data, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, event.ProcessID, event.EventType, data, event.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create process event log")
	}
	return nil
}
