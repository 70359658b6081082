package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/allisson/orchestrator/internal/database"
	apperrors "github.com/allisson/orchestrator/internal/errors"
	rpaDomain "github.com/allisson/orchestrator/internal/rpa/domain"
)

// PostgreSQLEventLogRepository implements ledger persistence for PostgreSQL.
type PostgreSQLEventLogRepository struct {
	db *sql.DB
}

// NewPostgreSQLEventLogRepository creates a new PostgreSQL ledger repository.
func NewPostgreSQLEventLogRepository(db *sql.DB) *PostgreSQLEventLogRepository {
	return &PostgreSQLEventLogRepository{db: db}
}

func scanPostgreSQLEvent(row scanner) (*rpaDomain.EventLog, error) {
	var id uuid.UUID
	event, err := scanEvent(row, &id)
	if err != nil {
		return nil, err
	}
	event.ID = id
	return event, nil
}

// Create appends an entry. A second finish for the same task returns ErrDuplicateCallback.
func (p *PostgreSQLEventLogRepository) Create(ctx context.Context, event *rpaDomain.EventLog) error {
	querier := database.GetTx(ctx, p.db)

	data, err := marshalEventData(event.EventData)
	if err != nil {
		return err
	}

	query := `INSERT INTO rpa_event_logs (id, process_id, event_type, event_source, correlation_token,
			  finish_guard, event_data, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = querier.ExecContext(
		ctx,
		query,
		event.ID,
		event.ProcessID,
		string(event.EventType),
		string(event.EventSource),
		event.CorrelationToken,
		event.FinishGuardValue(),
		data,
		event.CreatedAt,
	)
	if err != nil {
		if event.EventType.IsFinish() && database.IsUniqueViolation(err) {
			return rpaDomain.ErrDuplicateCallback
		}
		return apperrors.Wrap(err, "failed to create rpa event log")
	}
	return nil
}

// GetStartForUpdate loads the START entry of a task and locks it until the transaction ends.
// Returns ErrInvalidCorrelation when no entry matches.
func (p *PostgreSQLEventLogRepository) GetStartForUpdate(
	ctx context.Context,
	processID, correlationToken string,
) (*rpaDomain.EventLog, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + eventColumns + ` FROM rpa_event_logs
			  WHERE process_id = $1 AND correlation_token = $2 AND event_type = $3
			  ORDER BY created_at DESC LIMIT 1 FOR UPDATE`

	event, err := scanPostgreSQLEvent(querier.QueryRowContext(
		ctx,
		query,
		processID,
		correlationToken,
		string(rpaDomain.EventStart),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, rpaDomain.ErrInvalidCorrelation
		}
		return nil, apperrors.Wrap(err, "failed to get rpa start event")
	}
	return event, nil
}

// HasFinish reports whether the task already has a finish entry.
func (p *PostgreSQLEventLogRepository) HasFinish(
	ctx context.Context,
	processID, correlationToken string,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (SELECT 1 FROM rpa_event_logs
			  WHERE process_id = $1 AND correlation_token = $2 AND finish_guard IS NOT NULL)`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, processID, correlationToken).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check rpa finish event")
	}
	return exists, nil
}

// ListSince returns entries of the given types created at or after since, oldest first.
func (p *PostgreSQLEventLogRepository) ListSince(
	ctx context.Context,
	since time.Time,
	types []rpaDomain.EventType,
) ([]*rpaDomain.EventLog, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + eventColumns + ` FROM rpa_event_logs
			  WHERE created_at >= $1 AND event_type = ANY($2)
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, since, pq.Array(eventTypeStrings(types)))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list rpa event logs")
	}
	defer func() {
		_ = rows.Close()
	}()

	events := make([]*rpaDomain.EventLog, 0)
	for rows.Next() {
		event, err := scanPostgreSQLEvent(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan rpa event log")
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate rpa event logs")
	}
	return events, nil
}
