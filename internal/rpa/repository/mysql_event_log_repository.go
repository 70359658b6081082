package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/allisson/orchestrator/internal/database"
	apperrors "github.com/allisson/orchestrator/internal/errors"
	rpaDomain "github.com/allisson/orchestrator/internal/rpa/domain"
)

// MySQLEventLogRepository implements ledger persistence for MySQL using BINARY(16) ids.
type MySQLEventLogRepository struct {
	db *sql.DB
}

// NewMySQLEventLogRepository creates a new MySQL ledger repository.
func NewMySQLEventLogRepository(db *sql.DB) *MySQLEventLogRepository {
	return &MySQLEventLogRepository{db: db}
}

func scanMySQLEvent(row scanner) (*rpaDomain.EventLog, error) {
	var idBytes []byte
	event, err := scanEvent(row, &idBytes)
	if err != nil {
		return nil, err
	}
	if err := event.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal rpa event log id")
	}
	return event, nil
}

// Create appends an entry. A second finish for the same task returns ErrDuplicateCallback.
func (m *MySQLEventLogRepository) Create(ctx context.Context, event *rpaDomain.EventLog) error {
	querier := database.GetTx(ctx, m.db)

	id, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal rpa event log id")
	}

	data, err := marshalEventData(event.EventData)
	if err != nil {
		return err
	}

	query := `INSERT INTO rpa_event_logs (id, process_id, event_type, event_source, correlation_token,
			  finish_guard, event_data, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLEventLogRepository) GetStartForUpdate(
	ctx context.Context,
	processID, correlationToken string,
) (*rpaDomain.EventLog, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + eventColumns + ` FROM rpa_event_logs
			  WHERE process_id = ? AND correlation_token = ? AND event_type = ?
			  ORDER BY created_at DESC LIMIT 1 FOR UPDATE`

	event, err := scanMySQLEvent(querier.QueryRowContext(
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
func (m *MySQLEventLogRepository) HasFinish(
	ctx context.Context,
	processID, correlationToken string,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT EXISTS (SELECT 1 FROM rpa_event_logs
			  WHERE process_id = ? AND correlation_token = ? AND finish_guard IS NOT NULL)`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, processID, correlationToken).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check rpa finish event")
	}
	return exists, nil
}

// ListSince returns entries of the given types created at or after since, oldest first.
func (m *MySQLEventLogRepository) ListSince(
	ctx context.Context,
	since time.Time,
	types []rpaDomain.EventType,
) ([]*rpaDomain.EventLog, error) {
	if len(types) == 0 {
		return []*rpaDomain.EventLog{}, nil
	}

	querier := database.GetTx(ctx, m.db)

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(types)), ", ")
	query := `SELECT ` + eventColumns + ` FROM rpa_event_logs
			  WHERE created_at >= ? AND event_type IN (` + placeholders + `)
			  ORDER BY created_at ASC, id ASC`

	args := make([]any, 0, len(types)+1)
	args = append(args, since)
	for _, t := range eventTypeStrings(types) {
		args = append(args, t)
	}

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list rpa event logs")
	}
	defer func() {
		_ = rows.Close()
	}()

	events := make([]*rpaDomain.EventLog, 0)
	for rows.Next() {
		event, err := scanMySQLEvent(rows)
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
