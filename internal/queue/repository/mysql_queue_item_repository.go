package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/orchestrator/internal/database"
	apperrors "github.com/allisson/orchestrator/internal/errors"
	queueDomain "github.com/allisson/orchestrator/internal/queue/domain"
)

// MySQLQueueItemRepository implements QueueItem persistence for MySQL using BINARY(16) ids.
type MySQLQueueItemRepository struct {
	db *sql.DB
}

// NewMySQLQueueItemRepository creates a new MySQL QueueItem repository.
func NewMySQLQueueItemRepository(db *sql.DB) *MySQLQueueItemRepository {
	return &MySQLQueueItemRepository{db: db}
}

func scanMySQLItem(row scanner) (*queueDomain.QueueItem, error) {
	var idBytes []byte
	item, err := scanItem(row, &idBytes)
	if err != nil {
		return nil, err
	}
	if err := item.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal queue item id")
	}
	return item, nil
}

// Create inserts a new QueueItem.
func (m *MySQLQueueItemRepository) Create(ctx context.Context, item *queueDomain.QueueItem) error {
	querier := database.GetTx(ctx, m.db)

	id, err := item.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal queue item id")
	}

	payload, err := marshalPayload(item.Payload)
	if err != nil {
		return err
	}

	query := `INSERT INTO queue_items (id, queue_id, payload, priority, status, attempts, max_attempts,
			  error, locked_by, locked_at, started_at, finished_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		item.QueueID,
		payload,
		item.Priority,
		string(item.Status),
		item.Attempts,
		item.MaxAttempts,
		item.Error,
		item.LockedBy,
		item.LockedAt,
		item.StartedAt,
		item.FinishedAt,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return queueDomain.ErrItemIDConflict
		}
		return apperrors.Wrap(err, "failed to create queue item")
	}
	return nil
}

func (m *MySQLQueueItemRepository) get(ctx context.Context, query string, itemID uuid.UUID) (*queueDomain.QueueItem, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := itemID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal queue item id")
	}

	item, err := scanMySQLItem(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, queueDomain.ErrItemNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get queue item")
	}
	return item, nil
}

// Get retrieves a QueueItem by ID.
func (m *MySQLQueueItemRepository) Get(ctx context.Context, itemID uuid.UUID) (*queueDomain.QueueItem, error) {
	return m.get(ctx, `SELECT `+itemColumns+` FROM queue_items WHERE id = ?`, itemID)
}

// GetForUpdate retrieves a QueueItem by ID and locks its row for the current transaction.
func (m *MySQLQueueItemRepository) GetForUpdate(ctx context.Context, itemID uuid.UUID) (*queueDomain.QueueItem, error) {
	return m.get(ctx, `SELECT `+itemColumns+` FROM queue_items WHERE id = ? FOR UPDATE`, itemID)
}

// Update persists the mutable state of a QueueItem.
func (m *MySQLQueueItemRepository) Update(ctx context.Context, item *queueDomain.QueueItem) error {
	querier := database.GetTx(ctx, m.db)

	id, err := item.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal queue item id")
	}

	query := `UPDATE queue_items
			  SET status = ?,
				  attempts = ?,
				  error = ?,
				  locked_by = ?,
				  locked_at = ?,
				  started_at = ?,
				  finished_at = ?,
				  updated_at = ?
			  WHERE id = ?`

	_, err = querier.ExecContext(
		ctx,
		query,
		string(item.Status),
		item.Attempts,
		item.Error,
		item.LockedBy,
		item.LockedAt,
		item.StartedAt,
		item.FinishedAt,
		item.UpdatedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update queue item")
	}
	return nil
}

// LeaseNext selects the next PENDING item with SKIP LOCKED and marks it RUNNING. Both
// statements must run inside the caller's transaction so the row lock covers the update.
func (m *MySQLQueueItemRepository) LeaseNext(
	ctx context.Context,
	queueID int64,
	workerID string,
	now time.Time,
) (*queueDomain.QueueItem, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + itemColumns + ` FROM queue_items
			  WHERE queue_id = ? AND status = ?
			  ORDER BY priority DESC, created_at ASC
			  LIMIT 1
			  FOR UPDATE SKIP LOCKED`

	item, err := scanMySQLItem(querier.QueryRowContext(ctx, query, queueID, string(queueDomain.StatusPending)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "failed to lease queue item")
	}

	item.MarkRunning(workerID, now)
	if err := m.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (m *MySQLQueueItemRepository) list(ctx context.Context, query string, args ...any) ([]*queueDomain.QueueItem, error) {
	querier := database.GetTx(ctx, m.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list queue items")
	}
	defer rows.Close() //nolint:errcheck

	items := make([]*queueDomain.QueueItem, 0)
	for rows.Next() {
		item, err := scanMySQLItem(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan queue item")
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate queue items")
	}
	return items, nil
}

// ListByStatus returns items of a queue with the given status in lease order.
func (m *MySQLQueueItemRepository) ListByStatus(
	ctx context.Context,
	queueID int64,
	status queueDomain.ItemStatus,
	offset, limit int,
) ([]*queueDomain.QueueItem, error) {
	query := `SELECT ` + itemColumns + ` FROM queue_items
			  WHERE queue_id = ? AND status = ?
			  ORDER BY priority DESC, created_at ASC
			  LIMIT ? OFFSET ?`
	return m.list(ctx, query, queueID, string(status), limit, offset)
}

// CountByQueue returns how many items reference the queue.
func (m *MySQLQueueItemRepository) CountByQueue(ctx context.Context, queueID int64) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM queue_items WHERE queue_id = ?`, queueID).
		Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count queue items")
	}
	return count, nil
}

// ListExpiredLeases returns RUNNING items leased before lockedBefore, locking them.
func (m *MySQLQueueItemRepository) ListExpiredLeases(
	ctx context.Context,
	lockedBefore time.Time,
	limit int,
) ([]*queueDomain.QueueItem, error) {
	query := `SELECT ` + itemColumns + ` FROM queue_items
			  WHERE status = ? AND locked_at < ?
			  ORDER BY locked_at ASC
			  LIMIT ?
			  FOR UPDATE SKIP LOCKED`
	return m.list(ctx, query, string(queueDomain.StatusRunning), lockedBefore, limit)
}
