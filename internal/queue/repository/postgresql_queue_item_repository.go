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

// PostgreSQLQueueItemRepository implements QueueItem persistence for PostgreSQL.
type PostgreSQLQueueItemRepository struct {
	db *sql.DB
}

// NewPostgreSQLQueueItemRepository creates a new PostgreSQL QueueItem repository.
func NewPostgreSQLQueueItemRepository(db *sql.DB) *PostgreSQLQueueItemRepository {
	return &PostgreSQLQueueItemRepository{db: db}
}

func scanPostgreSQLItem(row scanner) (*queueDomain.QueueItem, error) {
	var id uuid.UUID
	item, err := scanItem(row, &id)
	if err != nil {
		return nil, err
	}
	item.ID = id
	return item, nil
}

// Create inserts a new QueueItem.
func (p *PostgreSQLQueueItemRepository) Create(ctx context.Context, item *queueDomain.QueueItem) error {
	querier := database.GetTx(ctx, p.db)

	payload, err := marshalPayload(item.Payload)
	if err != nil {
		return err
	}

	query := `INSERT INTO queue_items (id, queue_id, payload, priority, status, attempts, max_attempts,
			  error, locked_by, locked_at, started_at, finished_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = querier.ExecContext(
		ctx,
		query,
		item.ID,
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

func (p *PostgreSQLQueueItemRepository) get(ctx context.Context, query string, itemID uuid.UUID) (*queueDomain.QueueItem, error) {
	querier := database.GetTx(ctx, p.db)

	item, err := scanPostgreSQLItem(querier.QueryRowContext(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, queueDomain.ErrItemNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get queue item")
	}
	return item, nil
}

// Get retrieves a QueueItem by ID.
func (p *PostgreSQLQueueItemRepository) Get(ctx context.Context, itemID uuid.UUID) (*queueDomain.QueueItem, error) {
	return p.get(ctx, `SELECT `+itemColumns+` FROM queue_items WHERE id = $1`, itemID)
}

// GetForUpdate retrieves a QueueItem by ID and locks its row for the current transaction.
func (p *PostgreSQLQueueItemRepository) GetForUpdate(
	ctx context.Context,
	itemID uuid.UUID,
) (*queueDomain.QueueItem, error) {
	return p.get(ctx, `SELECT `+itemColumns+` FROM queue_items WHERE id = $1 FOR UPDATE`, itemID)
}

// Update persists the mutable state of a QueueItem.
func (p *PostgreSQLQueueItemRepository) Update(ctx context.Context, item *queueDomain.QueueItem) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE queue_items
			  SET status = $1,
				  attempts = $2,
				  error = $3,
				  locked_by = $4,
				  locked_at = $5,
				  started_at = $6,
				  finished_at = $7,
				  updated_at = $8
			  WHERE id = $9`

	result, err := querier.ExecContext(
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
		item.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update queue item")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update queue item")
	}
	if rows == 0 {
		return queueDomain.ErrItemNotFound
	}
	return nil
}

// LeaseNext claims the next PENDING item in one statement. The inner SELECT skips rows
// locked by concurrent leases, so a losing racer moves on to the next candidate.
func (p *PostgreSQLQueueItemRepository) LeaseNext(
	ctx context.Context,
	queueID int64,
	workerID string,
	now time.Time,
) (*queueDomain.QueueItem, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE queue_items
			  SET status = $1, locked_by = $2, locked_at = $3, started_at = $3, updated_at = $3
			  WHERE id = (
				  SELECT id FROM queue_items
				  WHERE queue_id = $4 AND status = $5
				  ORDER BY priority DESC, created_at ASC
				  LIMIT 1
				  FOR UPDATE SKIP LOCKED
			  )
			  RETURNING ` + itemColumns

	item, err := scanPostgreSQLItem(querier.QueryRowContext(
		ctx,
		query,
		string(queueDomain.StatusRunning),
		workerID,
		now,
		queueID,
		string(queueDomain.StatusPending),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "failed to lease queue item")
	}
	return item, nil
}

func (p *PostgreSQLQueueItemRepository) list(ctx context.Context, query string, args ...any) ([]*queueDomain.QueueItem, error) {
	querier := database.GetTx(ctx, p.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list queue items")
	}
	defer rows.Close() //nolint:errcheck

	items := make([]*queueDomain.QueueItem, 0)
	for rows.Next() {
		item, err := scanPostgreSQLItem(rows)
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
func (p *PostgreSQLQueueItemRepository) ListByStatus(
	ctx context.Context,
	queueID int64,
	status queueDomain.ItemStatus,
	offset, limit int,
) ([]*queueDomain.QueueItem, error) {
	query := `SELECT ` + itemColumns + ` FROM queue_items
			  WHERE queue_id = $1 AND status = $2
			  ORDER BY priority DESC, created_at ASC
			  LIMIT $3 OFFSET $4`
	return p.list(ctx, query, queueID, string(status), limit, offset)
}

// CountByQueue returns how many items reference the queue.
func (p *PostgreSQLQueueItemRepository) CountByQueue(ctx context.Context, queueID int64) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM queue_items WHERE queue_id = $1`, queueID).
		Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count queue items")
	}
	return count, nil
}

// ListExpiredLeases returns RUNNING items leased before lockedBefore, locking them.
func (p *PostgreSQLQueueItemRepository) ListExpiredLeases(
	ctx context.Context,
	lockedBefore time.Time,
	limit int,
) ([]*queueDomain.QueueItem, error) {
	query := `SELECT ` + itemColumns + ` FROM queue_items
			  WHERE status = $1 AND locked_at < $2
			  ORDER BY locked_at ASC
			  LIMIT $3
			  FOR UPDATE SKIP LOCKED`
	return p.list(ctx, query, string(queueDomain.StatusRunning), lockedBefore, limit)
}
