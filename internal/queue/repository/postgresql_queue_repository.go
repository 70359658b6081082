package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/orchestrator/internal/database"
	apperrors "github.com/allisson/orchestrator/internal/errors"
	queueDomain "github.com/allisson/orchestrator/internal/queue/domain"
)

// PostgreSQLQueueRepository implements Queue persistence for PostgreSQL.
type PostgreSQLQueueRepository struct {
	db *sql.DB
}

// NewPostgreSQLQueueRepository creates a new PostgreSQL Queue repository.
func NewPostgreSQLQueueRepository(db *sql.DB) *PostgreSQLQueueRepository {
	return &PostgreSQLQueueRepository{db: db}
}

// Create inserts a new Queue and sets its generated ID.
func (p *PostgreSQLQueueRepository) Create(ctx context.Context, queue *queueDomain.Queue) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO queues (name, description, is_active, created_at)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`

	err := querier.QueryRowContext(
		ctx,
		query,
		queue.Name,
		queue.Description,
		queue.IsActive,
		queue.CreatedAt,
	).Scan(&queue.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return queueDomain.ErrDuplicateQueueName
		}
		return apperrors.Wrap(err, "failed to create queue")
	}
	return nil
}

// GetByName retrieves a Queue by its unique name.
func (p *PostgreSQLQueueRepository) GetByName(ctx context.Context, name string) (*queueDomain.Queue, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + queueColumns + ` FROM queues WHERE name = $1`

	queue, err := scanQueue(querier.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, queueDomain.ErrQueueNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get queue")
	}
	return queue, nil
}

// ToggleActive flips is_active atomically and returns the updated row.
func (p *PostgreSQLQueueRepository) ToggleActive(ctx context.Context, name string) (*queueDomain.Queue, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE queues SET is_active = NOT is_active
			  WHERE name = $1
			  RETURNING ` + queueColumns

	queue, err := scanQueue(querier.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, queueDomain.ErrQueueNotFound
		}
		return nil, apperrors.Wrap(err, "failed to toggle queue")
	}
	return queue, nil
}

// Delete removes a Queue by ID.
func (p *PostgreSQLQueueRepository) Delete(ctx context.Context, queueID int64) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM queues WHERE id = $1`, queueID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete queue")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to delete queue")
	}
	if rows == 0 {
		return queueDomain.ErrQueueNotFound
	}
	return nil
}
