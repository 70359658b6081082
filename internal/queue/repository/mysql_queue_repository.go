package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/orchestrator/internal/database"
	apperrors "github.com/allisson/orchestrator/internal/errors"
	queueDomain "github.com/allisson/orchestrator/internal/queue/domain"
)

// MySQLQueueRepository implements Queue persistence for MySQL.
type MySQLQueueRepository struct {
	db *sql.DB
}

// NewMySQLQueueRepository creates a new MySQL Queue repository.
func NewMySQLQueueRepository(db *sql.DB) *MySQLQueueRepository {
	return &MySQLQueueRepository{db: db}
}

// Create inserts a new Queue and sets its auto-increment ID.
func (m *MySQLQueueRepository) Create(ctx context.Context, queue *queueDomain.Queue) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO queues (name, description, is_active, created_at) VALUES (?, ?, ?, ?)`

	result, err := querier.ExecContext(ctx, query, queue.Name, queue.Description, queue.IsActive, queue.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return queueDomain.ErrDuplicateQueueName
		}
		return apperrors.Wrap(err, "failed to create queue")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to read queue id")
	}
	queue.ID = id
	return nil
}

// GetByName retrieves a Queue by its unique name.
func (m *MySQLQueueRepository) GetByName(ctx context.Context, name string) (*queueDomain.Queue, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + queueColumns + ` FROM queues WHERE name = ?`

	queue, err := scanQueue(querier.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, queueDomain.ErrQueueNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get queue")
	}
	return queue, nil
}

// ToggleActive flips is_active with a single UPDATE and reads the row back. MySQL has no
// RETURNING clause, so the read happens on the same connection when called inside a transaction.
func (m *MySQLQueueRepository) ToggleActive(ctx context.Context, name string) (*queueDomain.Queue, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `UPDATE queues SET is_active = NOT is_active WHERE name = ?`, name)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to toggle queue")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to toggle queue")
	}
	if rows == 0 {
		return nil, queueDomain.ErrQueueNotFound
	}

	return m.GetByName(ctx, name)
}

// Delete removes a Queue by ID.
func (m *MySQLQueueRepository) Delete(ctx context.Context, queueID int64) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM queues WHERE id = ?`, queueID)
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
