// Package usecase implements the dispatch service: queue management, leasing of work items
// to workers and recording of their outcomes under the retry policy.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	queueDomain "github.com/allisson/orchestrator/internal/queue/domain"
)

// QueueRepository defines the interface for Queue persistence operations.
type QueueRepository interface {
	// Create inserts the queue and sets its ID. Returns ErrDuplicateQueueName on a name clash.
	Create(ctx context.Context, queue *queueDomain.Queue) error
	GetByName(ctx context.Context, name string) (*queueDomain.Queue, error)
	// ToggleActive flips is_active atomically and returns the updated queue.
	ToggleActive(ctx context.Context, name string) (*queueDomain.Queue, error)
	Delete(ctx context.Context, queueID int64) error
}

// QueueItemRepository defines the interface for QueueItem persistence operations.
type QueueItemRepository interface {
	// Create inserts a new item. Returns ErrItemIDConflict when the id already exists.
	Create(ctx context.Context, item *queueDomain.QueueItem) error
	Get(ctx context.Context, itemID uuid.UUID) (*queueDomain.QueueItem, error)
	// GetForUpdate loads the item and holds its row lock until the transaction ends.
	GetForUpdate(ctx context.Context, itemID uuid.UUID) (*queueDomain.QueueItem, error)
	Update(ctx context.Context, item *queueDomain.QueueItem) error
	// LeaseNext atomically claims the highest priority, oldest PENDING item of the queue,
	// skipping rows locked by concurrent callers. Returns nil when nothing is eligible.
	LeaseNext(ctx context.Context, queueID int64, workerID string, now time.Time) (*queueDomain.QueueItem, error)
	ListByStatus(
		ctx context.Context,
		queueID int64,
		status queueDomain.ItemStatus,
		offset, limit int,
	) ([]*queueDomain.QueueItem, error)
	CountByQueue(ctx context.Context, queueID int64) (int64, error)
	// ListExpiredLeases returns RUNNING items locked before lockedBefore, locking them and
	// skipping rows already locked by a concurrent outcome report.
	ListExpiredLeases(ctx context.Context, lockedBefore time.Time, limit int) ([]*queueDomain.QueueItem, error)
}

// QueueUseCase defines the dispatch service consumed by the HTTP API and the worker gateway.
type QueueUseCase interface {
	CreateQueue(ctx context.Context, name, description string) (*queueDomain.Queue, error)
	DeleteQueue(ctx context.Context, name string) error
	// ToggleActive flips the pause switch. Returns nil, nil when the queue does not exist.
	ToggleActive(ctx context.Context, name string) (*queueDomain.Queue, error)
	AddItem(ctx context.Context, queueName string, input queueDomain.AddItemInput) (*queueDomain.QueueItem, error)
	ListPending(ctx context.Context, queueName string, offset, limit int) ([]*queueDomain.QueueItem, error)
	ListRetired(ctx context.Context, queueName string, offset, limit int) ([]*queueDomain.QueueItem, error)
	// LeaseNext returns nil, nil when the queue has no eligible item.
	LeaseNext(ctx context.Context, queueName, workerID string) (*queueDomain.QueueItem, error)
	RecordSuccess(ctx context.Context, itemID uuid.UUID) (*queueDomain.QueueItem, error)
	RecordFailure(
		ctx context.Context,
		itemID uuid.UUID,
		message string,
		kind queueDomain.FailureKind,
	) (*queueDomain.QueueItem, error)
	// ReclaimExpiredLeases applies a technical failure to leases older than timeout.
	ReclaimExpiredLeases(ctx context.Context, timeout time.Duration, limit int) (int, error)
}
