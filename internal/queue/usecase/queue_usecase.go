package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/allisson/orchestrator/internal/database"
	apperrors "github.com/allisson/orchestrator/internal/errors"
	queueDomain "github.com/allisson/orchestrator/internal/queue/domain"
	customValidation "github.com/allisson/orchestrator/internal/validation"
)

// leaseExpiredMessage is recorded on items reclaimed from a stale lease.
const leaseExpiredMessage = "lease expired"

// queueUseCase implements QueueUseCase on top of the queue and item repositories.
type queueUseCase struct {
	txManager          database.TxManager
	queueRepo          QueueRepository
	itemRepo           QueueItemRepository
	defaultMaxAttempts int
}

// NewQueueUseCase creates a new QueueUseCase. defaultMaxAttempts applies to items added
// without an explicit retry budget.
func NewQueueUseCase(
	txManager database.TxManager,
	queueRepo QueueRepository,
	itemRepo QueueItemRepository,
	defaultMaxAttempts int,
) QueueUseCase {
	if defaultMaxAttempts <= 0 {
		defaultMaxAttempts = queueDomain.DefaultMaxAttempts
	}
	return &queueUseCase{
		txManager:          txManager,
		queueRepo:          queueRepo,
		itemRepo:           itemRepo,
		defaultMaxAttempts: defaultMaxAttempts,
	}
}

// CreateQueue creates a new active queue. Returns ErrDuplicateQueueName if the name is taken.
func (q *queueUseCase) CreateQueue(ctx context.Context, name, description string) (*queueDomain.Queue, error) {
	name = strings.TrimSpace(name)
	if err := validation.Validate(name,
		validation.Required,
		validation.Length(1, 255),
		customValidation.Identifier,
	); err != nil {
		return nil, customValidation.WrapValidationError(apperrors.Wrap(err, "name"))
	}

	queue := &queueDomain.Queue{
		Name:        name,
		Description: description,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}

	if err := q.queueRepo.Create(ctx, queue); err != nil {
		return nil, err
	}

	return queue, nil
}

// DeleteQueue removes an empty queue. Queues still referenced by items are kept.
func (q *queueUseCase) DeleteQueue(ctx context.Context, name string) error {
	return q.txManager.WithTx(ctx, func(ctx context.Context) error {
		queue, err := q.queueRepo.GetByName(ctx, name)
		if err != nil {
			return err
		}

		count, err := q.itemRepo.CountByQueue(ctx, queue.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return queueDomain.ErrQueueHasItems
		}

		return q.queueRepo.Delete(ctx, queue.ID)
	})
}

// ToggleActive flips the queue's pause switch.
func (q *queueUseCase) ToggleActive(ctx context.Context, name string) (*queueDomain.Queue, error) {
	queue, err := q.queueRepo.ToggleActive(ctx, name)
	if err != nil {
		if apperrors.Is(err, queueDomain.ErrQueueNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return queue, nil
}

// AddItem enqueues a PENDING item. Re-submitting a client supplied id for the same queue
// returns the existing item unchanged.
func (q *queueUseCase) AddItem(
	ctx context.Context,
	queueName string,
	input queueDomain.AddItemInput,
) (*queueDomain.QueueItem, error) {
	if input.MaxAttempts < 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "max_attempts must not be negative")
	}

	queue, err := q.queueRepo.GetByName(ctx, queueName)
	if err != nil {
		return nil, err
	}

	maxAttempts := input.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = q.defaultMaxAttempts
	}

	item := queueDomain.NewQueueItem(
		input.ID,
		queue.ID,
		input.Payload,
		input.Priority,
		maxAttempts,
		time.Now().UTC(),
	)

	if err := q.itemRepo.Create(ctx, item); err != nil {
		if input.ID != uuid.Nil && apperrors.Is(err, queueDomain.ErrItemIDConflict) {
			existing, getErr := q.itemRepo.Get(ctx, input.ID)
			if getErr != nil {
				return nil, getErr
			}
			if existing.QueueID == queue.ID {
				return existing, nil
			}
		}
		return nil, err
	}

	return item, nil
}

// ListPending returns PENDING items in lease order.
func (q *queueUseCase) ListPending(
	ctx context.Context,
	queueName string,
	offset, limit int,
) ([]*queueDomain.QueueItem, error) {
	return q.listByStatus(ctx, queueName, queueDomain.StatusPending, offset, limit)
}

// ListRetired returns items retired by a business failure.
func (q *queueUseCase) ListRetired(
	ctx context.Context,
	queueName string,
	offset, limit int,
) ([]*queueDomain.QueueItem, error) {
	return q.listByStatus(ctx, queueName, queueDomain.StatusRetired, offset, limit)
}

func (q *queueUseCase) listByStatus(
	ctx context.Context,
	queueName string,
	status queueDomain.ItemStatus,
	offset, limit int,
) ([]*queueDomain.QueueItem, error) {
	queue, err := q.queueRepo.GetByName(ctx, queueName)
	if err != nil {
		return nil, err
	}
	return q.itemRepo.ListByStatus(ctx, queue.ID, status, offset, limit)
}

// LeaseNext hands the next eligible item of the queue to workerID. A nil item with a nil
// error means nothing is available right now.
func (q *queueUseCase) LeaseNext(
	ctx context.Context,
	queueName, workerID string,
) (*queueDomain.QueueItem, error) {
	if err := validation.Validate(workerID, validation.Required, customValidation.NotBlank); err != nil {
		return nil, customValidation.WrapValidationError(apperrors.Wrap(err, "worker_id"))
	}

	queue, err := q.queueRepo.GetByName(ctx, queueName)
	if err != nil {
		return nil, err
	}
	if !queue.IsActive {
		return nil, queueDomain.ErrQueuePaused
	}

	var item *queueDomain.QueueItem
	err = q.txManager.WithTx(ctx, func(ctx context.Context) error {
		var leaseErr error
		item, leaseErr = q.itemRepo.LeaseNext(ctx, queue.ID, workerID, time.Now().UTC())
		return leaseErr
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// RecordSuccess moves a RUNNING item to SUCCESS.
func (q *queueUseCase) RecordSuccess(ctx context.Context, itemID uuid.UUID) (*queueDomain.QueueItem, error) {
	return q.transition(ctx, itemID, func(item *queueDomain.QueueItem, now time.Time) error {
		return item.MarkSuccess(now)
	})
}

// RecordFailure applies the retry policy to a RUNNING item. An empty message is
// recorded as "Unknown error".
func (q *queueUseCase) RecordFailure(
	ctx context.Context,
	itemID uuid.UUID,
	message string,
	kind queueDomain.FailureKind,
) (*queueDomain.QueueItem, error) {
	if strings.TrimSpace(message) == "" {
		message = "Unknown error"
	}
	return q.transition(ctx, itemID, func(item *queueDomain.QueueItem, now time.Time) error {
		return item.MarkFailure(message, kind, now)
	})
}

// transition loads the item under a row lock, applies fn and persists the result.
func (q *queueUseCase) transition(
	ctx context.Context,
	itemID uuid.UUID,
	fn func(item *queueDomain.QueueItem, now time.Time) error,
) (*queueDomain.QueueItem, error) {
	var item *queueDomain.QueueItem
	err := q.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		item, err = q.itemRepo.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}

		if err := fn(item, time.Now().UTC()); err != nil {
			return err
		}

		return q.itemRepo.Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ReclaimExpiredLeases records a technical "lease expired" failure on every item whose
// lease is older than timeout, so the retry budget still decides between PENDING and FAILED.
func (q *queueUseCase) ReclaimExpiredLeases(ctx context.Context, timeout time.Duration, limit int) (int, error) {
	reclaimed := 0
	err := q.txManager.WithTx(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()
		items, err := q.itemRepo.ListExpiredLeases(ctx, now.Add(-timeout), limit)
		if err != nil {
			return err
		}

		for _, item := range items {
			if err := item.MarkFailure(leaseExpiredMessage, queueDomain.FailureTechnical, now); err != nil {
				return err
			}
			if err := q.itemRepo.Update(ctx, item); err != nil {
				return err
			}
			reclaimed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return reclaimed, nil
}
