package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/orchestrator/internal/metrics"
	queueDomain "github.com/allisson/orchestrator/internal/queue/domain"
)

const metricsDomain = "queue"

// queueUseCaseWithMetrics decorates QueueUseCase with metrics instrumentation.
type queueUseCaseWithMetrics struct {
	next    QueueUseCase
	metrics metrics.BusinessMetrics
}

// NewQueueUseCaseWithMetrics wraps a QueueUseCase with metrics recording.
func NewQueueUseCaseWithMetrics(useCase QueueUseCase, m metrics.BusinessMetrics) QueueUseCase {
	return &queueUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (q *queueUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, q.metrics, metricsDomain, operation, start, err)
}

// CreateQueue records metrics for queue creation.
func (q *queueUseCaseWithMetrics) CreateQueue(
	ctx context.Context,
	name, description string,
) (*queueDomain.Queue, error) {
	start := time.Now()
	queue, err := q.next.CreateQueue(ctx, name, description)
	q.record(ctx, "queue_create", start, err)
	return queue, err
}

// DeleteQueue records metrics for queue deletion.
func (q *queueUseCaseWithMetrics) DeleteQueue(ctx context.Context, name string) error {
	start := time.Now()
	err := q.next.DeleteQueue(ctx, name)
	q.record(ctx, "queue_delete", start, err)
	return err
}

// ToggleActive records metrics for pause switch changes.
func (q *queueUseCaseWithMetrics) ToggleActive(ctx context.Context, name string) (*queueDomain.Queue, error) {
	start := time.Now()
	queue, err := q.next.ToggleActive(ctx, name)
	q.record(ctx, "queue_toggle", start, err)
	return queue, err
}

// AddItem records metrics for item creation.
func (q *queueUseCaseWithMetrics) AddItem(
	ctx context.Context,
	queueName string,
	input queueDomain.AddItemInput,
) (*queueDomain.QueueItem, error) {
	start := time.Now()
	item, err := q.next.AddItem(ctx, queueName, input)
	q.record(ctx, "item_add", start, err)
	return item, err
}

// ListPending records metrics for pending item listing.
func (q *queueUseCaseWithMetrics) ListPending(
	ctx context.Context,
	queueName string,
	offset, limit int,
) ([]*queueDomain.QueueItem, error) {
	start := time.Now()
	items, err := q.next.ListPending(ctx, queueName, offset, limit)
	q.record(ctx, "item_list_pending", start, err)
	return items, err
}

// ListRetired records metrics for retired item listing.
func (q *queueUseCaseWithMetrics) ListRetired(
	ctx context.Context,
	queueName string,
	offset, limit int,
) ([]*queueDomain.QueueItem, error) {
	start := time.Now()
	items, err := q.next.ListRetired(ctx, queueName, offset, limit)
	q.record(ctx, "item_list_retired", start, err)
	return items, err
}

// LeaseNext records metrics for leasing. An empty queue is recorded as "empty".
func (q *queueUseCaseWithMetrics) LeaseNext(
	ctx context.Context,
	queueName, workerID string,
) (*queueDomain.QueueItem, error) {
	start := time.Now()
	item, err := q.next.LeaseNext(ctx, queueName, workerID)

	status := "success"
	switch {
	case err != nil:
		status = "error"
	case item == nil:
		status = "empty"
	}
	q.metrics.RecordOperation(ctx, metricsDomain, "item_lease", status)
	q.metrics.RecordDuration(ctx, metricsDomain, "item_lease", time.Since(start), status)

	return item, err
}

// RecordSuccess records metrics for successful outcome reports.
func (q *queueUseCaseWithMetrics) RecordSuccess(
	ctx context.Context,
	itemID uuid.UUID,
) (*queueDomain.QueueItem, error) {
	start := time.Now()
	item, err := q.next.RecordSuccess(ctx, itemID)
	q.record(ctx, "item_success", start, err)
	return item, err
}

// RecordFailure records metrics for failure reports.
func (q *queueUseCaseWithMetrics) RecordFailure(
	ctx context.Context,
	itemID uuid.UUID,
	message string,
	kind queueDomain.FailureKind,
) (*queueDomain.QueueItem, error) {
	start := time.Now()
	item, err := q.next.RecordFailure(ctx, itemID, message, kind)
	q.record(ctx, "item_fail_"+string(kind), start, err)
	return item, err
}

// ReclaimExpiredLeases records metrics for lease reclamation passes.
func (q *queueUseCaseWithMetrics) ReclaimExpiredLeases(
	ctx context.Context,
	timeout time.Duration,
	limit int,
) (int, error) {
	start := time.Now()
	count, err := q.next.ReclaimExpiredLeases(ctx, timeout, limit)
	q.record(ctx, "lease_reclaim", start, err)
	return count, err
}
