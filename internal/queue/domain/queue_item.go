package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ItemStatus is the lifecycle state of a QueueItem.
type ItemStatus string

// Item statuses. SUCCESS, FAILED and RETIRED are terminal.
const (
	StatusPending ItemStatus = "PENDING"
	StatusRunning ItemStatus = "RUNNING"
	StatusSuccess ItemStatus = "SUCCESS"
	StatusFailed  ItemStatus = "FAILED"
	StatusRetired ItemStatus = "RETIRED"
)

// DefaultMaxAttempts is the retry budget of an item when none is given.
const DefaultMaxAttempts = 3

// IsTerminal reports whether no further transition is allowed from s.
func (s ItemStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusRetired
}

// FailureKind classifies a reported failure.
type FailureKind string

const (
	// FailureTechnical is a transient failure; the item is retried while attempts remain.
	FailureTechnical FailureKind = "technical"
	// FailureBusiness is a non-retriable failure; the item is retired immediately.
	FailureBusiness FailureKind = "business"
)

// ParseFailureKind maps a caller supplied exception tag to a FailureKind.
// Anything that is not a business tag is treated as technical.
func ParseFailureKind(tag string) FailureKind {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "business", "businessexception", "business_exception":
		return FailureBusiness
	default:
		return FailureTechnical
	}
}

// QueueItem is a unit of work owned by a Queue.
type QueueItem struct {
	ID          uuid.UUID
	QueueID     int64
	Payload     map[string]any
	Priority    int
	Status      ItemStatus
	Attempts    int
	MaxAttempts int
	Error       *string
	// LockedBy is non-nil iff Status is RUNNING.
	LockedBy   *string
	LockedAt   *time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewQueueItem builds a PENDING item with zero attempts.
func NewQueueItem(
	id uuid.UUID,
	queueID int64,
	payload map[string]any,
	priority, maxAttempts int,
	now time.Time,
) *QueueItem {
	if id == uuid.Nil {
		id = uuid.New()
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return &QueueItem{
		ID:          id,
		QueueID:     queueID,
		Payload:     payload,
		Priority:    priority,
		Status:      StatusPending,
		MaxAttempts: maxAttempts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MarkRunning leases the item to workerID.
func (i *QueueItem) MarkRunning(workerID string, now time.Time) {
	i.Status = StatusRunning
	i.LockedBy = &workerID
	i.LockedAt = &now
	i.StartedAt = &now
	i.UpdatedAt = now
}

// MarkSuccess moves a RUNNING item to SUCCESS.
func (i *QueueItem) MarkSuccess(now time.Time) error {
	if i.Status != StatusRunning {
		return ErrItemNotRunning
	}
	i.Status = StatusSuccess
	i.LockedBy = nil
	i.LockedAt = nil
	i.FinishedAt = &now
	i.UpdatedAt = now
	return nil
}

// MarkFailure records a failed attempt on a RUNNING item. A business failure retires
// the item regardless of attempts; a technical failure fails it once the retry budget is
// spent and otherwise returns it to PENDING with the lease cleared.
func (i *QueueItem) MarkFailure(message string, kind FailureKind, now time.Time) error {
	if i.Status != StatusRunning {
		return ErrItemNotRunning
	}

	i.Attempts++
	i.Error = &message
	i.LockedBy = nil
	i.LockedAt = nil
	i.UpdatedAt = now

	switch {
	case kind == FailureBusiness:
		i.Status = StatusRetired
		i.FinishedAt = &now
	case i.Attempts >= i.MaxAttempts:
		i.Status = StatusFailed
		i.FinishedAt = &now
	default:
		i.Status = StatusPending
	}
	return nil
}

// AddItemInput describes an item to enqueue. ID is optional and lets clients create
// items idempotently; MaxAttempts falls back to the configured default when zero.
type AddItemInput struct {
	ID          uuid.UUID
	Payload     map[string]any
	Priority    int
	MaxAttempts int
}
