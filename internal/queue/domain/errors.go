// Package domain defines the work queue entities, their status state machine and errors.
package domain

import (
	"github.com/allisson/orchestrator/internal/errors"
)

// Queue-specific error definitions.
var (
	// ErrDuplicateQueueName indicates a queue with the same name already exists.
	ErrDuplicateQueueName = errors.Wrap(errors.ErrConflict, "queue name already exists")

	// ErrQueueNotFound indicates no queue exists with the given name or id.
	ErrQueueNotFound = errors.Wrap(errors.ErrNotFound, "queue not found")

	// ErrQueuePaused indicates the queue is inactive and will not hand out items.
	ErrQueuePaused = errors.Wrap(errors.ErrLocked, "queue is paused")

	// ErrQueueHasItems indicates a queue cannot be deleted while items reference it.
	ErrQueueHasItems = errors.Wrap(errors.ErrConflict, "queue still has items")

	// ErrItemNotFound indicates no queue item exists with the given id.
	ErrItemNotFound = errors.Wrap(errors.ErrNotFound, "queue item not found")

	// ErrItemNotRunning indicates an outcome was reported for an item that holds no lease.
	ErrItemNotRunning = errors.Wrap(errors.ErrConflict, "queue item is not running")

	// ErrItemIDConflict indicates a client-supplied item id is already used by another queue.
	ErrItemIDConflict = errors.Wrap(errors.ErrConflict, "queue item id already used by another queue")
)
