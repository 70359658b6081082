package domain

import (
	"time"
)

// Queue is a named, pausable channel of work items.
type Queue struct {
	ID          int64
	Name        string
	Description string
	// IsActive is the pause switch; an inactive queue never yields leased items.
	IsActive  bool
	CreatedAt time.Time
}

// StatusLabel returns the human readable state of the pause switch.
func (q *Queue) StatusLabel() string {
	if q.IsActive {
		return "active"
	}
	return "paused"
}
