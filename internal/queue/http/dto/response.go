package dto

import (
	"fmt"
	"time"

	queueDomain "github.com/allisson/orchestrator/internal/queue/domain"
)

// Outcome acknowledgements shared by the HTTP API and the worker gateway.
const (
	StatusItemSucceeded = "Item marked as success"
	StatusItemFailed    = "Item marked as fail"
	MessageNoItems      = "No items available"
)

// QueueResponse represents a queue in API responses.
type QueueResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// MapQueueToResponse converts a domain queue to an API response.
func MapQueueToResponse(queue *queueDomain.Queue) QueueResponse {
	return QueueResponse{
		ID:          queue.ID,
		Name:        queue.Name,
		Description: queue.Description,
		IsActive:    queue.IsActive,
		CreatedAt:   queue.CreatedAt,
	}
}

// QueueStatusResponse is returned after toggling a queue.
type QueueStatusResponse struct {
	QueueName string `json:"queue_name"`
	IsActive  bool   `json:"is_active"`
	Message   string `json:"message"`
}

// MapQueueToStatusResponse converts a toggled queue to a status response.
func MapQueueToStatusResponse(queue *queueDomain.Queue) QueueStatusResponse {
	return QueueStatusResponse{
		QueueName: queue.Name,
		IsActive:  queue.IsActive,
		Message:   fmt.Sprintf("Queue status: %s.", queue.StatusLabel()),
	}
}

// ItemResponse represents a queue item in API responses and gateway replies.
type ItemResponse struct {
	ID          string         `json:"id"`
	QueueID     int64          `json:"queue_id"`
	Payload     map[string]any `json:"payload"`
	Priority    int            `json:"priority"`
	Status      string         `json:"status"`
	Attempts    int            `json:"attempts"`
	MaxAttempts int            `json:"max_attempts"`
	Error       *string        `json:"error"`
	LockedBy    *string        `json:"locked_by"`
	LockedAt    *time.Time     `json:"locked_at"`
	StartedAt   *time.Time     `json:"started_at"`
	FinishedAt  *time.Time     `json:"finished_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// MapItemToResponse converts a domain item to an API response.
func MapItemToResponse(item *queueDomain.QueueItem) ItemResponse {
	return ItemResponse{
		ID:          item.ID.String(),
		QueueID:     item.QueueID,
		Payload:     item.Payload,
		Priority:    item.Priority,
		Status:      string(item.Status),
		Attempts:    item.Attempts,
		MaxAttempts: item.MaxAttempts,
		Error:       item.Error,
		LockedBy:    item.LockedBy,
		LockedAt:    item.LockedAt,
		StartedAt:   item.StartedAt,
		FinishedAt:  item.FinishedAt,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// ListItemsResponse wraps a page of items.
type ListItemsResponse struct {
	Items []ItemResponse `json:"items"`
}

// MapItemsToListResponse converts domain items to a list response.
func MapItemsToListResponse(items []*queueDomain.QueueItem) ListItemsResponse {
	responses := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, MapItemToResponse(item))
	}
	return ListItemsResponse{Items: responses}
}

// ItemOutcomeResponse acknowledges a success or failure report.
type ItemOutcomeResponse struct {
	Status string `json:"status"`
	ItemID string `json:"item_id"`
}
