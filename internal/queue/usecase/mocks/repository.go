// Package mocks provides mock implementations of queue repositories and use cases for testing.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	queueDomain "github.com/allisson/orchestrator/internal/queue/domain"
)

// MockQueueRepository is a mock implementation of QueueRepository.
type MockQueueRepository struct {
	mock.Mock
}

// Create mocks the Create method of QueueRepository.
func (m *MockQueueRepository) Create(ctx context.Context, queue *queueDomain.Queue) error {
	args := m.Called(ctx, queue)
	return args.Error(0)
}

// GetByName mocks the GetByName method of QueueRepository.
func (m *MockQueueRepository) GetByName(ctx context.Context, name string) (*queueDomain.Queue, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueDomain.Queue), args.Error(1)
}

// ToggleActive mocks the ToggleActive method of QueueRepository.
func (m *MockQueueRepository) ToggleActive(ctx context.Context, name string) (*queueDomain.Queue, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueDomain.Queue), args.Error(1)
}

// Delete mocks the Delete method of QueueRepository.
func (m *MockQueueRepository) Delete(ctx context.Context, queueID int64) error {
	args := m.Called(ctx, queueID)
	return args.Error(0)
}

// MockQueueItemRepository is a mock implementation of QueueItemRepository.
type MockQueueItemRepository struct {
	mock.Mock
}

// Create mocks the Create method of QueueItemRepository.
func (m *MockQueueItemRepository) Create(ctx context.Context, item *queueDomain.QueueItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// Get mocks the Get method of QueueItemRepository.
func (m *MockQueueItemRepository) Get(ctx context.Context, itemID uuid.UUID) (*queueDomain.QueueItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueDomain.QueueItem), args.Error(1)
}

// GetForUpdate mocks the GetForUpdate method of QueueItemRepository.
func (m *MockQueueItemRepository) GetForUpdate(
	ctx context.Context,
	itemID uuid.UUID,
) (*queueDomain.QueueItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueDomain.QueueItem), args.Error(1)
}

// Update mocks the Update method of QueueItemRepository.
func (m *MockQueueItemRepository) Update(ctx context.Context, item *queueDomain.QueueItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// LeaseNext mocks the LeaseNext method of QueueItemRepository.
func (m *MockQueueItemRepository) LeaseNext(
	ctx context.Context,
	queueID int64,
	workerID string,
	now time.Time,
) (*queueDomain.QueueItem, error) {
	args := m.Called(ctx, queueID, workerID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueDomain.QueueItem), args.Error(1)
}

// ListByStatus mocks the ListByStatus method of QueueItemRepository.
func (m *MockQueueItemRepository) ListByStatus(
	ctx context.Context,
	queueID int64,
	status queueDomain.ItemStatus,
	offset, limit int,
) ([]*queueDomain.QueueItem, error) {
	args := m.Called(ctx, queueID, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queueDomain.QueueItem), args.Error(1)
}

// CountByQueue mocks the CountByQueue method of QueueItemRepository.
func (m *MockQueueItemRepository) CountByQueue(ctx context.Context, queueID int64) (int64, error) {
	args := m.Called(ctx, queueID)
	return args.Get(0).(int64), args.Error(1)
}

// ListExpiredLeases mocks the ListExpiredLeases method of QueueItemRepository.
func (m *MockQueueItemRepository) ListExpiredLeases(
	ctx context.Context,
	lockedBefore time.Time,
	limit int,
) ([]*queueDomain.QueueItem, error) {
	args := m.Called(ctx, lockedBefore, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queueDomain.QueueItem), args.Error(1)
}
