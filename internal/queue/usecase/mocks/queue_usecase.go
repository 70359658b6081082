package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	queueDomain "github.com/allisson/orchestrator/internal/queue/domain"
)

// MockQueueUseCase is a mock implementation of QueueUseCase.
type MockQueueUseCase struct {
	mock.Mock
}

// CreateQueue mocks the CreateQueue method of QueueUseCase.
func (m *MockQueueUseCase) CreateQueue(
	ctx context.Context,
	name, description string,
) (*queueDomain.Queue, error) {
	args := m.Called(ctx, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueDomain.Queue), args.Error(1)
}

// DeleteQueue mocks the DeleteQueue method of QueueUseCase.
func (m *MockQueueUseCase) DeleteQueue(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// ToggleActive mocks the ToggleActive method of QueueUseCase.
func (m *MockQueueUseCase) ToggleActive(ctx context.Context, name string) (*queueDomain.Queue, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueDomain.Queue), args.Error(1)
}

// AddItem mocks the AddItem method of QueueUseCase.
func (m *MockQueueUseCase) AddItem(
	ctx context.Context,
	queueName string,
	input queueDomain.AddItemInput,
) (*queueDomain.QueueItem, error) {
	args := m.Called(ctx, queueName, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueDomain.QueueItem), args.Error(1)
}

// ListPending mocks the ListPending method of QueueUseCase.
func (m *MockQueueUseCase) ListPending(
	ctx context.Context,
	queueName string,
	offset, limit int,
) ([]*queueDomain.QueueItem, error) {
	args := m.Called(ctx, queueName, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queueDomain.QueueItem), args.Error(1)
}

// ListRetired mocks the ListRetired method of QueueUseCase.
func (m *MockQueueUseCase) ListRetired(
	ctx context.Context,
	queueName string,
	offset, limit int,
) ([]*queueDomain.QueueItem, error) {
	args := m.Called(ctx, queueName, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queueDomain.QueueItem), args.Error(1)
}

// LeaseNext mocks the LeaseNext method of QueueUseCase.
func (m *MockQueueUseCase) LeaseNext(
	ctx context.Context,
	queueName, workerID string,
) (*queueDomain.QueueItem, error) {
	args := m.Called(ctx, queueName, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueDomain.QueueItem), args.Error(1)
}

// RecordSuccess mocks the RecordSuccess method of QueueUseCase.
func (m *MockQueueUseCase) RecordSuccess(ctx context.Context, itemID uuid.UUID) (*queueDomain.QueueItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueDomain.QueueItem), args.Error(1)
}

// RecordFailure mocks the RecordFailure method of QueueUseCase.
func (m *MockQueueUseCase) RecordFailure(
	ctx context.Context,
	itemID uuid.UUID,
	message string,
	kind queueDomain.FailureKind,
) (*queueDomain.QueueItem, error) {
	args := m.Called(ctx, itemID, message, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueDomain.QueueItem), args.Error(1)
}

// ReclaimExpiredLeases mocks the ReclaimExpiredLeases method of QueueUseCase.
func (m *MockQueueUseCase) ReclaimExpiredLeases(
	ctx context.Context,
	timeout time.Duration,
	limit int,
) (int, error) {
	args := m.Called(ctx, timeout, limit)
	return args.Int(0), args.Error(1)
}
