// Package mocks provides mock implementations of the automation task use case and ledger.
package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	rpaDomain "github.com/allisson/orchestrator/internal/rpa/domain"
)

// MockEventLogRepository is a mock implementation of usecase.EventLogRepository.
type MockEventLogRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockEventLogRepository) Create(ctx context.Context, event *rpaDomain.EventLog) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// GetStartForUpdate mocks the GetStartForUpdate method.
func (m *MockEventLogRepository) GetStartForUpdate(
	ctx context.Context,
	processID, correlationToken string,
) (*rpaDomain.EventLog, error) {
	args := m.Called(ctx, processID, correlationToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rpaDomain.EventLog), args.Error(1)
}

// HasFinish mocks the HasFinish method.
func (m *MockEventLogRepository) HasFinish(ctx context.Context, processID, correlationToken string) (bool, error) {
	args := m.Called(ctx, processID, correlationToken)
	return args.Bool(0), args.Error(1)
}

// ListSince mocks the ListSince method.
func (m *MockEventLogRepository) ListSince(
	ctx context.Context,
	since time.Time,
	types []rpaDomain.EventType,
) ([]*rpaDomain.EventLog, error) {
	args := m.Called(ctx, since, types)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rpaDomain.EventLog), args.Error(1)
}

// MockRPAUseCase is a mock implementation of usecase.RPAUseCase.
type MockRPAUseCase struct {
	mock.Mock
}

// StartTask mocks the StartTask method.
func (m *MockRPAUseCase) StartTask(ctx context.Context, input rpaDomain.StartTaskInput) (map[string]any, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

// HandleCallback mocks the HandleCallback method.
func (m *MockRPAUseCase) HandleCallback(ctx context.Context, callback rpaDomain.Callback) error {
	args := m.Called(ctx, callback)
	return args.Error(0)
}

// Export mocks the Export method. A string as third return value is written to w.
func (m *MockRPAUseCase) Export(ctx context.Context, report rpaDomain.Report, w io.Writer) (int, error) {
	args := m.Called(ctx, report, w)
	if content, ok := args.Get(2).(string); ok {
		_, _ = io.WriteString(w, content)
	}
	return args.Int(0), args.Error(1)
}
