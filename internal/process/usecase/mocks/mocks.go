// Package mocks provides mock implementations of the process starter interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	processDomain "github.com/allisson/orchestrator/internal/process/domain"
)

// MockEventLogRepository is a mock implementation of usecase.EventLogRepository.
type MockEventLogRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockEventLogRepository) Create(ctx context.Context, event *processDomain.EventLog) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockProcessUseCase is a mock implementation of usecase.ProcessUseCase.
type MockProcessUseCase struct {
	mock.Mock
}

// Keys mocks the Keys method.
func (m *MockProcessUseCase) Keys() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

// Start mocks the Start method.
func (m *MockProcessUseCase) Start(
	ctx context.Context,
	processKey string,
	subjects []processDomain.Subject,
) ([]processDomain.Outcome, error) {
	args := m.Called(ctx, processKey, subjects)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]processDomain.Outcome), args.Error(1)
}

// LogEvent mocks the LogEvent method.
func (m *MockProcessUseCase) LogEvent(
	ctx context.Context,
	processID, eventType string,
	data map[string]any,
) (*processDomain.EventLog, error) {
	args := m.Called(ctx, processID, eventType, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*processDomain.EventLog), args.Error(1)
}
