// Package mocks provides mock implementations for the workflow engine client.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/orchestrator/internal/workflow"
)

// MockEngine is a mock implementation of workflow.Engine.
type MockEngine struct {
	mock.Mock
}

// CorrelateMessage mocks the CorrelateMessage method.
func (m *MockEngine) CorrelateMessage(ctx context.Context, req workflow.MessageRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// StartProcess mocks the StartProcess method.
func (m *MockEngine) StartProcess(
	ctx context.Context,
	processKey string,
	req workflow.StartRequest,
) (*workflow.ProcessInstance, error) {
	args := m.Called(ctx, processKey, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.ProcessInstance), args.Error(1)
}
