// Package mocks provides mock implementations of the automation provider services.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProviderClient is a mock implementation of service.ProviderClient.
type MockProviderClient struct {
	mock.Mock
}

// SendTask mocks the SendTask method.
func (m *MockProviderClient) SendTask(ctx context.Context, request map[string]any) (map[string]any, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

// MockTokenGenerator is a mock implementation of service.TokenGenerator.
type MockTokenGenerator struct {
	mock.Mock
}

// Generate mocks the Generate method.
func (m *MockTokenGenerator) Generate() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}
