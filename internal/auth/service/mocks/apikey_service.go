// Package mocks provides mock implementations of the API key service.
package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockAPIKeyService is a mock implementation of service.APIKeyService.
type MockAPIKeyService struct {
	mock.Mock
}

// GenerateKey mocks the GenerateKey method.
func (m *MockAPIKeyService) GenerateKey() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

// HashKey mocks the HashKey method.
func (m *MockAPIKeyService) HashKey(plainKey string) (string, error) {
	args := m.Called(plainKey)
	return args.String(0), args.Error(1)
}

// CompareKey mocks the CompareKey method.
func (m *MockAPIKeyService) CompareKey(plainKey string, hashedKey string) bool {
	args := m.Called(plainKey, hashedKey)
	return args.Bool(0)
}
