package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClientStore is a mock implementation of preferences.ClientStore
type MockClientStore struct {
	mock.Mock
}

func (m *MockClientStore) Get(ctx context.Context, clientID, key string) (string, error) {
	args := m.Called(ctx, clientID, key)
	return args.String(0), args.Error(1)
}

func (m *MockClientStore) Set(ctx context.Context, clientID, key, value string) error {
	args := m.Called(ctx, clientID, key, value)
	return args.Error(0)
}

func (m *MockClientStore) All(ctx context.Context, clientID string) (map[string]string, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockClientStore) Purge(ctx context.Context, clientID string) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}
