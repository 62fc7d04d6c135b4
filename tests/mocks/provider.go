package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/joefazee/atlas/models"
)

// MockProvider is a mock implementation of countries.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) FetchAllCountries(ctx context.Context) ([]models.Country, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Country), args.Error(1)
}

func (m *MockProvider) FetchCountryDetail(ctx context.Context, code string) (*models.Country, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Country), args.Error(1)
}
