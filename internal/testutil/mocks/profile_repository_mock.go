package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/adaptquiz/adaptquiz/internal/models"
)

// MockProfileRepository is a mock implementation of repository.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Get(ctx context.Context, userID int64) (*models.PerformanceProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PerformanceProfile), args.Error(1)
}

func (m *MockProfileRepository) Upsert(ctx context.Context, p models.PerformanceProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
