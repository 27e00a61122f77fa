package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/adaptquiz/adaptquiz/internal/models"
)

// MockValueRepository is a mock implementation of repository.ValueRepository
type MockValueRepository struct {
	mock.Mock
}

func (m *MockValueRepository) Values(ctx context.Context, userID int64, stateHash string, actions []models.Difficulty) (map[models.Difficulty]float64, error) {
	args := m.Called(ctx, userID, stateHash, actions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.Difficulty]float64), args.Error(1)
}

func (m *MockValueRepository) Update(ctx context.Context, userID int64, stateHash string, action models.Difficulty, fn func(old float64) float64) (float64, error) {
	args := m.Called(ctx, userID, stateHash, action, fn)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockValueRepository) List(ctx context.Context, userID int64) ([]models.ValueEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ValueEntry), args.Error(1)
}
