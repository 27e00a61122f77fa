package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/adaptquiz/adaptquiz/internal/models"
)

// MockAttemptRepository is a mock implementation of repository.AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Insert(ctx context.Context, a models.Attempt) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAttemptRepository) WindowStats(ctx context.Context, userID int64, difficulty models.Difficulty, window int) (models.WindowStats, error) {
	args := m.Called(ctx, userID, difficulty, window)
	return args.Get(0).(models.WindowStats), args.Error(1)
}

func (m *MockAttemptRepository) History(ctx context.Context, userID int64) (map[int64]models.QuestionHistory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]models.QuestionHistory), args.Error(1)
}

func (m *MockAttemptRepository) HistoryForQuestion(ctx context.Context, userID, questionID int64) (*models.QuestionHistory, error) {
	args := m.Called(ctx, userID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuestionHistory), args.Error(1)
}
