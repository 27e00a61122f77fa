package repository

import (
	"context"

	"github.com/adaptquiz/adaptquiz/internal/models"
)

// ProfileRepository handles performance profile data access
type ProfileRepository interface {
	Get(ctx context.Context, userID int64) (*models.PerformanceProfile, error)
	Upsert(ctx context.Context, p models.PerformanceProfile) error
}

// QuestionRepository handles question bank reads and ingest
type QuestionRepository interface {
	Get(ctx context.Context, id int64) (*models.Question, error)
	List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error)
	Count(ctx context.Context, filter models.QuestionFilter) (int, error)
	Insert(ctx context.Context, q models.Question) (int64, error)
}

// AttemptRepository handles the attempt log and the rolling views derived
// from it
type AttemptRepository interface {
	Insert(ctx context.Context, a models.Attempt) (int64, error)
	// WindowStats summarizes the last window attempts at a difficulty;
	// an empty difficulty means all attempts.
	WindowStats(ctx context.Context, userID int64, difficulty models.Difficulty, window int) (models.WindowStats, error)
	// History returns the user's per-question exposure summary.
	History(ctx context.Context, userID int64) (map[int64]models.QuestionHistory, error)
	HistoryForQuestion(ctx context.Context, userID, questionID int64) (*models.QuestionHistory, error)
}

// ValueRepository handles learned value storage. It satisfies qlearn.ValueStore
// and adds the listing the progress summary needs.
type ValueRepository interface {
	Values(ctx context.Context, userID int64, stateHash string, actions []models.Difficulty) (map[models.Difficulty]float64, error)
	Update(ctx context.Context, userID int64, stateHash string, action models.Difficulty, fn func(old float64) float64) (float64, error)
	List(ctx context.Context, userID int64) ([]models.ValueEntry, error)
}
