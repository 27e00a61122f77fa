package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/adaptquiz/adaptquiz/internal/logger"
	"github.com/adaptquiz/adaptquiz/internal/models"
	"github.com/adaptquiz/adaptquiz/internal/repository"
)

type attemptRepository struct {
	db *sql.DB
}

// NewAttemptRepository creates a new AttemptRepository implementation
func NewAttemptRepository(db *sql.DB) repository.AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Insert(ctx context.Context, a models.Attempt) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("inserting attempt: user_id=%d, question_id=%d, correct=%v", a.UserID, a.QuestionID, a.Correct)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO attempts (user_id, question_id, difficulty, chosen_answer, is_correct, time_spent, reward, hint_given, is_first_attempt)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, a.UserID, a.QuestionID, a.Difficulty, a.ChosenAnswer, a.Correct, a.TimeSpentSeconds, a.Reward, a.HintGiven, a.IsFirstAttempt)
	if err != nil {
		log.Error("failed to insert attempt: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get attempt id: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *attemptRepository) WindowStats(ctx context.Context, userID int64, difficulty models.Difficulty, window int) (models.WindowStats, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")

	inner := sqlBuilder.
		Select("is_correct", "time_spent").
		From("attempts").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(window))
	if difficulty != "" {
		inner = inner.Where(squirrel.Eq{"difficulty": difficulty})
	}

	innerSQL, args, err := inner.ToSql()
	if err != nil {
		return models.WindowStats{}, err
	}

	var stats models.WindowStats
	var avgTime sql.NullFloat64
	err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(is_correct), 0), COUNT(*), AVG(time_spent) FROM (`+innerSQL+`)`,
		args...,
	).Scan(&stats.Correct, &stats.Total, &avgTime)
	if err != nil {
		log.Error("failed to compute window stats: %v", err)
		return models.WindowStats{}, err
	}
	if avgTime.Valid {
		stats.AvgTimeSeconds = avgTime.Float64
	}
	log.Debug("window stats: user_id=%d, difficulty=%q, correct=%d/%d", userID, difficulty, stats.Correct, stats.Total)
	return stats, nil
}

func (r *attemptRepository) History(ctx context.Context, userID int64) (map[int64]models.QuestionHistory, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("fetching question history: user_id=%d", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT question_id,
       COUNT(*),
       COALESCE(SUM(is_correct), 0),
       COUNT(*) - COALESCE(SUM(is_correct), 0),
       MAX(created_at)
FROM attempts
WHERE user_id = ?
GROUP BY question_id
`, userID)
	if err != nil {
		log.Error("failed to query history: %v", err)
		return nil, err
	}
	defer rows.Close()

	history := make(map[int64]models.QuestionHistory)
	for rows.Next() {
		var h models.QuestionHistory
		var lastSeen time.Time
		if err := rows.Scan(&h.QuestionID, &h.TimesSeen, &h.TimesCorrect, &h.TimesWrong, &lastSeen); err != nil {
			log.Error("failed to scan history row: %v", err)
			return nil, err
		}
		h.LastSeenAt = &lastSeen
		history[h.QuestionID] = h
	}
	log.Debug("history covers %d questions", len(history))
	return history, rows.Err()
}

func (r *attemptRepository) HistoryForQuestion(ctx context.Context, userID, questionID int64) (*models.QuestionHistory, error) {
	var h models.QuestionHistory
	var lastSeen time.Time
	err := r.db.QueryRowContext(ctx, `
SELECT question_id,
       COUNT(*),
       COALESCE(SUM(is_correct), 0),
       COUNT(*) - COALESCE(SUM(is_correct), 0),
       MAX(created_at)
FROM attempts
WHERE user_id = ? AND question_id = ?
GROUP BY question_id
`, userID, questionID).Scan(&h.QuestionID, &h.TimesSeen, &h.TimesCorrect, &h.TimesWrong, &lastSeen)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	h.LastSeenAt = &lastSeen
	return &h, nil
}
