package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/adaptquiz/adaptquiz/internal/logger"
	"github.com/adaptquiz/adaptquiz/internal/models"
	"github.com/adaptquiz/adaptquiz/internal/repository"
)

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository implementation
func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Get(ctx context.Context, userID int64) (*models.PerformanceProfile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("getting profile: user_id=%d", userID)

	var p models.PerformanceProfile
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, level, xp, current_streak, consecutive_wrong,
       overall_accuracy, easy_accuracy, medium_accuracy, hard_accuracy,
       avg_response_time, performance_trend, easy_trend, medium_trend, hard_trend,
       hints_used, total_attempts, last_difficulty, created_at, updated_at
FROM profiles
WHERE user_id = ?
`, userID).Scan(&p.UserID, &p.Level, &p.XP, &p.CurrentStreak, &p.ConsecutiveWrong,
		&p.OverallAccuracy, &p.EasyAccuracy, &p.MediumAccuracy, &p.HardAccuracy,
		&p.AvgResponseTime, &p.PerformanceTrend, &p.EasyTrend, &p.MediumTrend, &p.HardTrend,
		&p.HintsUsed, &p.TotalAttempts, &p.LastDifficulty, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("profile not found: user_id=%d", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) Upsert(ctx context.Context, p models.PerformanceProfile) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("upserting profile: user_id=%d, level=%s, xp=%d", p.UserID, p.Level, p.XP)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO profiles (
    user_id, level, xp, current_streak, consecutive_wrong,
    overall_accuracy, easy_accuracy, medium_accuracy, hard_accuracy,
    avg_response_time, performance_trend, easy_trend, medium_trend, hard_trend,
    hints_used, total_attempts, last_difficulty, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(user_id) DO UPDATE SET
    level = excluded.level,
    xp = excluded.xp,
    current_streak = excluded.current_streak,
    consecutive_wrong = excluded.consecutive_wrong,
    overall_accuracy = excluded.overall_accuracy,
    easy_accuracy = excluded.easy_accuracy,
    medium_accuracy = excluded.medium_accuracy,
    hard_accuracy = excluded.hard_accuracy,
    avg_response_time = excluded.avg_response_time,
    performance_trend = excluded.performance_trend,
    easy_trend = excluded.easy_trend,
    medium_trend = excluded.medium_trend,
    hard_trend = excluded.hard_trend,
    hints_used = excluded.hints_used,
    total_attempts = excluded.total_attempts,
    last_difficulty = excluded.last_difficulty,
    updated_at = CURRENT_TIMESTAMP
`, p.UserID, p.Level, p.XP, p.CurrentStreak, p.ConsecutiveWrong,
		p.OverallAccuracy, p.EasyAccuracy, p.MediumAccuracy, p.HardAccuracy,
		p.AvgResponseTime, p.PerformanceTrend, p.EasyTrend, p.MediumTrend, p.HardTrend,
		p.HintsUsed, p.TotalAttempts, p.LastDifficulty)
	if err != nil {
		log.Error("failed to upsert profile: %v", err)
	}
	return err
}
