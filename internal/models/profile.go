package models

import "time"

// PerformanceProfile is the rolling performance record of a learner. It is
// mutated on every attempt and is the only input the state encoder reads.
type PerformanceProfile struct {
	UserID           int64      `json:"user_id"`
	Level            Level      `json:"level"`
	XP               int        `json:"xp"`
	CurrentStreak    int        `json:"current_streak"`
	ConsecutiveWrong int        `json:"consecutive_wrong"`
	OverallAccuracy  float64    `json:"overall_accuracy"`
	EasyAccuracy     float64    `json:"easy_accuracy"`
	MediumAccuracy   float64    `json:"medium_accuracy"`
	HardAccuracy     float64    `json:"hard_accuracy"`
	AvgResponseTime  float64    `json:"avg_response_time"`
	PerformanceTrend float64    `json:"performance_trend"`
	EasyTrend        float64    `json:"easy_trend"`
	MediumTrend      float64    `json:"medium_trend"`
	HardTrend        float64    `json:"hard_trend"`
	HintsUsed        int        `json:"hints_used"`
	TotalAttempts    int        `json:"total_attempts"`
	LastDifficulty   Difficulty `json:"last_difficulty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewProfile returns a fresh beginner profile for a user.
func NewProfile(userID int64) PerformanceProfile {
	return PerformanceProfile{
		UserID:         userID,
		Level:          LevelBeginner,
		LastDifficulty: DifficultyEasy,
	}
}

// AccuracyFor returns the rolling accuracy at the given difficulty.
func (p PerformanceProfile) AccuracyFor(d Difficulty) float64 {
	switch d {
	case DifficultyEasy:
		return p.EasyAccuracy
	case DifficultyMedium:
		return p.MediumAccuracy
	case DifficultyHard:
		return p.HardAccuracy
	}
	return 0
}

// TrendFor returns the rolling performance trend at the given difficulty.
func (p PerformanceProfile) TrendFor(d Difficulty) float64 {
	switch d {
	case DifficultyEasy:
		return p.EasyTrend
	case DifficultyMedium:
		return p.MediumTrend
	case DifficultyHard:
		return p.HardTrend
	}
	return 0
}
