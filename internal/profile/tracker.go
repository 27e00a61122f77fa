// Package profile derives the rolling performance signals that feed the state
// encoder from individual attempt outcomes.
package profile

import (
	"math"

	"github.com/adaptquiz/adaptquiz/internal/models"
)

// trendWeight controls how fast the performance trend follows new outcomes.
// Higher weight reacts faster but is noisier.
const trendWeight = 0.3

// ApplyOutcome folds one attempt outcome into a profile snapshot and returns
// the updated profile. Pure: rolling accuracies come from the supplied window
// stats, trends are exponentially weighted on the outcome sign, and XP only
// ever grows (wrong answers award zero, never negative XP).
func ApplyOutcome(
	p models.PerformanceProfile,
	o models.AttemptOutcome,
	overall models.WindowStats,
	byDifficulty map[models.Difficulty]models.WindowStats,
	xpEarned int,
) models.PerformanceProfile {
	p.TotalAttempts++
	p.LastDifficulty = o.Difficulty
	p.HintsUsed += o.HintsUsed

	if o.Correct {
		p.CurrentStreak++
		p.ConsecutiveWrong = 0
	} else {
		p.CurrentStreak = 0
		p.ConsecutiveWrong++
	}

	if xpEarned > 0 {
		p.XP += xpEarned
	}

	p.OverallAccuracy = overall.Accuracy()
	p.AvgResponseTime = overall.AvgTimeSeconds
	if w, ok := byDifficulty[models.DifficultyEasy]; ok {
		p.EasyAccuracy = w.Accuracy()
	}
	if w, ok := byDifficulty[models.DifficultyMedium]; ok {
		p.MediumAccuracy = w.Accuracy()
	}
	if w, ok := byDifficulty[models.DifficultyHard]; ok {
		p.HardAccuracy = w.Accuracy()
	}

	signal := -1.0
	if o.Correct {
		signal = 1.0
	}
	p.PerformanceTrend = updateTrend(p.PerformanceTrend, signal)
	switch o.Difficulty {
	case models.DifficultyEasy:
		p.EasyTrend = updateTrend(p.EasyTrend, signal)
	case models.DifficultyMedium:
		p.MediumTrend = updateTrend(p.MediumTrend, signal)
	case models.DifficultyHard:
		p.HardTrend = updateTrend(p.HardTrend, signal)
	}

	return p
}

// updateTrend moves the trend toward the outcome signal, bounded to [-1, 1].
func updateTrend(trend, signal float64) float64 {
	t := (1-trendWeight)*trend + trendWeight*signal
	return math.Max(-1, math.Min(1, t))
}
