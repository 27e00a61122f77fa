package qlearn

import (
	"fmt"

	"github.com/adaptquiz/adaptquiz/internal/models"
)

// RewardConfig holds the shaping parameters of the reward function.
type RewardConfig struct {
	BaseCorrect float64
	// Multiplier applied to BaseCorrect per difficulty.
	DifficultyMultiplier map[models.Difficulty]float64
	// Negative base penalty per difficulty. Harder attempts are penalized
	// less so appropriate risk-taking is not discouraged.
	Penalty map[models.Difficulty]float64
	// Penalty scale for advanced/expert learners.
	UpperLevelPenaltyScale float64
}

// DefaultRewardConfig returns the production reward shaping.
func DefaultRewardConfig() RewardConfig {
	return RewardConfig{
		BaseCorrect: 10,
		DifficultyMultiplier: map[models.Difficulty]float64{
			models.DifficultyEasy:   1.0,
			models.DifficultyMedium: 1.5,
			models.DifficultyHard:   2.0,
		},
		Penalty: map[models.Difficulty]float64{
			models.DifficultyEasy:   -2.0,
			models.DifficultyMedium: -1.5,
			models.DifficultyHard:   -1.0,
		},
		UpperLevelPenaltyScale: 0.7,
	}
}

// Calculator converts an attempt outcome into a scalar reward.
type Calculator struct {
	cfg RewardConfig
}

// NewCalculator creates a Calculator with the given shaping config.
func NewCalculator(cfg RewardConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// Reward scores one attempt. Pure and deterministic. Out-of-range inputs are
// contract violations from upstream and fail fast instead of being clamped.
// The result is rounded to 1 decimal, half away from zero.
func (c *Calculator) Reward(difficulty models.Difficulty, correct bool, wrongAttempts int, timeSpentSeconds float64, level models.Level) (float64, error) {
	if !difficulty.Valid() {
		return 0, fmt.Errorf("reward: invalid difficulty %q", difficulty)
	}
	if !level.Valid() {
		return 0, fmt.Errorf("reward: invalid level %q", level)
	}
	if timeSpentSeconds < 0 {
		return 0, fmt.Errorf("reward: negative time spent %.2fs", timeSpentSeconds)
	}
	if wrongAttempts < 0 {
		return 0, fmt.Errorf("reward: negative wrong-attempt count %d", wrongAttempts)
	}

	var reward float64
	if correct {
		reward = c.cfg.BaseCorrect * c.cfg.DifficultyMultiplier[difficulty] * timeMultiplier(timeSpentSeconds)
	} else {
		reward = c.cfg.Penalty[difficulty]
		if level == models.LevelAdvanced || level == models.LevelExpert {
			reward *= c.cfg.UpperLevelPenaltyScale
		}
	}
	return roundTo(reward, 1), nil
}

// timeMultiplier rewards faster correct answers. Monotonically non-increasing
// in elapsed time.
func timeMultiplier(seconds float64) float64 {
	switch {
	case seconds < 30:
		return 1.3
	case seconds <= 60:
		return 1.1
	case seconds < 180:
		return 1.0
	case seconds <= 300:
		return 0.9
	default:
		return 0.8
	}
}
