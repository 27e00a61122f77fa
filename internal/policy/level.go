package policy

import (
	"fmt"

	"github.com/adaptquiz/adaptquiz/internal/models"
)

// LevelConfig holds the promotion and demotion thresholds.
type LevelConfig struct {
	// Cumulative XP required to leave each level. XP is never spent or reset.
	PromotionXP map[models.Level]int
	// Accuracy floor at the level's primary difficulty; at or below it over a
	// full trailing window the learner is stepped down.
	DemotionFloor map[models.Level]float64
	// Window size the demotion accuracy check requires.
	WindowSize int
	// Consecutive wrong answers triggering an immediate demotion, without
	// waiting for a full window.
	MaxConsecutiveWrong int
}

// DefaultLevelConfig returns the production level thresholds.
func DefaultLevelConfig() LevelConfig {
	return LevelConfig{
		PromotionXP: map[models.Level]int{
			models.LevelBeginner:     200,
			models.LevelIntermediate: 500,
			models.LevelAdvanced:     800,
		},
		DemotionFloor: map[models.Level]float64{
			models.LevelIntermediate: 0.3,
			models.LevelAdvanced:     0.5,
			models.LevelExpert:       0.5,
		},
		WindowSize:          10,
		MaxConsecutiveWrong: 3,
	}
}

// LevelEvaluator decides promotion and demotion recommendations.
type LevelEvaluator struct {
	cfg LevelConfig
}

// NewLevelEvaluator creates a LevelEvaluator.
func NewLevelEvaluator(cfg LevelConfig) *LevelEvaluator {
	return &LevelEvaluator{cfg: cfg}
}

// Evaluate recommends a level transition for the profile. window must hold
// the trailing stats at the profile's current primary difficulty. Pure: the
// caller applies the transition atomically alongside the profile mutation.
// Demotion is checked before promotion so a struggling learner is never
// promoted on stale XP in the same step.
func (e *LevelEvaluator) Evaluate(p models.PerformanceProfile, window models.WindowStats) models.LevelChange {
	if down, ok := p.Level.Prev(); ok {
		if p.ConsecutiveWrong >= e.cfg.MaxConsecutiveWrong {
			return models.LevelChange{
				Transition: models.TransitionDemote,
				From:       p.Level,
				To:         down,
				Reason:     fmt.Sprintf("%d consecutive wrong answers", p.ConsecutiveWrong),
			}
		}
		floor, watched := e.cfg.DemotionFloor[p.Level]
		if watched && window.Total >= e.cfg.WindowSize && window.Accuracy() <= floor {
			return models.LevelChange{
				Transition: models.TransitionDemote,
				From:       p.Level,
				To:         down,
				Reason: fmt.Sprintf("accuracy %.0f%% at %s over last %d attempts",
					window.Accuracy()*100, p.Level.PrimaryDifficulty(), window.Total),
			}
		}
	}

	if next, ok := p.Level.Next(); ok {
		if threshold, ok := e.cfg.PromotionXP[p.Level]; ok && p.XP >= threshold {
			return models.LevelChange{
				Transition: models.TransitionPromote,
				From:       p.Level,
				To:         next,
				Reason:     fmt.Sprintf("reached %d XP", threshold),
			}
		}
	}

	return models.NoChange(p.Level)
}

// ProgressToNextLevel reports how far the profile is toward promotion, for
// external consumers. Returns required XP and remaining XP; remaining is 0 at
// expert.
func (e *LevelEvaluator) ProgressToNextLevel(p models.PerformanceProfile) (required, remaining int) {
	threshold, ok := e.cfg.PromotionXP[p.Level]
	if !ok {
		return 0, 0
	}
	remaining = threshold - p.XP
	if remaining < 0 {
		remaining = 0
	}
	return threshold, remaining
}
