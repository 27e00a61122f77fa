package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adaptquiz/adaptquiz/internal/models"
	"github.com/adaptquiz/adaptquiz/internal/policy"
)

func newEvaluator() *policy.LevelEvaluator {
	return policy.NewLevelEvaluator(policy.DefaultLevelConfig())
}

func TestEvaluate_PromotionThresholds(t *testing.T) {
	e := newEvaluator()

	cases := []struct {
		level models.Level
		xp    int
		next  models.Level
	}{
		{models.LevelBeginner, 200, models.LevelIntermediate},
		{models.LevelIntermediate, 500, models.LevelAdvanced},
		{models.LevelAdvanced, 800, models.LevelExpert},
	}
	for _, tc := range cases {
		p := models.NewProfile(1)
		p.Level = tc.level
		p.XP = tc.xp

		change := e.Evaluate(p, models.WindowStats{})

		assert.Equal(t, models.TransitionPromote, change.Transition, "%s at %d XP", tc.level, tc.xp)
		assert.Equal(t, tc.next, change.To)
	}
}

func TestEvaluate_NoPromotionBelowThreshold(t *testing.T) {
	e := newEvaluator()

	p := models.NewProfile(1)
	p.XP = 199

	change := e.Evaluate(p, models.WindowStats{})
	assert.Equal(t, models.TransitionNone, change.Transition)
}

func TestEvaluate_CumulativeXPSkipsNothing(t *testing.T) {
	e := newEvaluator()

	// XP is never reset, so a freshly promoted intermediate still holds the
	// 200+ XP that earned the promotion and must not bounce straight up again.
	p := models.NewProfile(1)
	p.Level = models.LevelIntermediate
	p.XP = 210

	change := e.Evaluate(p, models.WindowStats{})
	assert.Equal(t, models.TransitionNone, change.Transition)
}

func TestEvaluate_ExpertNeverPromotes(t *testing.T) {
	e := newEvaluator()

	p := models.NewProfile(1)
	p.Level = models.LevelExpert
	p.XP = 100000

	change := e.Evaluate(p, models.WindowStats{})
	assert.Equal(t, models.TransitionNone, change.Transition)
}

func TestEvaluate_EmergencyDemotion(t *testing.T) {
	e := newEvaluator()

	p := models.NewProfile(1)
	p.Level = models.LevelAdvanced
	p.ConsecutiveWrong = 3

	change := e.Evaluate(p, models.WindowStats{})

	assert.Equal(t, models.TransitionDemote, change.Transition)
	assert.Equal(t, models.LevelIntermediate, change.To)
	assert.NotEmpty(t, change.Reason)
}

func TestEvaluate_BeginnerNeverDemotes(t *testing.T) {
	e := newEvaluator()

	p := models.NewProfile(1)
	p.ConsecutiveWrong = 10

	change := e.Evaluate(p, models.WindowStats{Correct: 0, Total: 10})
	assert.Equal(t, models.TransitionNone, change.Transition)
}

func TestEvaluate_WindowDemotion(t *testing.T) {
	e := newEvaluator()

	p := models.NewProfile(1)
	p.Level = models.LevelIntermediate

	// 3 of 10 correct at medium: exactly on the 0.3 floor, which demotes.
	change := e.Evaluate(p, models.WindowStats{Correct: 3, Total: 10})

	assert.Equal(t, models.TransitionDemote, change.Transition)
	assert.Equal(t, models.LevelBeginner, change.To)
}

func TestEvaluate_WindowDemotionNeedsFullWindow(t *testing.T) {
	e := newEvaluator()

	p := models.NewProfile(1)
	p.Level = models.LevelAdvanced

	// 0 of 9 correct but the window is not full yet.
	change := e.Evaluate(p, models.WindowStats{Correct: 0, Total: 9})
	assert.Equal(t, models.TransitionNone, change.Transition)
}

func TestEvaluate_AccuracyAboveFloorHolds(t *testing.T) {
	e := newEvaluator()

	p := models.NewProfile(1)
	p.Level = models.LevelExpert

	change := e.Evaluate(p, models.WindowStats{Correct: 6, Total: 10})
	assert.Equal(t, models.TransitionNone, change.Transition)
}

func TestEvaluate_DemotionWinsOverPromotion(t *testing.T) {
	e := newEvaluator()

	// Enough XP to promote, but a live wrong streak: the demotion check runs
	// first so the learner steps down.
	p := models.NewProfile(1)
	p.Level = models.LevelIntermediate
	p.XP = 600
	p.ConsecutiveWrong = 4

	change := e.Evaluate(p, models.WindowStats{})

	assert.Equal(t, models.TransitionDemote, change.Transition)
	assert.Equal(t, models.LevelBeginner, change.To)
}

func TestProgressToNextLevel(t *testing.T) {
	e := newEvaluator()

	p := models.NewProfile(1)
	p.XP = 150

	required, remaining := e.ProgressToNextLevel(p)
	assert.Equal(t, 200, required)
	assert.Equal(t, 50, remaining)

	p.XP = 250
	_, remaining = e.ProgressToNextLevel(p)
	assert.Equal(t, 0, remaining, "remaining XP never goes negative")

	p.Level = models.LevelExpert
	required, remaining = e.ProgressToNextLevel(p)
	assert.Equal(t, 0, required)
	assert.Equal(t, 0, remaining)
}
