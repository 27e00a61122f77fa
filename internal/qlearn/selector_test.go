package qlearn_test

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adaptquiz/adaptquiz/internal/models"
	"github.com/adaptquiz/adaptquiz/internal/qlearn"
	"github.com/adaptquiz/adaptquiz/internal/repository/memory"
)

func newSelector(t *testing.T, cfg qlearn.SelectorConfig) (*qlearn.Selector, *memory.ValueStore) {
	t.Helper()
	store := memory.NewValueStore()
	return qlearn.NewSelector(store, cfg, qlearn.WithRand(rand.New(rand.NewSource(1)))), store
}

func TestSelect_ColdStartForcesEasy(t *testing.T) {
	sel, _ := newSelector(t, qlearn.DefaultSelectorConfig())

	for attempts := 0; attempts < 3; attempts++ {
		p := models.NewProfile(1)
		p.TotalAttempts = attempts

		d, err := sel.Select(context.Background(), p, qlearn.Encode(p))

		require.NoError(t, err)
		assert.Equal(t, models.DifficultyEasy, d.Action, "attempt %d should force easy", attempts)
		assert.Equal(t, qlearn.PhaseColdStart, d.Phase)
	}
}

func TestSelect_ConfidenceBuildingLowAccuracyStaysEasy(t *testing.T) {
	sel, _ := newSelector(t, qlearn.DefaultSelectorConfig())

	p := models.NewProfile(1)
	p.TotalAttempts = 5
	p.OverallAccuracy = 0.5

	d, err := sel.Select(context.Background(), p, qlearn.Encode(p))

	require.NoError(t, err)
	assert.Equal(t, models.DifficultyEasy, d.Action)
	assert.Equal(t, qlearn.PhaseConfidence, d.Phase)
	assert.False(t, d.Explored, "confidence building never explores")
}

func TestSelect_ConfidenceBuildingOffersMediumOnGoodAccuracy(t *testing.T) {
	sel, store := newSelector(t, qlearn.DefaultSelectorConfig())

	p := models.NewProfile(1)
	p.TotalAttempts = 6
	p.OverallAccuracy = 0.8

	// Give medium a higher learned value so the greedy pick is unambiguous.
	state := qlearn.Encode(p)
	_, err := store.Update(context.Background(), p.UserID, state.Hash(), models.DifficultyMedium, func(float64) float64 { return 5 })
	require.NoError(t, err)

	d, err := sel.Select(context.Background(), p, state)

	require.NoError(t, err)
	assert.Equal(t, models.DifficultyMedium, d.Action)
	assert.Equal(t, qlearn.PhaseConfidence, d.Phase)
}

func TestSelect_ConfidenceBuildingNeverServesHard(t *testing.T) {
	sel, store := newSelector(t, qlearn.DefaultSelectorConfig())

	p := models.NewProfile(1)
	p.Level = models.LevelIntermediate
	p.TotalAttempts = 7
	p.OverallAccuracy = 0.95

	state := qlearn.Encode(p)
	_, err := store.Update(context.Background(), p.UserID, state.Hash(), models.DifficultyHard, func(float64) float64 { return 100 })
	require.NoError(t, err)

	d, err := sel.Select(context.Background(), p, state)

	require.NoError(t, err)
	assert.NotEqual(t, models.DifficultyHard, d.Action,
		"hard is excluded during confidence building even with a high value")
}

func TestSelect_ConcurrentRequestsShareOneSelector(t *testing.T) {
	sel, _ := newSelector(t, qlearn.DefaultSelectorConfig())

	// One selector serves every request; concurrent Select calls must not
	// corrupt the shared random source.
	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			p := models.NewProfile(userID)
			p.Level = models.LevelIntermediate
			p.TotalAttempts = 50
			for j := 0; j < 8; j++ {
				d, err := sel.Select(context.Background(), p, qlearn.Encode(p))
				if err != nil {
					errs <- err
					return
				}
				if !d.Action.Valid() {
					errs <- fmt.Errorf("invalid action %q", d.Action)
					return
				}
			}
		}(int64(i + 1))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestSelect_EpsilonReportedOnEveryPhase(t *testing.T) {
	sel, _ := newSelector(t, qlearn.DefaultSelectorConfig())

	cold := models.NewProfile(1)
	cold.TotalAttempts = 1

	confidence := models.NewProfile(2)
	confidence.TotalAttempts = 5

	steady := models.NewProfile(3)
	steady.Level = models.LevelIntermediate
	steady.TotalAttempts = 50

	for _, p := range []models.PerformanceProfile{cold, confidence, steady} {
		d, err := sel.Select(context.Background(), p, qlearn.Encode(p))
		require.NoError(t, err)
		assert.Equal(t, sel.Epsilon(p), d.Epsilon, "phase %s", d.Phase)
	}
}

func TestSelect_BeginnerNeverServedHard(t *testing.T) {
	cfg := qlearn.DefaultSelectorConfig()
	cfg.EpsilonByLevel[models.LevelBeginner] = 1.0
	cfg.MaxEpsilon = 1.0
	sel, _ := newSelector(t, cfg)

	p := models.NewProfile(1)
	p.TotalAttempts = 50
	p.XP = 500

	for i := 0; i < 200; i++ {
		d, err := sel.Select(context.Background(), p, qlearn.Encode(p))
		require.NoError(t, err)
		assert.NotEqual(t, models.DifficultyHard, d.Action,
			"exploration must stay inside the beginner action set")
	}
}

func TestSelect_FallbackStepsDownAdvanced(t *testing.T) {
	sel, _ := newSelector(t, qlearn.DefaultSelectorConfig())

	p := models.NewProfile(1)
	p.Level = models.LevelAdvanced
	p.TotalAttempts = 40
	p.ConsecutiveWrong = 5
	p.LastDifficulty = models.DifficultyHard

	d, err := sel.Select(context.Background(), p, qlearn.Encode(p))

	require.NoError(t, err)
	assert.Equal(t, models.DifficultyMedium, d.Action)
	assert.Equal(t, qlearn.PhaseFallback, d.Phase)
}

func TestSelect_FallbackAtEasyStaysEasy(t *testing.T) {
	sel, _ := newSelector(t, qlearn.DefaultSelectorConfig())

	p := models.NewProfile(1)
	p.Level = models.LevelExpert
	p.TotalAttempts = 40
	p.ConsecutiveWrong = 7
	p.LastDifficulty = models.DifficultyEasy

	d, err := sel.Select(context.Background(), p, qlearn.Encode(p))

	require.NoError(t, err)
	assert.Equal(t, models.DifficultyEasy, d.Action, "there is nothing below easy to step down to")
	assert.Equal(t, qlearn.PhaseFallback, d.Phase)
}

func TestSelect_NoFallbackForIntermediate(t *testing.T) {
	sel, _ := newSelector(t, qlearn.DefaultSelectorConfig())

	p := models.NewProfile(1)
	p.Level = models.LevelIntermediate
	p.TotalAttempts = 40
	p.ConsecutiveWrong = 9
	p.LastDifficulty = models.DifficultyMedium

	d, err := sel.Select(context.Background(), p, qlearn.Encode(p))

	require.NoError(t, err)
	assert.NotEqual(t, qlearn.PhaseFallback, d.Phase,
		"the fallback override only applies at advanced and expert")
}

func TestSelect_GreedyTieBreakPrefersLastDifficulty(t *testing.T) {
	cfg := qlearn.DefaultSelectorConfig()
	cfg.EpsilonByLevel = map[models.Level]float64{models.LevelIntermediate: 0}
	cfg.MinEpsilon = 0
	sel, _ := newSelector(t, cfg)

	p := models.NewProfile(1)
	p.Level = models.LevelIntermediate
	p.TotalAttempts = 30
	p.XP = 300
	p.LastDifficulty = models.DifficultyMedium

	d, err := sel.Select(context.Background(), p, qlearn.Encode(p))

	require.NoError(t, err)
	assert.Equal(t, models.DifficultyMedium, d.Action, "all-zero values tie-break toward the last difficulty")
	assert.Equal(t, qlearn.PhaseSteady, d.Phase)
	assert.False(t, d.Explored)
}

func TestSelect_GreedyTieBreakFallsBackToLowerDifficulty(t *testing.T) {
	cfg := qlearn.DefaultSelectorConfig()
	cfg.EpsilonByLevel = map[models.Level]float64{models.LevelIntermediate: 0}
	cfg.MinEpsilon = 0
	sel, _ := newSelector(t, cfg)

	p := models.NewProfile(1)
	p.Level = models.LevelIntermediate
	p.TotalAttempts = 30
	p.XP = 300
	p.LastDifficulty = "" // nothing attempted at this level yet

	d, err := sel.Select(context.Background(), p, qlearn.Encode(p))

	require.NoError(t, err)
	assert.Equal(t, models.DifficultyEasy, d.Action, "with no last difficulty ties break toward easier content")
}

func TestSelect_GreedyPicksHighestValue(t *testing.T) {
	cfg := qlearn.DefaultSelectorConfig()
	cfg.EpsilonByLevel = map[models.Level]float64{models.LevelIntermediate: 0}
	cfg.MinEpsilon = 0
	sel, store := newSelector(t, cfg)

	p := models.NewProfile(1)
	p.Level = models.LevelIntermediate
	p.TotalAttempts = 30
	p.XP = 300

	state := qlearn.Encode(p)
	_, err := store.Update(context.Background(), p.UserID, state.Hash(), models.DifficultyHard, func(float64) float64 { return 12 })
	require.NoError(t, err)

	d, err := sel.Select(context.Background(), p, state)

	require.NoError(t, err)
	assert.Equal(t, models.DifficultyHard, d.Action)
	assert.Equal(t, 12.0, d.Values[models.DifficultyHard])
}

func TestSelect_InvalidLevel(t *testing.T) {
	sel, _ := newSelector(t, qlearn.DefaultSelectorConfig())

	p := models.NewProfile(1)
	p.Level = "wizard"

	_, err := sel.Select(context.Background(), p, qlearn.Encode(p))
	assert.Error(t, err)
}

func TestEpsilon_LowXPBoost(t *testing.T) {
	sel, _ := newSelector(t, qlearn.DefaultSelectorConfig())

	p := models.NewProfile(1)
	p.XP = 50

	assert.InDelta(t, 0.375, sel.Epsilon(p), 1e-9, "0.25 base * 1.5 low-XP boost")
}

func TestEpsilon_WrongStreakIncreasesExploration(t *testing.T) {
	sel, _ := newSelector(t, qlearn.DefaultSelectorConfig())

	calm := models.NewProfile(1)
	calm.Level = models.LevelIntermediate
	calm.XP = 300

	struggling := calm
	struggling.ConsecutiveWrong = 3

	assert.Greater(t, sel.Epsilon(struggling), sel.Epsilon(calm),
		"a wrong streak should increase exploration, not reduce it")
}

func TestEpsilon_HotStreakReducesExploration(t *testing.T) {
	sel, _ := newSelector(t, qlearn.DefaultSelectorConfig())

	p := models.NewProfile(1)
	p.Level = models.LevelExpert
	p.XP = 1000
	p.CurrentStreak = 6

	assert.InDelta(t, 0.025, sel.Epsilon(p), 1e-9, "0.05 base * 0.5 hot-streak scale")
}

func TestEpsilon_Clamped(t *testing.T) {
	sel, _ := newSelector(t, qlearn.DefaultSelectorConfig())

	// Beginner, low XP, long wrong streak: 0.25 * 1.5 * 1.5 = 0.5625, clamped.
	hot := models.NewProfile(1)
	hot.XP = 0
	hot.ConsecutiveWrong = 10
	assert.Equal(t, 0.4, sel.Epsilon(hot))

	// Expert on a hot streak with the floor in play.
	cfg := qlearn.DefaultSelectorConfig()
	cfg.EpsilonByLevel[models.LevelExpert] = 0.01
	floorSel, _ := newSelector(t, cfg)
	cold := models.NewProfile(1)
	cold.Level = models.LevelExpert
	cold.XP = 1000
	cold.CurrentStreak = 10
	assert.Equal(t, 0.01, floorSel.Epsilon(cold))
}

func TestAllowedActions(t *testing.T) {
	assert.Equal(t, []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium},
		qlearn.AllowedActions(models.LevelBeginner))
	assert.Equal(t, models.Difficulties, qlearn.AllowedActions(models.LevelIntermediate))
	assert.Equal(t, []models.Difficulty{models.DifficultyMedium, models.DifficultyHard},
		qlearn.AllowedActions(models.LevelAdvanced))
	assert.Equal(t, []models.Difficulty{models.DifficultyHard},
		qlearn.AllowedActions(models.LevelExpert))
}
