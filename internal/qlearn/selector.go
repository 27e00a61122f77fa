package qlearn

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/adaptquiz/adaptquiz/internal/logger"
	"github.com/adaptquiz/adaptquiz/internal/models"
)

// Phase tags the branch of the selection state machine that produced a
// decision. Phases are conceptual, never persisted.
type Phase string

const (
	PhaseFallback   Phase = "fallback"
	PhaseColdStart  Phase = "cold_start"
	PhaseConfidence Phase = "confidence_building"
	PhaseSteady     Phase = "steady_state"
)

// Decision is the outcome of one action selection, with enough detail for an
// external analytics consumer to reconstruct why the action was chosen.
type Decision struct {
	Action   models.Difficulty             `json:"action"`
	Phase    Phase                         `json:"phase"`
	Epsilon  float64                       `json:"epsilon"`
	Explored bool                          `json:"explored"`
	Values   map[models.Difficulty]float64 `json:"values,omitempty"`
}

// SelectorConfig holds the policy parameters of the action selector.
type SelectorConfig struct {
	// Base exploration rate per level. Lower levels explore more because
	// their value estimates are less informed.
	EpsilonByLevel map[models.Level]float64
	BaseEpsilon    float64
	MinEpsilon     float64
	MaxEpsilon     float64

	// Attempt-count cutoffs for the cold-start and confidence-building phases.
	ColdStartAttempts  int
	ConfidenceAttempts int
	// Overall accuracy a learner must exceed before medium is offered during
	// confidence building.
	ConfidenceAccuracy float64

	// Consecutive-wrong streak at which advanced/expert learners are force
	// stepped down one difficulty, overriding all other policy branches.
	FallbackWrongStreak int

	// Epsilon adjustments, applied in dynamicEpsilon.
	LowXPCutoff      int
	LowXPBoost       float64
	WrongStreakMin   int
	WrongStreakBoost float64
	HotStreakMin     int
	HotStreakScale   float64
}

// DefaultSelectorConfig returns the production selection policy.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		EpsilonByLevel: map[models.Level]float64{
			models.LevelBeginner:     0.25,
			models.LevelIntermediate: 0.15,
			models.LevelAdvanced:     0.10,
			models.LevelExpert:       0.05,
		},
		BaseEpsilon:         0.15,
		MinEpsilon:          0.01,
		MaxEpsilon:          0.4,
		ColdStartAttempts:   3,
		ConfidenceAttempts:  9,
		ConfidenceAccuracy:  0.6,
		FallbackWrongStreak: 5,
		LowXPCutoff:         100,
		LowXPBoost:          1.5,
		WrongStreakMin:      3,
		WrongStreakBoost:    1.5,
		HotStreakMin:        5,
		HotStreakScale:      0.5,
	}
}

// allowedByLevel constrains the action space per skill level. Applied before
// epsilon-greedy: exploration can never route a beginner to hard content.
var allowedByLevel = map[models.Level][]models.Difficulty{
	models.LevelBeginner:     {models.DifficultyEasy, models.DifficultyMedium},
	models.LevelIntermediate: {models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard},
	models.LevelAdvanced:     {models.DifficultyMedium, models.DifficultyHard},
	models.LevelExpert:       {models.DifficultyHard},
}

// AllowedActions returns the level-constrained action set.
func AllowedActions(level models.Level) []models.Difficulty {
	if actions, ok := allowedByLevel[level]; ok {
		return actions
	}
	return models.Difficulties
}

// Selector chooses the next question difficulty for a learner. Safe for
// concurrent use: one Selector serves all requests, so the shared rng is
// guarded by a mutex.
type Selector struct {
	store ValueStore
	cfg   SelectorConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithRand sets the random source, letting tests pin exploration outcomes.
func WithRand(rng *rand.Rand) SelectorOption {
	return func(s *Selector) {
		s.rng = rng
	}
}

// NewSelector creates a Selector over the given value store.
func NewSelector(store ValueStore, cfg SelectorConfig, opts ...SelectorOption) *Selector {
	s := &Selector{
		store: store,
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(rand.Int63())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select picks the difficulty of the next question. The policy branches are
// evaluated in a fixed order: fallback override, cold start, confidence
// building, steady state.
func (s *Selector) Select(ctx context.Context, profile models.PerformanceProfile, state State) (Decision, error) {
	log := logger.FromContext(ctx).WithPrefix("selector")

	if !profile.Level.Valid() {
		return Decision{}, fmt.Errorf("select: invalid level %q", profile.Level)
	}

	// The exploration rate is reported on every decision, even in phases
	// that never explore, so analytics consumers see one consistent shape.
	epsilon := s.Epsilon(profile)

	// Fallback override: a long wrong streak at advanced/expert steps down
	// one difficulty no matter what the learned values say.
	if action, ok := s.fallbackOverride(profile); ok {
		log.Info("fallback override: consecutive_wrong=%d, stepping down to %s", profile.ConsecutiveWrong, action)
		return Decision{Action: action, Phase: PhaseFallback, Epsilon: epsilon}, nil
	}

	// Cold start: too little data to trust any estimate.
	if profile.TotalAttempts < s.cfg.ColdStartAttempts {
		log.Debug("cold start: attempts=%d, forcing easy", profile.TotalAttempts)
		return Decision{Action: models.DifficultyEasy, Phase: PhaseColdStart, Epsilon: epsilon}, nil
	}

	allowed := AllowedActions(profile.Level)

	// Confidence building: easy, plus medium once recent accuracy warrants it.
	// Hard is excluded, and there is no exploration in this phase.
	if profile.TotalAttempts < s.cfg.ConfidenceAttempts {
		candidates := []models.Difficulty{models.DifficultyEasy}
		if profile.OverallAccuracy > s.cfg.ConfidenceAccuracy && contains(allowed, models.DifficultyMedium) {
			candidates = append(candidates, models.DifficultyMedium)
		}
		values, err := s.store.Values(ctx, profile.UserID, state.Hash(), candidates)
		if err != nil {
			return Decision{}, err
		}
		action := greedy(candidates, values, profile.LastDifficulty)
		log.Debug("confidence building: attempts=%d, accuracy=%.3f, chose %s", profile.TotalAttempts, profile.OverallAccuracy, action)
		return Decision{Action: action, Phase: PhaseConfidence, Epsilon: epsilon, Values: values}, nil
	}

	// Steady state: epsilon-greedy over the allowed set.
	values, err := s.store.Values(ctx, profile.UserID, state.Hash(), allowed)
	if err != nil {
		return Decision{}, err
	}

	if explored, i := s.draw(epsilon, len(allowed)); explored {
		action := allowed[i]
		log.Debug("exploration: epsilon=%.3f, chose %s from %v", epsilon, action, allowed)
		return Decision{Action: action, Phase: PhaseSteady, Epsilon: epsilon, Explored: true, Values: values}, nil
	}

	action := greedy(allowed, values, profile.LastDifficulty)
	log.Debug("exploitation: epsilon=%.3f, chose %s (value=%.3f)", epsilon, action, values[action])
	return Decision{Action: action, Phase: PhaseSteady, Epsilon: epsilon, Values: values}, nil
}

// Epsilon computes the dynamic exploration rate for a profile. Deterministic,
// recomputed per decision, never persisted.
func (s *Selector) Epsilon(profile models.PerformanceProfile) float64 {
	epsilon, ok := s.cfg.EpsilonByLevel[profile.Level]
	if !ok {
		epsilon = s.cfg.BaseEpsilon
	}
	if profile.XP < s.cfg.LowXPCutoff {
		epsilon *= s.cfg.LowXPBoost
	}
	if profile.ConsecutiveWrong >= s.cfg.WrongStreakMin {
		// Struggling learners explore more to find an easier successful path.
		epsilon *= s.cfg.WrongStreakBoost
	}
	if profile.CurrentStreak >= s.cfg.HotStreakMin {
		epsilon *= s.cfg.HotStreakScale
	}
	return clamp(epsilon, s.cfg.MinEpsilon, s.cfg.MaxEpsilon)
}

// draw makes the exploration decision and, when exploring, picks an index in
// [0, n). Both random draws happen under the lock so concurrent requests
// never touch the rng state at the same time.
func (s *Selector) draw(epsilon float64, n int) (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rng.Float64() >= epsilon {
		return false, 0
	}
	return true, s.rng.Intn(n)
}

func (s *Selector) fallbackOverride(profile models.PerformanceProfile) (models.Difficulty, bool) {
	if profile.Level != models.LevelAdvanced && profile.Level != models.LevelExpert {
		return "", false
	}
	if profile.ConsecutiveWrong < s.cfg.FallbackWrongStreak {
		return "", false
	}
	from := profile.LastDifficulty
	if !from.Valid() {
		from = profile.Level.PrimaryDifficulty()
	}
	if easier, ok := from.Easier(); ok {
		return easier, true
	}
	return from, true
}

// greedy returns the candidate with the highest value, breaking ties toward
// the last attempted difficulty and then toward the lower difficulty so the
// policy does not oscillate.
func greedy(candidates []models.Difficulty, values map[models.Difficulty]float64, last models.Difficulty) models.Difficulty {
	best := candidates[0]
	for _, c := range candidates[1:] {
		switch {
		case values[c] > values[best]:
			best = c
		case values[c] == values[best] && preferRank(c, last) < preferRank(best, last):
			best = c
		}
	}
	return best
}

func preferRank(d, last models.Difficulty) int {
	if d == last {
		return -1
	}
	return d.Rank()
}

func contains(actions []models.Difficulty, d models.Difficulty) bool {
	for _, a := range actions {
		if a == d {
			return true
		}
	}
	return false
}
