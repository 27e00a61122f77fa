package qlearn

import (
	"context"
	"fmt"

	"github.com/adaptquiz/adaptquiz/internal/logger"
	"github.com/adaptquiz/adaptquiz/internal/models"
)

// UpdaterConfig holds the learning-rate parameters of the value update rule.
type UpdaterConfig struct {
	Alpha float64 // learning rate
	Gamma float64 // discount factor
}

// DefaultUpdaterConfig returns the production learning parameters.
func DefaultUpdaterConfig() UpdaterConfig {
	return UpdaterConfig{Alpha: 0.1, Gamma: 0.9}
}

// Updater applies the Q-learning update rule against a ValueStore.
type Updater struct {
	store ValueStore
	cfg   UpdaterConfig
}

// NewUpdater creates an Updater over the given value store.
func NewUpdater(store ValueStore, cfg UpdaterConfig) *Updater {
	return &Updater{store: store, cfg: cfg}
}

// Update applies
//
//	Q(s,a) = Q(s,a) + alpha * (reward + gamma*max_a' Q(s',a') - Q(s,a))
//
// and returns the new value. The max over the next state's actions is taken
// over the next level's allowed set, with unseen entries valued 0. The write
// is a single atomic read-modify-write in the store; a failed write is
// surfaced, never retried, because a silently lost update skews future
// decisions.
func (u *Updater) Update(ctx context.Context, userID int64, state State, action models.Difficulty, reward float64, next State) (float64, error) {
	log := logger.FromContext(ctx).WithPrefix("updater")

	if !action.Valid() {
		return 0, fmt.Errorf("update: invalid action %q", action)
	}

	nextActions := AllowedActions(next.Level)
	nextValues, err := u.store.Values(ctx, userID, next.Hash(), nextActions)
	if err != nil {
		return 0, err
	}

	maxNext := 0.0
	for _, v := range nextValues {
		if v > maxNext {
			maxNext = v
		}
	}

	newValue, err := u.store.Update(ctx, userID, state.Hash(), action, func(old float64) float64 {
		return old + u.cfg.Alpha*(reward+u.cfg.Gamma*maxNext-old)
	})
	if err != nil {
		log.Error("value update failed: user=%d action=%s: %v", userID, action, err)
		return 0, err
	}

	log.Debug("value updated: user=%d action=%s reward=%.1f max_next=%.3f new=%.3f", userID, action, reward, maxNext, newValue)
	return newValue, nil
}
