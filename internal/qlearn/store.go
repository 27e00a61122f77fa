package qlearn

import (
	"context"

	"github.com/adaptquiz/adaptquiz/internal/models"
)

// ValueStore is the keyed storage of learned values the selector reads and the
// updater writes. Implementations must treat missing (state, action) pairs as
// value 0 and must make Update an atomic read-modify-write per key so that
// concurrent attempts from the same user cannot lose an update.
type ValueStore interface {
	// Values returns the stored value for each requested action in the state,
	// defaulting missing entries to 0.
	Values(ctx context.Context, userID int64, stateHash string, actions []models.Difficulty) (map[models.Difficulty]float64, error)

	// Update atomically applies fn to the current value of the key and stores
	// the result, returning the new value. A failed write propagates to the
	// caller; it is never retried here.
	Update(ctx context.Context, userID int64, stateHash string, action models.Difficulty, fn func(old float64) float64) (float64, error)
}
