// Package memory provides an in-process value store for embedded use and
// tests. Entries shard by user id so concurrent learners never contend on a
// shared lock.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/adaptquiz/adaptquiz/internal/models"
)

const shardCount = 32

type entryKey struct {
	userID    int64
	stateHash string
	action    models.Difficulty
}

type entry struct {
	value     float64
	updatedAt time.Time
}

type shard struct {
	mu      sync.Mutex
	entries map[entryKey]entry
}

// ValueStore is a sharded in-memory implementation of repository.ValueRepository.
type ValueStore struct {
	shards [shardCount]*shard
}

// NewValueStore creates an empty in-memory value store.
func NewValueStore() *ValueStore {
	s := &ValueStore{}
	for i := range s.shards {
		s.shards[i] = &shard{entries: make(map[entryKey]entry)}
	}
	return s
}

func (s *ValueStore) shardFor(userID int64) *shard {
	return s.shards[uint64(userID)%shardCount]
}

// Values returns the stored value per action, defaulting missing entries to 0.
func (s *ValueStore) Values(ctx context.Context, userID int64, stateHash string, actions []models.Difficulty) (map[models.Difficulty]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	values := make(map[models.Difficulty]float64, len(actions))
	for _, a := range actions {
		values[a] = sh.entries[entryKey{userID, stateHash, a}].value
	}
	return values, nil
}

// Update applies fn under the shard lock: a single atomic read-modify-write,
// so concurrent attempts from the same user cannot lose an update.
func (s *ValueStore) Update(ctx context.Context, userID int64, stateHash string, action models.Difficulty, fn func(old float64) float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	k := entryKey{userID, stateHash, action}
	newValue := fn(sh.entries[k].value)
	sh.entries[k] = entry{value: newValue, updatedAt: time.Now()}
	return newValue, nil
}

// List returns every stored entry for a user in no particular order.
func (s *ValueStore) List(ctx context.Context, userID int64) ([]models.ValueEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	var entries []models.ValueEntry
	for k, e := range sh.entries {
		if k.userID != userID {
			continue
		}
		entries = append(entries, models.ValueEntry{
			UserID:    userID,
			StateHash: k.stateHash,
			Action:    k.action,
			Value:     e.value,
			UpdatedAt: e.updatedAt,
		})
	}
	return entries, nil
}
