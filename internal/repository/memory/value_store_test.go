package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adaptquiz/adaptquiz/internal/models"
	"github.com/adaptquiz/adaptquiz/internal/repository/memory"
)

func TestValueStore_MissingEntriesDefaultToZero(t *testing.T) {
	store := memory.NewValueStore()

	values, err := store.Values(context.Background(), 1, "somestate", models.Difficulties)

	require.NoError(t, err)
	assert.Len(t, values, 3)
	for _, d := range models.Difficulties {
		assert.Equal(t, 0.0, values[d])
	}
}

func TestValueStore_UpdateAndReadBack(t *testing.T) {
	store := memory.NewValueStore()
	ctx := context.Background()

	v, err := store.Update(ctx, 1, "state", models.DifficultyEasy, func(old float64) float64 {
		assert.Equal(t, 0.0, old, "first update sees the lazy zero default")
		return old + 2.5
	})
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	values, err := store.Values(ctx, 1, "state", models.Difficulties)
	require.NoError(t, err)
	assert.Equal(t, 2.5, values[models.DifficultyEasy])
	assert.Equal(t, 0.0, values[models.DifficultyMedium])
}

func TestValueStore_UsersAreIsolated(t *testing.T) {
	store := memory.NewValueStore()
	ctx := context.Background()

	_, err := store.Update(ctx, 1, "state", models.DifficultyEasy, func(float64) float64 { return 7 })
	require.NoError(t, err)

	values, err := store.Values(ctx, 2, "state", models.Difficulties)
	require.NoError(t, err)
	assert.Equal(t, 0.0, values[models.DifficultyEasy], "user 2 must not see user 1's values")

	entries, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestValueStore_List(t *testing.T) {
	store := memory.NewValueStore()
	ctx := context.Background()

	_, err := store.Update(ctx, 1, "s1", models.DifficultyEasy, func(float64) float64 { return 1 })
	require.NoError(t, err)
	_, err = store.Update(ctx, 1, "s1", models.DifficultyMedium, func(float64) float64 { return 2 })
	require.NoError(t, err)
	_, err = store.Update(ctx, 1, "s2", models.DifficultyEasy, func(float64) float64 { return 3 })
	require.NoError(t, err)

	entries, err := store.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	for _, e := range entries {
		assert.Equal(t, int64(1), e.UserID)
		assert.False(t, e.UpdatedAt.IsZero())
	}
}

func TestValueStore_ConcurrentUpdatesDoNotLoseIncrements(t *testing.T) {
	store := memory.NewValueStore()
	ctx := context.Background()

	const goroutines = 16
	const perGoroutine = 100

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				_, err := store.Update(ctx, 1, "state", models.DifficultyEasy, func(old float64) float64 {
					return old + 1
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	values, err := store.Values(ctx, 1, "state", []models.Difficulty{models.DifficultyEasy})
	require.NoError(t, err)
	assert.Equal(t, float64(goroutines*perGoroutine), values[models.DifficultyEasy])
}

func TestValueStore_ConcurrentUsersAcrossShards(t *testing.T) {
	store := memory.NewValueStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for u := int64(1); u <= 64; u++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				_, err := store.Update(ctx, userID, "state", models.DifficultyMedium, func(old float64) float64 {
					return old + 0.5
				})
				assert.NoError(t, err)
			}
		}(u)
	}
	wg.Wait()

	for u := int64(1); u <= 64; u++ {
		values, err := store.Values(ctx, u, "state", []models.Difficulty{models.DifficultyMedium})
		require.NoError(t, err)
		assert.Equal(t, 10.0, values[models.DifficultyMedium], "user %d", u)
	}
}

func TestValueStore_CancelledContext(t *testing.T) {
	store := memory.NewValueStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Values(ctx, 1, "state", models.Difficulties)
	assert.Error(t, err)

	_, err = store.Update(ctx, 1, "state", models.DifficultyEasy, func(old float64) float64 { return old })
	assert.Error(t, err)
}
