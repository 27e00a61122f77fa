package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/adaptquiz/adaptquiz/internal/logger"
	"github.com/adaptquiz/adaptquiz/internal/models"
	"github.com/adaptquiz/adaptquiz/internal/repository"
)

type valueRepository struct {
	db *sql.DB
}

// NewValueRepository creates a new ValueRepository implementation. The
// database must be opened with a single writer connection so the
// read-modify-write inside Update serializes per key.
func NewValueRepository(db *sql.DB) repository.ValueRepository {
	return &valueRepository{db: db}
}

func (r *valueRepository) Values(ctx context.Context, userID int64, stateHash string, actions []models.Difficulty) (map[models.Difficulty]float64, error) {
	log := logger.FromContext(ctx).WithPrefix("value_repo")

	// Unseen (state, action) pairs are valued 0, never an error.
	values := make(map[models.Difficulty]float64, len(actions))
	for _, a := range actions {
		values[a] = 0
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT action, value
FROM q_values
WHERE user_id = ? AND state_hash = ?
`, userID, stateHash)
	if err != nil {
		log.Error("failed to query values: %v", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var action models.Difficulty
		var value float64
		if err := rows.Scan(&action, &value); err != nil {
			log.Error("failed to scan value row: %v", err)
			return nil, err
		}
		if _, wanted := values[action]; wanted {
			values[action] = value
		}
	}
	return values, rows.Err()
}

func (r *valueRepository) Update(ctx context.Context, userID int64, stateHash string, action models.Difficulty, fn func(old float64) float64) (float64, error) {
	log := logger.FromContext(ctx).WithPrefix("value_repo")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin value update: %v", err)
		return 0, err
	}
	defer tx.Rollback()

	var old float64
	err = tx.QueryRowContext(ctx, `
SELECT value FROM q_values WHERE user_id = ? AND state_hash = ? AND action = ?
`, userID, stateHash, action).Scan(&old)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to read value: %v", err)
		return 0, err
	}

	newValue := fn(old)

	_, err = tx.ExecContext(ctx, `
INSERT INTO q_values (user_id, state_hash, action, value, updated_at)
VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(user_id, state_hash, action) DO UPDATE SET
    value = excluded.value,
    updated_at = CURRENT_TIMESTAMP
`, userID, stateHash, action, newValue)
	if err != nil {
		log.Error("failed to write value: %v", err)
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit value update: %v", err)
		return 0, err
	}
	log.Debug("value updated: user_id=%d, action=%s, %.3f -> %.3f", userID, action, old, newValue)
	return newValue, nil
}

func (r *valueRepository) List(ctx context.Context, userID int64) ([]models.ValueEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("value_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT user_id, state_hash, action, value, updated_at
FROM q_values
WHERE user_id = ?
ORDER BY updated_at DESC
`, userID)
	if err != nil {
		log.Error("failed to list values: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []models.ValueEntry
	for rows.Next() {
		var e models.ValueEntry
		if err := rows.Scan(&e.UserID, &e.StateHash, &e.Action, &e.Value, &e.UpdatedAt); err != nil {
			log.Error("failed to scan value entry: %v", err)
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
