package models

import "time"

// ValueEntry is one learned value, keyed by (user, state, action). Entries are
// created lazily with value 0 on first read and updated in place.
type ValueEntry struct {
	UserID    int64      `json:"user_id"`
	StateHash string     `json:"state_hash"`
	Action    Difficulty `json:"action"`
	Value     float64    `json:"value"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ValueSummary aggregates a user's learned values for external analytics.
type ValueSummary struct {
	TotalEntries   int                `json:"total_entries"`
	StatesExplored int                `json:"states_explored"`
	AverageValue   float64            `json:"average_value"`
	MaxValue       float64            `json:"max_value"`
	MinValue       float64            `json:"min_value"`
	ActionCounts   map[Difficulty]int `json:"action_counts"`
	CurrentEpsilon float64            `json:"current_epsilon"`
}

// LevelTransition is the recommendation of the level policy.
type LevelTransition string

const (
	TransitionNone    LevelTransition = "none"
	TransitionPromote LevelTransition = "promote"
	TransitionDemote  LevelTransition = "demote"
)

// LevelChange describes a recommended level transition. The caller applies it
// atomically alongside the profile mutation.
type LevelChange struct {
	Transition LevelTransition `json:"transition"`
	From       Level           `json:"from"`
	To         Level           `json:"to"`
	Reason     string          `json:"reason,omitempty"`
}

// NoChange is the LevelChange returned when no transition applies.
func NoChange(l Level) LevelChange {
	return LevelChange{Transition: TransitionNone, From: l, To: l}
}
