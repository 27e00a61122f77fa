package models

// Difficulty is the action space of the difficulty controller.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists all difficulties in ascending order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Easier returns the next lower difficulty, or false when already at easy.
func (d Difficulty) Easier() (Difficulty, bool) {
	switch d {
	case DifficultyMedium:
		return DifficultyEasy, true
	case DifficultyHard:
		return DifficultyMedium, true
	}
	return d, false
}

// Harder returns the next higher difficulty, or false when already at hard.
func (d Difficulty) Harder() (Difficulty, bool) {
	switch d {
	case DifficultyEasy:
		return DifficultyMedium, true
	case DifficultyMedium:
		return DifficultyHard, true
	}
	return d, false
}

// Rank returns the position of the difficulty in ascending order.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyEasy:
		return 0
	case DifficultyMedium:
		return 1
	case DifficultyHard:
		return 2
	}
	return -1
}

// Level is the ordinal skill level of a learner.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
	LevelExpert       Level = "expert"
)

// Levels lists all levels in ascending order.
var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert}

func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert:
		return true
	}
	return false
}

// Next returns the next level up, or false when already at expert.
func (l Level) Next() (Level, bool) {
	switch l {
	case LevelBeginner:
		return LevelIntermediate, true
	case LevelIntermediate:
		return LevelAdvanced, true
	case LevelAdvanced:
		return LevelExpert, true
	}
	return l, false
}

// Prev returns the next level down, or false when already at beginner.
func (l Level) Prev() (Level, bool) {
	switch l {
	case LevelIntermediate:
		return LevelBeginner, true
	case LevelAdvanced:
		return LevelIntermediate, true
	case LevelExpert:
		return LevelAdvanced, true
	}
	return l, false
}

// PrimaryDifficulty is the difficulty a learner at this level is expected to
// work at. Demotion checks watch the accuracy at this difficulty.
func (l Level) PrimaryDifficulty() Difficulty {
	switch l {
	case LevelBeginner:
		return DifficultyEasy
	case LevelIntermediate:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

// WindowStats summarizes a trailing window of attempts.
type WindowStats struct {
	Correct        int     `json:"correct"`
	Total          int     `json:"total"`
	AvgTimeSeconds float64 `json:"avg_time_seconds"`
}

// Accuracy returns the fraction correct in the window, 0 when empty.
func (w WindowStats) Accuracy() float64 {
	if w.Total == 0 {
		return 0
	}
	return float64(w.Correct) / float64(w.Total)
}
