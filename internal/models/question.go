package models

import "time"

// Question formats supported by the answer checker.
const (
	FormatMCQSimple   = "mcq_simple"
	FormatMCQComplex  = "mcq_complex"
	FormatShortAnswer = "short_answer"
)

// Question is a single item from the question bank.
type Question struct {
	ID          int64      `json:"id"`
	Text        string     `json:"text"`
	Difficulty  Difficulty `json:"difficulty"`
	Format      string     `json:"format"`
	Options     string     `json:"options,omitempty"`
	AnswerKey   string     `json:"-"`
	Topic       string     `json:"topic,omitempty"`
	Explanation string     `json:"explanation,omitempty"`
	Hints       []string   `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
}

// QuestionFilter narrows question listings.
type QuestionFilter struct {
	Difficulty Difficulty
	Topic      string
	Limit      int
	Offset     int
}

// QuestionHistory is a per-user view of past exposure to one question.
type QuestionHistory struct {
	QuestionID   int64      `json:"question_id"`
	TimesSeen    int        `json:"times_seen"`
	TimesCorrect int        `json:"times_correct"`
	TimesWrong   int        `json:"times_wrong"`
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty"`
}

// AttemptOutcome is the ephemeral event that drives a learning step. It is
// consumed once and discarded by the core.
type AttemptOutcome struct {
	UserID           int64
	QuestionID       int64
	Difficulty       Difficulty
	Correct          bool
	TimeSpentSeconds float64
	HintsUsed        int
	WrongAttempts    int
}

// Attempt is the persisted log row behind rolling windows and history.
type Attempt struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"user_id"`
	QuestionID       int64      `json:"question_id"`
	Difficulty       Difficulty `json:"difficulty"`
	ChosenAnswer     string     `json:"chosen_answer"`
	Correct          bool       `json:"correct"`
	TimeSpentSeconds float64    `json:"time_spent_seconds"`
	Reward           float64    `json:"reward"`
	HintGiven        string     `json:"hint_given,omitempty"`
	IsFirstAttempt   bool       `json:"is_first_attempt"`
	CreatedAt        time.Time  `json:"created_at"`
}
