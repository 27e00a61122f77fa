package services

import (
	"context"
	"math"

	"github.com/adaptquiz/adaptquiz/internal/errors"
	"github.com/adaptquiz/adaptquiz/internal/logger"
	"github.com/adaptquiz/adaptquiz/internal/models"
	"github.com/adaptquiz/adaptquiz/internal/policy"
	"github.com/adaptquiz/adaptquiz/internal/profile"
	"github.com/adaptquiz/adaptquiz/internal/qlearn"
	"github.com/adaptquiz/adaptquiz/internal/question"
	"github.com/adaptquiz/adaptquiz/internal/repository"
)

// NextQuestionResult is the outcome of serving a question to a learner.
type NextQuestionResult struct {
	Question models.Question `json:"question"`
	// Difficulty the policy asked for; may differ from Question.Difficulty
	// when the bank had no content at that difficulty.
	RequestedDifficulty models.Difficulty `json:"requested_difficulty"`
	Decision            qlearn.Decision   `json:"decision"`
}

// SubmitAttemptInput carries one answer submission.
type SubmitAttemptInput struct {
	UserID           int64
	QuestionID       int64
	Answer           string
	TimeSpentSeconds float64
}

// SubmitAttemptResult reports everything that happened on a submission: the
// verdict, the reward and XP earned, the updated value estimate, any level
// transition, and the next hint when the answer was wrong.
type SubmitAttemptResult struct {
	Correct     bool                      `json:"correct"`
	Reward      float64                   `json:"reward"`
	XPEarned    int                       `json:"xp_earned"`
	NewValue    float64                   `json:"new_value"`
	LevelChange models.LevelChange        `json:"level_change"`
	Hint        string                    `json:"hint,omitempty"`
	Explanation string                    `json:"explanation,omitempty"`
	Profile     models.PerformanceProfile `json:"profile"`
}

// QuizService drives the question-serving and answer-submission flow.
type QuizService interface {
	NextQuestion(ctx context.Context, userID int64) (*NextQuestionResult, error)
	SubmitAttempt(ctx context.Context, input SubmitAttemptInput) (*SubmitAttemptResult, error)
	Hint(ctx context.Context, userID, questionID int64) (string, error)
}

type quizService struct {
	profiles  repository.ProfileRepository
	questions repository.QuestionRepository
	attempts  repository.AttemptRepository

	selector  *qlearn.Selector
	updater   *qlearn.Updater
	rewards   *qlearn.Calculator
	picker    *question.Selector
	levels    *policy.LevelEvaluator
	window    int
	poolLimit int
}

// NewQuizService creates a QuizService.
func NewQuizService(
	profiles repository.ProfileRepository,
	questions repository.QuestionRepository,
	attempts repository.AttemptRepository,
	selector *qlearn.Selector,
	updater *qlearn.Updater,
	rewards *qlearn.Calculator,
	picker *question.Selector,
	levels *policy.LevelEvaluator,
	window int,
) QuizService {
	return &quizService{
		profiles:  profiles,
		questions: questions,
		attempts:  attempts,
		selector:  selector,
		updater:   updater,
		rewards:   rewards,
		picker:    picker,
		levels:    levels,
		window:    window,
		poolLimit: 50,
	}
}

func (s *quizService) NextQuestion(ctx context.Context, userID int64) (*NextQuestionResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("serving next question: user_id=%d", userID)

	p, err := s.getOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	state := qlearn.Encode(p)
	decision, err := s.selector.Select(ctx, p, state)
	if err != nil {
		log.Error("action selection failed: %v", err)
		return nil, errors.NewInternalError(err)
	}

	history, err := s.attempts.History(ctx, userID)
	if err != nil {
		log.Error("failed to load question history: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// Try the chosen difficulty first, then the adjacent ones.
	for _, d := range question.FallbackOrder(decision.Action) {
		pool, err := s.questions.List(ctx, models.QuestionFilter{Difficulty: d, Limit: s.poolLimit})
		if err != nil {
			log.Error("failed to list questions at %s: %v", d, err)
			return nil, errors.NewInternalError(err)
		}
		candidates := make([]question.Candidate, 0, len(pool))
		for _, q := range pool {
			c := question.Candidate{Question: q}
			if h, ok := history[q.ID]; ok {
				hc := h
				c.History = &hc
			}
			candidates = append(candidates, c)
		}
		if q, ok := s.picker.Pick(candidates); ok {
			if d != decision.Action {
				log.Info("difficulty fallback: requested=%s served=%s", decision.Action, d)
			}
			return &NextQuestionResult{
				Question:            q,
				RequestedDifficulty: decision.Action,
				Decision:            decision,
			}, nil
		}
	}

	log.Warn("no content available: user_id=%d difficulty=%s", userID, decision.Action)
	return nil, errors.NewNoContentError(string(decision.Action))
}

func (s *quizService) SubmitAttempt(ctx context.Context, input SubmitAttemptInput) (*SubmitAttemptResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting attempt: user_id=%d question_id=%d", input.UserID, input.QuestionID)

	if input.TimeSpentSeconds < 0 {
		return nil, errors.NewValidationError("time_spent_seconds", "must not be negative")
	}

	p, err := s.getOrCreateProfile(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	q, err := s.questions.Get(ctx, input.QuestionID)
	if err != nil {
		log.Error("failed to load question: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if q == nil {
		return nil, errors.NewNotFoundError("question", input.QuestionID)
	}

	prevState := qlearn.Encode(p)
	correct := question.CheckAnswer(*q, input.Answer)

	hist, err := s.attempts.HistoryForQuestion(ctx, input.UserID, input.QuestionID)
	if err != nil {
		log.Error("failed to load question exposure: %v", err)
		return nil, errors.NewInternalError(err)
	}
	priorExposures := 0
	priorWrong := 0
	if hist != nil {
		priorExposures = hist.TimesSeen
		priorWrong = hist.TimesWrong
	}

	baseReward, err := s.rewards.Reward(q.Difficulty, correct, priorWrong, input.TimeSpentSeconds, p.Level)
	if err != nil {
		return nil, errors.NewValidationError("attempt", err.Error())
	}
	// Repeat exposures earn diminishing credit so grinding one known question
	// cannot farm reward.
	reward := baseReward * question.ExposureMultiplier(priorExposures)

	xpEarned := 0
	if reward > 0 {
		xpEarned = int(math.Round(reward))
	}

	hint := ""
	if !correct {
		hint = policy.NextHint(*q, priorWrong+1)
	}

	attempt := models.Attempt{
		UserID:           input.UserID,
		QuestionID:       input.QuestionID,
		Difficulty:       q.Difficulty,
		ChosenAnswer:     input.Answer,
		Correct:          correct,
		TimeSpentSeconds: input.TimeSpentSeconds,
		Reward:           reward,
		HintGiven:        hint,
		IsFirstAttempt:   priorExposures == 0,
	}
	if _, err := s.attempts.Insert(ctx, attempt); err != nil {
		log.Error("failed to record attempt: %v", err)
		return nil, errors.NewInternalError(err)
	}

	overall, byDifficulty, err := s.windowStats(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	hintsUsed := 0
	if hint != "" {
		hintsUsed = 1
	}
	outcome := models.AttemptOutcome{
		UserID:           input.UserID,
		QuestionID:       input.QuestionID,
		Difficulty:       q.Difficulty,
		Correct:          correct,
		TimeSpentSeconds: input.TimeSpentSeconds,
		HintsUsed:        hintsUsed,
		WrongAttempts:    priorWrong,
	}
	updated := profile.ApplyOutcome(p, outcome, overall, byDifficulty, xpEarned)

	primaryWindow, err := s.attempts.WindowStats(ctx, input.UserID, updated.Level.PrimaryDifficulty(), s.window)
	if err != nil {
		log.Error("failed to load primary-difficulty window: %v", err)
		return nil, errors.NewInternalError(err)
	}
	change := s.levels.Evaluate(updated, primaryWindow)
	if change.Transition != models.TransitionNone {
		log.Info("level transition: user_id=%d %s -> %s (%s)", input.UserID, change.From, change.To, change.Reason)
		updated.Level = change.To
	}

	if err := s.profiles.Upsert(ctx, updated); err != nil {
		log.Error("failed to save profile: %v", err)
		return nil, errors.NewInternalError(err)
	}

	nextState := qlearn.Encode(updated)
	newValue, err := s.updater.Update(ctx, input.UserID, prevState, q.Difficulty, reward, nextState)
	if err != nil {
		log.Error("value update failed: %v", err)
		return nil, errors.NewInternalError(err)
	}

	result := &SubmitAttemptResult{
		Correct:     correct,
		Reward:      reward,
		XPEarned:    xpEarned,
		NewValue:    newValue,
		LevelChange: change,
		Hint:        hint,
		Profile:     updated,
	}
	if correct {
		result.Explanation = q.Explanation
	}
	return result, nil
}

func (s *quizService) Hint(ctx context.Context, userID, questionID int64) (string, error) {
	q, err := s.questions.Get(ctx, questionID)
	if err != nil {
		return "", errors.NewInternalError(err)
	}
	if q == nil {
		return "", errors.NewNotFoundError("question", questionID)
	}

	hist, err := s.attempts.HistoryForQuestion(ctx, userID, questionID)
	if err != nil {
		return "", errors.NewInternalError(err)
	}
	wrongAttempts := 0
	if hist != nil {
		wrongAttempts = hist.TimesWrong
	}
	return policy.NextHint(*q, wrongAttempts), nil
}

func (s *quizService) getOrCreateProfile(ctx context.Context, userID int64) (models.PerformanceProfile, error) {
	log := logger.FromContext(ctx)

	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		log.Error("failed to load profile: %v", err)
		return models.PerformanceProfile{}, errors.NewInternalError(err)
	}
	if p != nil {
		return *p, nil
	}

	fresh := models.NewProfile(userID)
	if err := s.profiles.Upsert(ctx, fresh); err != nil {
		log.Error("failed to create profile: %v", err)
		return models.PerformanceProfile{}, errors.NewInternalError(err)
	}
	log.Info("created profile: user_id=%d", userID)
	return fresh, nil
}

// windowStats loads the overall window plus the per-difficulty windows that
// feed the rolling accuracies.
func (s *quizService) windowStats(ctx context.Context, userID int64) (models.WindowStats, map[models.Difficulty]models.WindowStats, error) {
	log := logger.FromContext(ctx)

	overall, err := s.attempts.WindowStats(ctx, userID, "", s.window)
	if err != nil {
		log.Error("failed to load overall window: %v", err)
		return models.WindowStats{}, nil, errors.NewInternalError(err)
	}

	byDifficulty := make(map[models.Difficulty]models.WindowStats, len(models.Difficulties))
	for _, d := range models.Difficulties {
		w, err := s.attempts.WindowStats(ctx, userID, d, s.window)
		if err != nil {
			log.Error("failed to load %s window: %v", d, err)
			return models.WindowStats{}, nil, errors.NewInternalError(err)
		}
		byDifficulty[d] = w
	}
	return overall, byDifficulty, nil
}
