package services

import (
	"context"

	"github.com/adaptquiz/adaptquiz/internal/errors"
	"github.com/adaptquiz/adaptquiz/internal/logger"
	"github.com/adaptquiz/adaptquiz/internal/models"
	"github.com/adaptquiz/adaptquiz/internal/repository"
)

// QuestionService handles question bank ingest and listing.
type QuestionService interface {
	CreateQuestion(ctx context.Context, q models.Question) (int64, error)
	ListQuestions(ctx context.Context, filter models.QuestionFilter) ([]models.Question, int, error)
}

type questionService struct {
	questions repository.QuestionRepository
}

// NewQuestionService creates a QuestionService.
func NewQuestionService(questions repository.QuestionRepository) QuestionService {
	return &questionService{questions: questions}
}

func (s *questionService) CreateQuestion(ctx context.Context, q models.Question) (int64, error) {
	log := logger.FromContext(ctx)

	if q.Text == "" {
		return 0, errors.NewValidationError("text", "must not be empty")
	}
	if !q.Difficulty.Valid() {
		return 0, errors.NewValidationError("difficulty", "must be easy, medium or hard")
	}
	switch q.Format {
	case models.FormatMCQSimple, models.FormatMCQComplex, models.FormatShortAnswer:
	default:
		return 0, errors.NewValidationError("format", "unknown question format")
	}
	if q.AnswerKey == "" {
		return 0, errors.NewValidationError("answer_key", "must not be empty")
	}

	id, err := s.questions.Insert(ctx, q)
	if err != nil {
		log.Error("failed to insert question: %v", err)
		return 0, errors.NewInternalError(err)
	}
	log.Info("question created: id=%d difficulty=%s format=%s", id, q.Difficulty, q.Format)
	return id, nil
}

func (s *questionService) ListQuestions(ctx context.Context, filter models.QuestionFilter) ([]models.Question, int, error) {
	log := logger.FromContext(ctx)

	if filter.Difficulty != "" && !filter.Difficulty.Valid() {
		return nil, 0, errors.NewValidationError("difficulty", "must be easy, medium or hard")
	}

	questions, err := s.questions.List(ctx, filter)
	if err != nil {
		log.Error("failed to list questions: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.questions.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count questions: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	return questions, total, nil
}
