package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/adaptquiz/adaptquiz/internal/errors"
	"github.com/adaptquiz/adaptquiz/internal/logger"
	"github.com/adaptquiz/adaptquiz/internal/models"
	"github.com/adaptquiz/adaptquiz/internal/services"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.QuizService.NextQuestion(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type submitAttemptRequest struct {
	QuestionID       int64   `json:"question_id"`
	Answer           string  `json:"answer"`
	TimeSpentSeconds float64 `json:"time_spent_seconds"`
}

func (s *Server) handleSubmitAttempt(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req submitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}
	if req.QuestionID <= 0 {
		handleError(w, r, errors.NewValidationError("question_id", "must be a positive id"))
		return
	}

	result, err := s.QuizService.SubmitAttempt(r.Context(), services.SubmitAttemptInput{
		UserID:           userID,
		QuestionID:       req.QuestionID,
		Answer:           req.Answer,
		TimeSpentSeconds: req.TimeSpentSeconds,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	questionID, err := int64Param(r, "questionID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	hint, err := s.QuizService.Hint(r.Context(), userID, questionID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"hint": hint})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.ProfileService.GetProfile(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	summary, err := s.ProgressService.Summary(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type createQuestionRequest struct {
	Text        string   `json:"text"`
	Difficulty  string   `json:"difficulty"`
	Format      string   `json:"format"`
	Options     string   `json:"options"`
	AnswerKey   string   `json:"answer_key"`
	Topic       string   `json:"topic"`
	Explanation string   `json:"explanation"`
	Hints       []string `json:"hints"`
}

func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}

	id, err := s.QuestionService.CreateQuestion(r.Context(), models.Question{
		Text:        req.Text,
		Difficulty:  models.Difficulty(req.Difficulty),
		Format:      req.Format,
		Options:     req.Options,
		AnswerKey:   req.AnswerKey,
		Topic:       req.Topic,
		Explanation: req.Explanation,
		Hints:       req.Hints,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	filter := models.QuestionFilter{
		Difficulty: models.Difficulty(r.URL.Query().Get("difficulty")),
		Topic:      r.URL.Query().Get("topic"),
		Limit:      25,
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 && limit <= 100 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	questions, total, err := s.QuestionService.ListQuestions(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"questions": questions,
		"total":     total,
	})
}

func userIDParam(r *http.Request) (int64, error) {
	return int64Param(r, "id")
}

func int64Param(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Default().Error("failed to encode response: %v", err)
	}
}
