package api

import (
	"github.com/adaptquiz/adaptquiz/internal/services"
)

// Server bundles the HTTP handlers and the services they call.
type Server struct {
	QuizService     services.QuizService
	ProfileService  services.ProfileService
	ProgressService services.ProgressService
	QuestionService services.QuestionService
}

// NewServer creates a Server over the given services.
func NewServer(
	quiz services.QuizService,
	profile services.ProfileService,
	progress services.ProgressService,
	question services.QuestionService,
) *Server {
	return &Server{
		QuizService:     quiz,
		ProfileService:  profile,
		ProgressService: progress,
		QuestionService: question,
	}
}
