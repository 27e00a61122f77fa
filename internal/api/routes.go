package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(timeoutMiddleware(30 * time.Second))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/next-question", s.handleNextQuestion)
			r.Post("/attempts", s.handleSubmitAttempt)
			r.Get("/questions/{questionID}/hint", s.handleHint)
			r.Get("/profile", s.handleGetProfile)
			r.Get("/progress", s.handleProgress)
		})
		r.Route("/questions", func(r chi.Router) {
			r.Post("/", s.handleCreateQuestion)
			r.Get("/", s.handleListQuestions)
		})
	})

	return r
}
