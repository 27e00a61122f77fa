package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adaptquiz/adaptquiz/internal/api"
	"github.com/adaptquiz/adaptquiz/internal/config"
	"github.com/adaptquiz/adaptquiz/internal/db"
	"github.com/adaptquiz/adaptquiz/internal/logger"
	"github.com/adaptquiz/adaptquiz/internal/policy"
	"github.com/adaptquiz/adaptquiz/internal/qlearn"
	"github.com/adaptquiz/adaptquiz/internal/question"
	"github.com/adaptquiz/adaptquiz/internal/repository/sqlite"
	"github.com/adaptquiz/adaptquiz/internal/services"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("AdaptQuiz Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("alpha=%g gamma=%g", cfg.Alpha, cfg.Gamma)
	log.Debug("window_size=%d", cfg.WindowSize)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	profileRepo := sqlite.NewProfileRepository(database)
	questionRepo := sqlite.NewQuestionRepository(database)
	attemptRepo := sqlite.NewAttemptRepository(database)
	valueRepo := sqlite.NewValueRepository(database)

	selectorCfg := qlearn.DefaultSelectorConfig()
	selectorCfg.BaseEpsilon = cfg.BaseEpsilon
	selectorCfg.MaxEpsilon = cfg.MaxEpsilon
	selectorCfg.ColdStartAttempts = cfg.ColdStartAttempts
	selectorCfg.ConfidenceAttempts = cfg.ConfidenceAttempts
	selectorCfg.ConfidenceAccuracy = cfg.ConfidenceAccuracy
	selectorCfg.FallbackWrongStreak = cfg.FallbackWrongStreak

	selector := qlearn.NewSelector(valueRepo, selectorCfg)
	updater := qlearn.NewUpdater(valueRepo, qlearn.UpdaterConfig{Alpha: cfg.Alpha, Gamma: cfg.Gamma})
	rewards := qlearn.NewCalculator(qlearn.DefaultRewardConfig())
	picker := question.NewSelector()
	levels := policy.NewLevelEvaluator(policy.DefaultLevelConfig())

	quizService := services.NewQuizService(
		profileRepo, questionRepo, attemptRepo,
		selector, updater, rewards, picker, levels,
		cfg.WindowSize,
	)
	profileService := services.NewProfileService(profileRepo, levels)
	progressService := services.NewProgressService(profileRepo, valueRepo, selector)
	questionService := services.NewQuestionService(questionRepo)

	srv := api.NewServer(quizService, profileService, progressService, questionService)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("AdaptQuiz Server Stopped")
	log.Info("===========================================")
}
