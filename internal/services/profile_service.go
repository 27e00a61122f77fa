package services

import (
	"context"

	"github.com/adaptquiz/adaptquiz/internal/errors"
	"github.com/adaptquiz/adaptquiz/internal/logger"
	"github.com/adaptquiz/adaptquiz/internal/models"
	"github.com/adaptquiz/adaptquiz/internal/policy"
	"github.com/adaptquiz/adaptquiz/internal/repository"
)

// ProfileView is a profile snapshot plus promotion progress.
type ProfileView struct {
	Profile     models.PerformanceProfile `json:"profile"`
	NextLevelXP int                       `json:"next_level_xp"`
	RemainingXP int                       `json:"remaining_xp"`
}

// ProfileService exposes learner profiles to external consumers.
type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (*ProfileView, error)
}

type profileService struct {
	profiles repository.ProfileRepository
	levels   *policy.LevelEvaluator
}

// NewProfileService creates a ProfileService.
func NewProfileService(profiles repository.ProfileRepository, levels *policy.LevelEvaluator) ProfileService {
	return &profileService{profiles: profiles, levels: levels}
}

func (s *profileService) GetProfile(ctx context.Context, userID int64) (*ProfileView, error) {
	log := logger.FromContext(ctx)

	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		log.Error("failed to load profile: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if p == nil {
		// A user who never attempted anything is a fresh beginner, not an error.
		fresh := models.NewProfile(userID)
		p = &fresh
	}

	required, remaining := s.levels.ProgressToNextLevel(*p)
	return &ProfileView{
		Profile:     *p,
		NextLevelXP: required,
		RemainingXP: remaining,
	}, nil
}
