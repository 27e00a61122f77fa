package services

import (
	"context"

	"github.com/adaptquiz/adaptquiz/internal/errors"
	"github.com/adaptquiz/adaptquiz/internal/logger"
	"github.com/adaptquiz/adaptquiz/internal/models"
	"github.com/adaptquiz/adaptquiz/internal/qlearn"
	"github.com/adaptquiz/adaptquiz/internal/repository"
)

// ProgressService summarizes what the controller has learned about a user.
type ProgressService interface {
	Summary(ctx context.Context, userID int64) (*models.ValueSummary, error)
}

type progressService struct {
	profiles repository.ProfileRepository
	values   repository.ValueRepository
	selector *qlearn.Selector
}

// NewProgressService creates a ProgressService.
func NewProgressService(profiles repository.ProfileRepository, values repository.ValueRepository, selector *qlearn.Selector) ProgressService {
	return &progressService{profiles: profiles, values: values, selector: selector}
}

func (s *progressService) Summary(ctx context.Context, userID int64) (*models.ValueSummary, error) {
	log := logger.FromContext(ctx)

	entries, err := s.values.List(ctx, userID)
	if err != nil {
		log.Error("failed to list value entries: %v", err)
		return nil, errors.NewInternalError(err)
	}

	summary := &models.ValueSummary{
		TotalEntries: len(entries),
		ActionCounts: make(map[models.Difficulty]int),
	}

	states := make(map[string]struct{}, len(entries))
	sum := 0.0
	for i, e := range entries {
		states[e.StateHash] = struct{}{}
		summary.ActionCounts[e.Action]++
		sum += e.Value
		if i == 0 || e.Value > summary.MaxValue {
			summary.MaxValue = e.Value
		}
		if i == 0 || e.Value < summary.MinValue {
			summary.MinValue = e.Value
		}
	}
	summary.StatesExplored = len(states)
	if len(entries) > 0 {
		summary.AverageValue = sum / float64(len(entries))
	}

	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		log.Error("failed to load profile: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if p == nil {
		fresh := models.NewProfile(userID)
		p = &fresh
	}
	summary.CurrentEpsilon = s.selector.Epsilon(*p)

	return summary, nil
}
