package service

import (
	"context"

	"smart-planner/internal/model"
	"smart-planner/internal/repository"
)

// InsightService wraps CRUD around stored insights. Generation lives in
// InsightGenerator.
type InsightService struct {
	repo *repository.InsightRepository
}

func NewInsightService(repo *repository.InsightRepository) *InsightService {
	return &InsightService{repo: repo}
}

func (s *InsightService) List(ctx context.Context, user *model.User) ([]model.ContextInsight, error) {
	return s.repo.List(ctx, user.ID)
}

func (s *InsightService) Get(ctx context.Context, user *model.User, insightID uint) (*model.ContextInsight, error) {
	return s.repo.FindByID(ctx, user.ID, insightID)
}

// Actionable returns undismissed actionable insights ordered by confidence.
func (s *InsightService) Actionable(ctx context.Context, user *model.User) ([]model.ContextInsight, error) {
	return s.repo.ListActionable(ctx, user.ID)
}

// Dismiss hides an insight from actionable listings.
func (s *InsightService) Dismiss(ctx context.Context, user *model.User, insightID uint) (*model.ContextInsight, error) {
	insight, err := s.repo.FindByID(ctx, user.ID, insightID)
	if err != nil {
		return nil, err
	}
	insight.IsDismissed = true
	if err := s.repo.Save(ctx, insight); err != nil {
		return nil, err
	}
	return insight, nil
}

func (s *InsightService) Delete(ctx context.Context, user *model.User, insightID uint) error {
	return s.repo.Delete(ctx, user.ID, insightID)
}
