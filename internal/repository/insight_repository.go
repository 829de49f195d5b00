package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"smart-planner/internal/model"
)

// InsightRepository handles CRUD for aggregated context insights.
type InsightRepository struct {
	db *gorm.DB
}

func NewInsightRepository(db *gorm.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

func (r *InsightRepository) Create(ctx context.Context, insight *model.ContextInsight) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(insight).Error; err != nil {
		return fmt.Errorf("create insight: %w", err)
	}
	return nil
}

func (r *InsightRepository) Save(ctx context.Context, insight *model.ContextInsight) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(insight).Error; err != nil {
		return fmt.Errorf("save insight: %w", err)
	}
	return nil
}

func (r *InsightRepository) FindByID(ctx context.Context, userID, insightID uint) (*model.ContextInsight, error) {
	var insight model.ContextInsight
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, insightID).First(&insight).Error; err != nil {
		return nil, err
	}
	return &insight, nil
}

func (r *InsightRepository) List(ctx context.Context, userID uint) ([]model.ContextInsight, error) {
	var insights []model.ContextInsight
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&insights).Error; err != nil {
		return nil, err
	}
	return insights, nil
}

// ListActionable returns undismissed actionable insights, most confident first.
func (r *InsightRepository) ListActionable(ctx context.Context, userID uint) ([]model.ContextInsight, error) {
	var insights []model.ContextInsight
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_actionable = ? AND is_dismissed = ?", userID, true, false).
		Order("confidence_score DESC").
		Find(&insights).Error; err != nil {
		return nil, err
	}
	return insights, nil
}

func (r *InsightRepository) Delete(ctx context.Context, userID, insightID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, insightID).
		Delete(&model.ContextInsight{}).Error; err != nil {
		return fmt.Errorf("delete insight: %w", err)
	}
	return nil
}
