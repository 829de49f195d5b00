package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"smart-planner/internal/model"
)

// ContextFilter narrows context entry listings.
type ContextFilter struct {
	SourceType    model.SourceType
	PriorityLevel model.Priority
	IsProcessed   *bool
	IsArchived    *bool
}

// ContextRepository handles CRUD for context entries.
type ContextRepository struct {
	db *gorm.DB
}

func NewContextRepository(db *gorm.DB) *ContextRepository {
	return &ContextRepository{db: db}
}

func (r *ContextRepository) Create(ctx context.Context, entry *model.ContextEntry) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error; err != nil {
		return fmt.Errorf("create context entry: %w", err)
	}
	return nil
}

// CreateBatch inserts several entries in one transaction.
func (r *ContextRepository) CreateBatch(ctx context.Context, entries []*model.ContextEntry) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			if err := tx.Omit(clause.Associations).Create(entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create context entries: %w", err)
	}
	return nil
}

func (r *ContextRepository) Save(ctx context.Context, entry *model.ContextEntry) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(entry).Error; err != nil {
		return fmt.Errorf("save context entry: %w", err)
	}
	return nil
}

func (r *ContextRepository) FindByID(ctx context.Context, userID, entryID uint) (*model.ContextEntry, error) {
	var entry model.ContextEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, entryID).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *ContextRepository) List(ctx context.Context, userID uint, filter ContextFilter) ([]model.ContextEntry, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.SourceType != "" {
		q = q.Where("source_type = ?", filter.SourceType)
	}
	if filter.PriorityLevel != "" {
		q = q.Where("priority_level = ?", filter.PriorityLevel)
	}
	if filter.IsProcessed != nil {
		q = q.Where("is_processed = ?", *filter.IsProcessed)
	}
	if filter.IsArchived != nil {
		q = q.Where("is_archived = ?", *filter.IsArchived)
	}

	var entries []model.ContextEntry
	if err := q.Order("context_date DESC, created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByIDs returns the user's entries among the given ids.
func (r *ContextRepository) ListByIDs(ctx context.Context, userID uint, ids []uint) ([]model.ContextEntry, error) {
	var entries []model.ContextEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListBetween returns entries whose context date falls inside [start, end).
func (r *ContextRepository) ListBetween(ctx context.Context, userID uint, start, end time.Time) ([]model.ContextEntry, error) {
	var entries []model.ContextEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND context_date >= ? AND context_date < ?", userID, start, end).
		Order("context_date DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ContextRepository) ListUnprocessed(ctx context.Context, userID uint) ([]model.ContextEntry, error) {
	var entries []model.ContextEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_processed = ?", userID, false).
		Order("context_date DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListHighRelevance returns entries at or above the relevance threshold,
// most relevant first.
func (r *ContextRepository) ListHighRelevance(ctx context.Context, userID uint, minScore float64) ([]model.ContextEntry, error) {
	var entries []model.ContextEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND relevance_score >= ?", userID, minScore).
		Order("relevance_score DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListWithSuggestions returns entries whose analysis produced task suggestions.
func (r *ContextRepository) ListWithSuggestions(ctx context.Context, userID uint) ([]model.ContextEntry, error) {
	var entries []model.ContextEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND task_suggestions IS NOT NULL AND task_suggestions NOT IN ('', 'null', '[]')", userID).
		Order("context_date DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ContextRepository) ListRecent(ctx context.Context, userID uint, since time.Time) ([]model.ContextEntry, error) {
	var entries []model.ContextEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND context_date >= ?", userID, since).
		Order("context_date DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListLatest returns the most recently recorded entries.
func (r *ContextRepository) ListLatest(ctx context.Context, userID uint, limit int) ([]model.ContextEntry, error) {
	var entries []model.ContextEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ContextRepository) Delete(ctx context.Context, userID, entryID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, entryID).
		Delete(&model.ContextEntry{}).Error; err != nil {
		return fmt.Errorf("delete context entry: %w", err)
	}
	return nil
}
