package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/datatypes"

	"smart-planner/internal/model"
	"smart-planner/internal/repository"
)

// ContextInput represents data required to record a context entry.
type ContextInput struct {
	Content       string
	SourceType    model.SourceType
	SourceDetails map[string]any
	ContextDate   time.Time
	PriorityLevel model.Priority
}

// ContextUpdate carries optional field changes for an entry.
type ContextUpdate struct {
	Content       *string
	SourceType    *model.SourceType
	SourceDetails *map[string]any
	ContextDate   *time.Time
	PriorityLevel *model.Priority
	IsArchived    *bool
}

// ContextActivity is one row of the recent feed in context statistics.
type ContextActivity struct {
	ID          uint             `json:"id"`
	Excerpt     string           `json:"excerpt"`
	SourceType  model.SourceType `json:"source_type"`
	ContextDate time.Time        `json:"context_date"`
}

// ContextStats aggregates a user's context entries.
type ContextStats struct {
	TotalEntries           int               `json:"total_entries"`
	ProcessedEntries       int               `json:"processed_entries"`
	UnprocessedEntries     int               `json:"unprocessed_entries"`
	EntriesBySource        map[string]int    `json:"entries_by_source"`
	EntriesByPriority      map[string]int    `json:"entries_by_priority"`
	AverageSentiment       float64           `json:"average_sentiment"`
	AverageRelevance       float64           `json:"average_relevance"`
	EntriesWithSuggestions int               `json:"entries_with_suggestions"`
	TotalTaskSuggestions   int               `json:"total_task_suggestions"`
	RecentEntries          []ContextActivity `json:"recent_entries"`
}

// ContextService wraps context-entry business logic.
type ContextService struct {
	repo *repository.ContextRepository
}

func NewContextService(repo *repository.ContextRepository) *ContextService {
	return &ContextService{repo: repo}
}

func (s *ContextService) buildEntry(user *model.User, input ContextInput) (*model.ContextEntry, error) {
	if input.Content == "" {
		return nil, fmt.Errorf("content is required")
	}

	sourceType := input.SourceType
	if sourceType == "" {
		sourceType = model.SourceNote
	}
	if !model.ValidSourceType(sourceType) {
		return nil, fmt.Errorf("invalid source type %q", sourceType)
	}

	priority := input.PriorityLevel
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !model.ValidPriority(priority) {
		return nil, fmt.Errorf("invalid priority level %q", priority)
	}

	contextDate := input.ContextDate
	if contextDate.IsZero() {
		contextDate = time.Now()
	}

	return &model.ContextEntry{
		UserID:        user.ID,
		Content:       input.Content,
		SourceType:    sourceType,
		SourceDetails: datatypes.JSONMap(input.SourceDetails),
		ContextDate:   contextDate,
		PriorityLevel: priority,
	}, nil
}

func (s *ContextService) Create(ctx context.Context, user *model.User, input ContextInput) (*model.ContextEntry, error) {
	entry, err := s.buildEntry(user, input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// CreateBatch records several entries at once; all or none are persisted.
func (s *ContextService) CreateBatch(ctx context.Context, user *model.User, inputs []ContextInput) ([]model.ContextEntry, error) {
	entries := make([]*model.ContextEntry, 0, len(inputs))
	for i, input := range inputs {
		entry, err := s.buildEntry(user, input)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}

	if err := s.repo.CreateBatch(ctx, entries); err != nil {
		return nil, err
	}

	out := make([]model.ContextEntry, len(entries))
	for i, entry := range entries {
		out[i] = *entry
	}
	return out, nil
}

func (s *ContextService) Get(ctx context.Context, user *model.User, entryID uint) (*model.ContextEntry, error) {
	return s.repo.FindByID(ctx, user.ID, entryID)
}

// ByIDs returns the user's entries among the given ids in one query;
// ids belonging to other users are silently skipped.
func (s *ContextService) ByIDs(ctx context.Context, user *model.User, ids []uint) ([]model.ContextEntry, error) {
	return s.repo.ListByIDs(ctx, user.ID, ids)
}

func (s *ContextService) List(ctx context.Context, user *model.User, filter repository.ContextFilter) ([]model.ContextEntry, error) {
	return s.repo.List(ctx, user.ID, filter)
}

func (s *ContextService) Update(ctx context.Context, user *model.User, entryID uint, update ContextUpdate) (*model.ContextEntry, error) {
	entry, err := s.repo.FindByID(ctx, user.ID, entryID)
	if err != nil {
		return nil, err
	}

	if update.Content != nil {
		entry.Content = *update.Content
	}
	if update.SourceType != nil {
		if !model.ValidSourceType(*update.SourceType) {
			return nil, fmt.Errorf("invalid source type %q", *update.SourceType)
		}
		entry.SourceType = *update.SourceType
	}
	if update.SourceDetails != nil {
		entry.SourceDetails = datatypes.JSONMap(*update.SourceDetails)
	}
	if update.ContextDate != nil {
		entry.ContextDate = *update.ContextDate
	}
	if update.PriorityLevel != nil {
		if !model.ValidPriority(*update.PriorityLevel) {
			return nil, fmt.Errorf("invalid priority level %q", *update.PriorityLevel)
		}
		entry.PriorityLevel = *update.PriorityLevel
	}
	if update.IsArchived != nil {
		entry.IsArchived = *update.IsArchived
	}

	if err := s.repo.Save(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ContextService) Delete(ctx context.Context, user *model.User, entryID uint) error {
	return s.repo.Delete(ctx, user.ID, entryID)
}

func (s *ContextService) Recent(ctx context.Context, user *model.User, days int) ([]model.ContextEntry, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	return s.repo.ListRecent(ctx, user.ID, since)
}

func (s *ContextService) Unprocessed(ctx context.Context, user *model.User) ([]model.ContextEntry, error) {
	return s.repo.ListUnprocessed(ctx, user.ID)
}

// HighRelevance returns entries scoring at least 7 out of 10.
func (s *ContextService) HighRelevance(ctx context.Context, user *model.User) ([]model.ContextEntry, error) {
	return s.repo.ListHighRelevance(ctx, user.ID, 7.0)
}

func (s *ContextService) WithSuggestions(ctx context.Context, user *model.User) ([]model.ContextEntry, error) {
	return s.repo.ListWithSuggestions(ctx, user.ID)
}

// Between returns entries inside the inclusive day range [start, end].
func (s *ContextService) Between(ctx context.Context, user *model.User, start, end time.Time) ([]model.ContextEntry, error) {
	return s.repo.ListBetween(ctx, user.ID, start, end.Add(24*time.Hour))
}

// Stats aggregates the user's entries in memory.
func (s *ContextService) Stats(ctx context.Context, user *model.User, now time.Time) (*ContextStats, error) {
	entries, err := s.repo.List(ctx, user.ID, repository.ContextFilter{})
	if err != nil {
		return nil, err
	}

	stats := ContextStats{
		EntriesBySource:   make(map[string]int),
		EntriesByPriority: make(map[string]int),
		RecentEntries:     []ContextActivity{},
	}

	var sentimentSum, relevanceSum float64
	weekAgo := now.Add(-7 * 24 * time.Hour)
	var recent []model.ContextEntry

	for _, entry := range entries {
		stats.TotalEntries++
		if entry.IsProcessed {
			stats.ProcessedEntries++
		}
		stats.EntriesBySource[string(entry.SourceType)]++
		stats.EntriesByPriority[string(entry.PriorityLevel)]++
		sentimentSum += entry.SentimentScore
		relevanceSum += entry.RelevanceScore
		if entry.HasTaskSuggestions() {
			stats.EntriesWithSuggestions++
			stats.TotalTaskSuggestions += len(entry.TaskSuggestions)
		}

		if entry.CreatedAt.After(weekAgo) {
			recent = append(recent, entry)
		}
	}
	stats.UnprocessedEntries = stats.TotalEntries - stats.ProcessedEntries

	if stats.TotalEntries > 0 {
		stats.AverageSentiment = round2(sentimentSum / float64(stats.TotalEntries))
		stats.AverageRelevance = round2(relevanceSum / float64(stats.TotalEntries))
	}

	sort.Slice(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}
	for _, entry := range recent {
		stats.RecentEntries = append(stats.RecentEntries, ContextActivity{
			ID:          entry.ID,
			Excerpt:     entry.Excerpt(),
			SourceType:  entry.SourceType,
			ContextDate: entry.ContextDate,
		})
	}

	return &stats, nil
}
