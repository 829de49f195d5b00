package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"smart-planner/internal/ai"
	"smart-planner/internal/logger"
	"smart-planner/internal/model"
	"smart-planner/internal/repository"
)

// InsightGenerator builds daily and productivity insights from a user's
// tasks and context entries, persisting daily insights for later review.
type InsightGenerator struct {
	completer   ai.Completer
	userRepo    *repository.UserRepository
	taskRepo    *repository.TaskRepository
	contextRepo *repository.ContextRepository
	insightRepo *repository.InsightRepository
}

func NewInsightGenerator(completer ai.Completer, userRepo *repository.UserRepository,
	taskRepo *repository.TaskRepository, contextRepo *repository.ContextRepository,
	insightRepo *repository.InsightRepository) *InsightGenerator {
	return &InsightGenerator{
		completer:   completer,
		userRepo:    userRepo,
		taskRepo:    taskRepo,
		contextRepo: contextRepo,
		insightRepo: insightRepo,
	}
}

// DailyInsights analyzes one calendar day of activity and stores each
// returned insight as a ContextInsight for the user.
func (g *InsightGenerator) DailyInsights(ctx context.Context, userID uint, date time.Time) ([]map[string]any, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	tasks, err := g.taskRepo.ListCreatedBetween(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	entries, err := g.contextRepo.ListBetween(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	stats := ai.DailyStats{
		Date:         dayStart,
		TaskCount:    len(tasks),
		ContextCount: len(entries),
	}
	for _, task := range tasks {
		stats.TaskLines = append(stats.TaskLines, fmt.Sprintf("- %s (%s)", task.Title, task.Status))
		if task.Status == model.StatusCompleted {
			stats.CompletedCount++
		}
	}
	for _, entry := range entries {
		stats.ContextLines = append(stats.ContextLines, "- "+entry.Excerpt())
	}

	response, err := g.completer.Complete(ctx, ai.DailyInsightsPrompt(stats))
	if err != nil {
		return nil, fmt.Errorf("daily insights: %w", err)
	}
	result := ai.Normalize(response)

	insights := mapListField(result, "insights")
	if insights == nil {
		insights = []map[string]any{}
	}
	for _, item := range insights {
		insight := &model.ContextInsight{
			UserID:         userID,
			InsightType:    insightType(stringField(item, "type")),
			Title:          stringField(item, "title"),
			Description:    stringField(item, "description"),
			DateRangeStart: dayStart,
			DateRangeEnd:   dayEnd,
		}
		if confidence, ok := numberField(item, "confidence"); ok {
			insight.ConfidenceScore = clamp(confidence, 0, 1)
		}
		if actionable, ok := item["actionable"].(bool); ok {
			insight.IsActionable = actionable
		}
		if err := g.insightRepo.Create(ctx, insight); err != nil {
			return nil, err
		}
	}
	return insights, nil
}

// ProductivityAnalysis summarizes completion behavior over the last N days.
// Statistics are computed locally; the model only interprets them.
func (g *InsightGenerator) ProductivityAnalysis(ctx context.Context, userID uint, days int) (map[string]any, error) {
	if days <= 0 {
		days = 7
	}
	end := time.Now()
	start := end.Add(-time.Duration(days) * 24 * time.Hour)

	tasks, err := g.taskRepo.ListCreatedBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	entries, err := g.contextRepo.ListBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	stats := ai.ProductivityStats{
		Days:           days,
		TotalTasks:     len(tasks),
		ContextEntries: len(entries),
	}
	for _, task := range tasks {
		if task.Status == model.StatusCompleted {
			stats.CompletedTasks++
		}
	}
	if stats.TotalTasks > 0 {
		stats.CompletionRate = float64(stats.CompletedTasks) / float64(stats.TotalTasks)
	}

	response, err := g.completer.Complete(ctx, ai.ProductivityPrompt(stats))
	if err != nil {
		return nil, fmt.Errorf("productivity analysis: %w", err)
	}
	return ai.Normalize(response), nil
}

// GenerateNightly runs DailyInsights for every known user. A failure for one
// user is logged and does not abort the rest; scheduled by the cron job.
func (g *InsightGenerator) GenerateNightly(ctx context.Context) error {
	users, err := g.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	date := time.Now()
	for _, user := range users {
		if _, err := g.DailyInsights(ctx, user.ID, date); err != nil {
			logger.Error("nightly insights failed", err, zap.Uint("user_id", user.ID))
		}
	}
	return nil
}

// insightType maps a model-reported type to a stored InsightType. The model
// is asked for productivity/pattern/recommendation but does not always comply.
func insightType(raw string) model.InsightType {
	switch t := model.InsightType(raw); {
	case model.ValidInsightType(t):
		return t
	case raw == "productivity":
		return model.InsightTrend
	default:
		return model.InsightSummary
	}
}
