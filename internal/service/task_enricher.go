package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"

	"smart-planner/internal/ai"
	"smart-planner/internal/logger"
	"smart-planner/internal/model"
	"smart-planner/internal/repository"
)

// FallbackCategory is assigned when enhancement suggests no category.
const FallbackCategory = "General"

var numberRe = regexp.MustCompile(`\d+\.?\d*`)

// TaskEnricher runs AI enhancement for tasks: enriched descriptions,
// suggested deadlines and categories, and priority scoring.
type TaskEnricher struct {
	completer    ai.Completer
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	contextRepo  *repository.ContextRepository
}

func NewTaskEnricher(completer ai.Completer, taskRepo *repository.TaskRepository,
	categoryRepo *repository.CategoryRepository, contextRepo *repository.ContextRepository) *TaskEnricher {
	return &TaskEnricher{
		completer:    completer,
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		contextRepo:  contextRepo,
	}
}

// Enhance asks the model for suggestions, writes the AI-derived fields onto
// the task and persists it. The raw suggestion mapping is returned so
// callers can echo it to the client.
func (e *TaskEnricher) Enhance(ctx context.Context, task *model.Task, contextLines []string) (map[string]any, error) {
	prompt := ai.TaskEnhancementPrompt(snapshotTask(task), contextLines, time.Now())
	response, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("task enhancement: %w", err)
	}
	suggestions := ai.Normalize(response)

	task.AIEnhancedDescription = stringField(suggestions, "enhanced_description")
	if task.AIEnhancedDescription == "" {
		task.AIEnhancedDescription = task.Description
	}
	task.AISuggestedDeadline = ParseSuggestedDeadline(stringField(suggestions, "suggested_deadline"))
	task.AISuggestedCategory = stringField(suggestions, "suggested_category")

	if score, ok := numberField(suggestions, "priority_score"); ok {
		task.PriorityScore = clamp(score, 0, 100)
	} else {
		task.PriorityScore = 50
	}

	if err := e.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// EnhanceOnCreate runs Enhance and then assigns the suggested category,
// creating it when missing and falling back to a default name. Used by the
// create path, where the caller absorbs any error: the task is already
// persisted with defaults by then.
func (e *TaskEnricher) EnhanceOnCreate(ctx context.Context, task *model.Task, contextLines []string) (map[string]any, error) {
	suggestions, err := e.Enhance(ctx, task, contextLines)
	if err != nil {
		return nil, err
	}

	name := task.AISuggestedCategory
	if name == "" {
		name = FallbackCategory
	}
	category, err := e.categoryRepo.GetOrCreate(ctx, name)
	if err != nil {
		return nil, err
	}
	task.CategoryID = &category.ID
	task.Category = category

	if err := e.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// RecalculatePriority asks the model for a fresh 0-100 score, extracting the
// first numeric token from the raw reply. Any failure silently keeps the
// current score; this operation never errors.
func (e *TaskEnricher) RecalculatePriority(ctx context.Context, task *model.Task) float64 {
	prompt := ai.PriorityPrompt(snapshotTask(task))
	response, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		logger.Warn("priority recalculation failed, keeping current score",
			zap.Uint("task_id", task.ID), zap.Error(err))
		return task.PriorityScore
	}

	if match := numberRe.FindString(response); match != "" {
		if score, err := strconv.ParseFloat(match, 64); err == nil {
			return clamp(score, 0, 100)
		}
	}
	return task.PriorityScore
}

// RecalculateAndStore recalculates the score and persists it on the task.
func (e *TaskEnricher) RecalculateAndStore(ctx context.Context, task *model.Task) (float64, error) {
	task.PriorityScore = e.RecalculatePriority(ctx, task)
	if err := e.taskRepo.Save(ctx, task); err != nil {
		return 0, err
	}
	return task.PriorityScore, nil
}

// SuggestTasks extracts actionable todo items from context entries.
func (e *TaskEnricher) SuggestTasks(ctx context.Context, entries []model.ContextEntry) ([]map[string]any, error) {
	if len(entries) == 0 {
		return []map[string]any{}, nil
	}

	prompt := ai.TaskSuggestionPrompt(snapshotEntries(entries))
	response, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("task suggestions: %w", err)
	}
	result := ai.Normalize(response)
	suggestions := mapListField(result, "suggested_tasks")
	if suggestions == nil {
		suggestions = []map[string]any{}
	}
	return suggestions, nil
}

// Recommendations proposes new tasks from the user's recent activity.
func (e *TaskEnricher) Recommendations(ctx context.Context, userID uint, limit int) ([]map[string]any, error) {
	recentTasks, err := e.taskRepo.ListRecent(ctx, userID, 10)
	if err != nil {
		return nil, err
	}
	recentContext, err := e.contextRepo.ListLatest(ctx, userID, 10)
	if err != nil {
		return nil, err
	}

	taskLines := make([]string, 0, len(recentTasks))
	for _, task := range recentTasks {
		taskLines = append(taskLines, fmt.Sprintf("- %s (%s)", task.Title, task.Status))
	}
	contextLines := make([]string, 0, len(recentContext))
	for _, entry := range recentContext {
		contextLines = append(contextLines, "- "+entry.Excerpt())
	}

	prompt := ai.RecommendationPrompt(taskLines, contextLines)
	response, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("task recommendations: %w", err)
	}
	result := ai.Normalize(response)

	recommendations := mapListField(result, "recommendations")
	if recommendations == nil {
		recommendations = []map[string]any{}
	}
	if limit > 0 && len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}
	return recommendations, nil
}
