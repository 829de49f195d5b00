package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"smart-planner/internal/ai"
	"smart-planner/internal/model"
	"smart-planner/internal/repository"
)

// NoEntriesSummary is returned for summary requests over an empty period,
// without touching the AI endpoint.
const NoEntriesSummary = "No context entries found for the specified period."

// ContextEnricher runs AI analysis over context entries.
type ContextEnricher struct {
	completer   ai.Completer
	contextRepo *repository.ContextRepository
}

func NewContextEnricher(completer ai.Completer, contextRepo *repository.ContextRepository) *ContextEnricher {
	return &ContextEnricher{completer: completer, contextRepo: contextRepo}
}

// Process analyzes one entry, writes the analysis fields onto it, marks it
// processed and persists it. Numeric scores are clamped to their declared
// ranges; list-shaped output is stored as the model returned it.
func (e *ContextEnricher) Process(ctx context.Context, entry *model.ContextEntry) (map[string]any, error) {
	prompt := ai.ContextAnalysisPrompt(snapshotEntry(entry))
	response, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("context analysis: %w", err)
	}
	analysis := ai.Normalize(response)

	entry.ProcessedInsights = datatypes.JSONMap(analysis)
	if score, ok := numberField(analysis, "sentiment_score"); ok {
		entry.SentimentScore = clamp(score, -1, 1)
	} else {
		entry.SentimentScore = 0
	}
	entry.Keywords = stringListField(analysis, "keywords")
	entry.Entities = entityListField(analysis, "entities")
	if score, ok := numberField(analysis, "relevance_score"); ok {
		entry.RelevanceScore = clamp(score, 0, 10)
	} else {
		entry.RelevanceScore = 0
	}
	entry.TaskSuggestions = mapListField(analysis, "task_suggestions")
	entry.IsProcessed = true

	if err := e.contextRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	return analysis, nil
}

// Summarize runs one AI round trip over all supplied entries, each truncated
// in the prompt. An empty collection short-circuits to a fixed response.
func (e *ContextEnricher) Summarize(ctx context.Context, entries []model.ContextEntry, start, end time.Time) (map[string]any, error) {
	if len(entries) == 0 {
		return map[string]any{"summary": NoEntriesSummary}, nil
	}

	prompt := ai.SummaryPrompt(snapshotEntries(entries), start, end)
	response, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("context summary: %w", err)
	}
	return ai.Normalize(response), nil
}
