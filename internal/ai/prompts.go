package ai

import (
	"fmt"
	"strings"
	"time"
)

// Snapshots decouple prompt text from the persistence layer: services hand
// the builder read-only copies of entity state, never live ORM rows.

// TaskSnapshot is the task state a prompt may reference.
type TaskSnapshot struct {
	Title         string
	Description   string
	Category      string
	Priority      string
	Status        string
	Deadline      *time.Time
	PriorityScore float64
	CreatedAt     time.Time
}

// ContextSnapshot is the context entry state a prompt may reference.
type ContextSnapshot struct {
	SourceType  string
	SourceLabel string
	Content     string
	ContextDate time.Time
}

// DailyStats carries locally computed numbers for the daily insights prompt.
// The model receives the statistics instead of being asked to compute them.
type DailyStats struct {
	Date           time.Time
	TaskLines      []string
	TaskCount      int
	CompletedCount int
	ContextLines   []string
	ContextCount   int
}

// ProductivityStats carries locally computed numbers for the productivity
// analysis prompt.
type ProductivityStats struct {
	Days           int
	TotalTasks     int
	CompletedTasks int
	CompletionRate float64
	ContextEntries int
}

// TaskEnhancementPrompt asks for the full enhancement suggestion block. The
// JSON field names are contractual: the enrichment services read exactly
// these keys from the normalized response.
func TaskEnhancementPrompt(t TaskSnapshot, contextLines []string, now time.Time) string {
	contextStr := "No additional context"
	if len(contextLines) > 0 {
		var b strings.Builder
		for i, line := range contextLines {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("- ")
			b.WriteString(line)
		}
		contextStr = b.String()
	}

	description := t.Description
	if description == "" {
		description = "No description provided"
	}
	category := t.Category
	if category == "" {
		category = "Uncategorized"
	}

	return fmt.Sprintf(`As an AI task management assistant, analyze the following task and provide intelligent enhancements.

TASK DETAILS:
Title: %s
Description: %s
Current Category: %s
Current Priority: %s

CONTEXT DATA:
%s

Please provide enhancements in the following JSON format:
{
    "enhanced_description": "Improved task description with context-aware details",
    "suggested_deadline": "YYYY-MM-DD HH:MM:SS",
    "suggested_category": "Recommended category name",
    "suggested_tags": ["tag1", "tag2", "tag3"],
    "priority_score": 85,
    "reasoning": "Explanation of why these suggestions were made",
    "confidence_score": 0.85
}

Consider:
1. Task complexity and estimated effort
2. Context relevance and urgency indicators
3. Realistic deadline based on current date (%s)
4. Category suggestions based on task content
5. Priority scoring (0-100) based on urgency and importance
6. Useful tags for organization
`, t.Title, description, category, t.Priority, contextStr, now.Format("2006-01-02"))
}

// PriorityPrompt asks for a bare 0-100 number.
func PriorityPrompt(t TaskSnapshot) string {
	description := t.Description
	if description == "" {
		description = "No description"
	}
	deadline := "No deadline set"
	if t.Deadline != nil {
		deadline = t.Deadline.Format("2006-01-02 15:04:05")
	}

	return fmt.Sprintf(`Analyze this task and calculate a priority score (0-100) based on:

TASK: %s
DESCRIPTION: %s
CURRENT DEADLINE: %s
STATUS: %s
CREATED: %s

Consider:
1. Deadline urgency
2. Task complexity
3. Current status
4. How long it's been pending

Return only a number between 0-100 representing the priority score.
`, t.Title, description, deadline, t.Status, t.CreatedAt.Format("2006-01-02"))
}

// ContextAnalysisPrompt asks for sentiment, keywords, entities, relevance and
// task suggestions for a single entry.
func ContextAnalysisPrompt(e ContextSnapshot) string {
	return fmt.Sprintf(`Analyze the following context entry and extract insights.

CONTEXT ENTRY:
Source: %s
Content: %s
Date: %s

Please provide analysis in the following JSON format:
{
    "sentiment_score": 0.5,
    "keywords": ["keyword1", "keyword2"],
    "entities": [
        {
            "type": "person/location/date/organization",
            "value": "entity value"
        }
    ],
    "relevance_score": 7.5,
    "task_suggestions": [
        {
            "title": "Suggested task",
            "description": "Task description",
            "priority": "high/medium/low"
        }
    ],
    "insights": "Key insights from this context"
}

Consider:
1. Sentiment analysis (-1 to 1)
2. Important keywords and entities
3. Relevance to task management (0-10)
4. Actionable task suggestions
5. Key insights and patterns
`, e.SourceLabel, e.Content, e.ContextDate.Format("2006-01-02 15:04:05"))
}

// SummaryPrompt asks for a period summary over truncated entry excerpts.
func SummaryPrompt(entries []ContextSnapshot, start, end time.Time) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("[%s] %s", e.SourceType, truncate(e.Content, 150)))
	}

	return fmt.Sprintf(`Generate a comprehensive summary of the following context entries from %s to %s.

CONTEXT ENTRIES:
%s

Please provide a summary in the following JSON format:
{
    "key_themes": ["theme1", "theme2"],
    "important_events": ["event1", "event2"],
    "action_items": ["action1", "action2"],
    "sentiment_trend": "positive/negative/neutral",
    "productivity_insights": "Insights about productivity patterns",
    "recommendations": ["recommendation1", "recommendation2"]
}
`, start.Format("2006-01-02"), end.Format("2006-01-02"), strings.Join(lines, "\n"))
}

// TaskSuggestionPrompt asks for actionable tasks hiding in recent context.
// At most ten entries are included, each truncated to 200 characters.
func TaskSuggestionPrompt(entries []ContextSnapshot) string {
	if len(entries) > 10 {
		entries = entries[:10]
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("[%s] %s", e.SourceType, truncate(e.Content, 200)))
	}

	return fmt.Sprintf(`Based on the following context entries, suggest actionable tasks that should be added to a todo list.

CONTEXT ENTRIES:
%s

Please suggest tasks in the following JSON format:
{
    "suggested_tasks": [
        {
            "title": "Task title",
            "description": "Detailed description",
            "priority": "high/medium/low",
            "category": "suggested category",
            "deadline": "YYYY-MM-DD",
            "reasoning": "Why this task is suggested"
        }
    ]
}

Consider:
1. Actionable items from messages and emails
2. Important deadlines mentioned
3. Follow-up actions needed
4. Personal commitments and reminders
`, strings.Join(lines, "\n"))
}

// RecommendationPrompt asks for new task recommendations based on recent
// activity summaries.
func RecommendationPrompt(taskLines, contextLines []string) string {
	return fmt.Sprintf(`Based on the user's recent activity, suggest task recommendations.

RECENT TASKS:
%s

RECENT CONTEXT:
%s

Please provide recommendations in the following JSON format:
{
    "recommendations": [
        {
            "title": "Recommended task",
            "description": "Why this task is recommended",
            "priority": "high/medium/low",
            "category": "suggested category",
            "deadline": "YYYY-MM-DD",
            "reasoning": "Explanation"
        }
    ]
}
`, strings.Join(taskLines, "\n"), strings.Join(contextLines, "\n"))
}

// DailyInsightsPrompt embeds precomputed daily statistics.
func DailyInsightsPrompt(s DailyStats) string {
	return fmt.Sprintf(`Generate daily insights for %s based on the following data:

TASKS (%d total, %d completed):
%s

CONTEXT ENTRIES (%d):
%s

Please provide insights in the following JSON format:
{
    "insights": [
        {
            "type": "productivity/pattern/recommendation",
            "title": "Insight title",
            "description": "Detailed insight description",
            "confidence": 0.85,
            "actionable": true
        }
    ]
}

Focus on:
1. Productivity patterns
2. Task completion trends
3. Context-task relationships
4. Improvement recommendations
`, s.Date.Format("2006-01-02"), s.TaskCount, s.CompletedCount,
		strings.Join(s.TaskLines, "\n"), s.ContextCount, strings.Join(s.ContextLines, "\n"))
}

// ProductivityPrompt embeds precomputed period statistics.
func ProductivityPrompt(s ProductivityStats) string {
	return fmt.Sprintf(`Analyze productivity patterns over the last %d days.

STATISTICS:
- Total tasks: %d
- Completed tasks: %d
- Completion rate: %.2f%%
- Context entries: %d

Please provide analysis in the following JSON format:
{
    "productivity_score": 7.5,
    "patterns": ["pattern1", "pattern2"],
    "trends": ["trend1", "trend2"],
    "recommendations": ["recommendation1", "recommendation2"],
    "strengths": ["strength1", "strength2"],
    "areas_for_improvement": ["area1", "area2"]
}
`, s.Days, s.TotalTasks, s.CompletedTasks, s.CompletionRate*100, s.ContextEntries)
}
