package model

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Task status values.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Task priority labels, separate from the numeric AI score.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task represents a single item in the planner, including the AI-derived
// enrichment fields.
type Task struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index" json:"user_id"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CategoryID *uint     `gorm:"index" json:"category_id"`
	Category   *Category `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`

	Title       string `json:"title"`
	Description string `json:"description"`

	Status   Status   `gorm:"default:pending;index" json:"status"`
	Priority Priority `gorm:"default:medium" json:"priority"`
	// AI-calculated priority score, 0-100.
	PriorityScore float64 `gorm:"default:50;index" json:"priority_score"`

	Deadline          *time.Time     `gorm:"index" json:"deadline"`
	EstimatedDuration *time.Duration `json:"estimated_duration"`
	CompletedAt       *time.Time     `json:"completed_at"`

	AIEnhancedDescription string     `json:"ai_enhanced_description"`
	AISuggestedDeadline   *time.Time `json:"ai_suggested_deadline"`
	AISuggestedCategory   string     `json:"ai_suggested_category"`
	// How relevant recent context is to this task, 0-10.
	ContextRelevanceScore float64 `gorm:"default:0" json:"context_relevance_score"`

	Tags datatypes.JSONSlice[string] `json:"tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeSave stamps completion time on the first transition to completed and
// bumps the referenced category's usage counter. The stamp is never cleared
// here even if status reverts; only the explicit update path does that.
func (t *Task) BeforeSave(tx *gorm.DB) error {
	if t.Status == StatusCompleted && t.CompletedAt == nil {
		now := time.Now()
		t.CompletedAt = &now
	}

	if t.CategoryID != nil {
		if err := tx.Model(&Category{}).Where("id = ?", *t.CategoryID).
			UpdateColumn("usage_frequency", gorm.Expr("usage_frequency + 1")).Error; err != nil {
			return err
		}
	}

	return nil
}

// MarshalJSON adds the derived is_overdue and urgency_level fields to every
// serialized task.
func (t Task) MarshalJSON() ([]byte, error) {
	type taskAlias Task
	now := time.Now()
	return json.Marshal(struct {
		taskAlias
		IsOverdue    bool    `json:"is_overdue"`
		UrgencyLevel float64 `json:"urgency_level"`
	}{
		taskAlias:    taskAlias(t),
		IsOverdue:    t.IsOverdue(now),
		UrgencyLevel: t.UrgencyLevel(now),
	})
}

// IsOverdue reports whether the deadline has passed for an unfinished task.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Deadline == nil {
		return false
	}
	return now.After(*t.Deadline) && t.Status != StatusCompleted
}

// UrgencyLevel boosts the priority score as the deadline approaches.
// Overdue tasks collapse to the maximum urgency of 10.
func (t *Task) UrgencyLevel(now time.Time) float64 {
	if t.Deadline == nil {
		return t.PriorityScore
	}
	if !t.Deadline.After(now) {
		return 10.0
	}

	daysLeft := int(t.Deadline.Sub(now).Hours() / 24)
	switch {
	case daysLeft <= 1:
		return minFloat(10.0, t.PriorityScore+3)
	case daysLeft <= 3:
		return minFloat(10.0, t.PriorityScore+2)
	case daysLeft <= 7:
		return minFloat(10.0, t.PriorityScore+1)
	}
	return t.PriorityScore
}

// NormalizeTags trims, lowercases and drops empty tags. Duplicates are kept;
// order is preserved.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		out = append(out, strings.ToLower(trimmed))
	}
	return out
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
