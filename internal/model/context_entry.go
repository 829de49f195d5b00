package model

import (
	"time"

	"gorm.io/datatypes"
)

// SourceType says where a context entry came from.
type SourceType string

const (
	SourceWhatsApp SourceType = "whatsapp"
	SourceEmail    SourceType = "email"
	SourceNote     SourceType = "note"
	SourceCalendar SourceType = "calendar"
	SourceReminder SourceType = "reminder"
	SourceMeeting  SourceType = "meeting"
	SourceCall     SourceType = "call"
	SourceOther    SourceType = "other"
)

func ValidSourceType(s SourceType) bool {
	switch s {
	case SourceWhatsApp, SourceEmail, SourceNote, SourceCalendar,
		SourceReminder, SourceMeeting, SourceCall, SourceOther:
		return true
	}
	return false
}

// SourceLabel returns the human-readable name used in prompts.
func SourceLabel(s SourceType) string {
	switch s {
	case SourceWhatsApp:
		return "WhatsApp Message"
	case SourceEmail:
		return "Email"
	case SourceNote:
		return "Personal Note"
	case SourceCalendar:
		return "Calendar Event"
	case SourceReminder:
		return "Reminder"
	case SourceMeeting:
		return "Meeting Notes"
	case SourceCall:
		return "Phone Call"
	default:
		return "Other"
	}
}

// Entity is a named thing the analysis pulled out of an entry.
type Entity struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ContextEntry stores one piece of daily context (message, note, email,
// calendar item) together with its AI analysis results.
type ContextEntry struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"index" json:"user_id"`
	User   *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Content       string             `json:"content"`
	SourceType    SourceType         `gorm:"default:note;index" json:"source_type"`
	SourceDetails datatypes.JSONMap  `json:"source_details"`

	// When the context occurred, distinct from record creation time.
	ContextDate   time.Time `gorm:"index" json:"context_date"`
	PriorityLevel Priority  `gorm:"default:medium" json:"priority_level"`

	ProcessedInsights datatypes.JSONMap                   `json:"processed_insights"`
	SentimentScore    float64                             `gorm:"default:0" json:"sentiment_score"`
	Keywords          datatypes.JSONSlice[string]         `json:"keywords"`
	Entities          datatypes.JSONSlice[Entity]         `json:"entities"`
	TaskSuggestions   datatypes.JSONSlice[map[string]any] `json:"task_suggestions"`
	RelevanceScore    float64                             `gorm:"default:0" json:"relevance_score"`

	IsProcessed bool `gorm:"default:false;index" json:"is_processed"`
	IsArchived  bool `gorm:"default:false" json:"is_archived"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Excerpt returns a short preview of the content.
func (e *ContextEntry) Excerpt() string {
	const limit = 100
	if len(e.Content) > limit {
		return e.Content[:limit] + "..."
	}
	return e.Content
}

// HasTaskSuggestions reports whether the analysis proposed any tasks.
func (e *ContextEntry) HasTaskSuggestions() bool {
	return len(e.TaskSuggestions) > 0
}
