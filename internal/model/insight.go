package model

import (
	"time"

	"gorm.io/datatypes"
)

// InsightType classifies an aggregated insight.
type InsightType string

const (
	InsightPattern        InsightType = "pattern"
	InsightTrend          InsightType = "trend"
	InsightRecommendation InsightType = "recommendation"
	InsightSummary        InsightType = "summary"
)

func ValidInsightType(t InsightType) bool {
	switch t {
	case InsightPattern, InsightTrend, InsightRecommendation, InsightSummary:
		return true
	}
	return false
}

// ContextInsight is an aggregated observation derived from context analysis
// over a date range.
type ContextInsight struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"index" json:"user_id"`
	User   *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	InsightType InsightType `gorm:"index" json:"insight_type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`

	ContextEntries []ContextEntry `gorm:"many2many:insight_context_entries" json:"-"`

	ConfidenceScore float64   `gorm:"default:0" json:"confidence_score"`
	DateRangeStart  time.Time `json:"date_range_start"`
	DateRangeEnd    time.Time `json:"date_range_end"`

	SuggestedActions datatypes.JSONSlice[string] `json:"suggested_actions"`
	IsActionable     bool                        `gorm:"default:false" json:"is_actionable"`
	IsDismissed      bool                        `gorm:"default:false" json:"is_dismissed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
