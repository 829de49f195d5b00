package model

import "time"

// DefaultCategoryColor is used when no color is supplied (blue).
const DefaultCategoryColor = "#3B82F6"

// Category groups tasks by area (work, health, study, etc.).
// Names are global, not per user: the AI auto-assignment path relies on
// get-or-create by name alone.
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex" json:"name"`
	Description string `json:"description"`
	ColorCode   string `gorm:"default:#3B82F6" json:"color_code"`
	// Incremented on every save of a task referencing the category,
	// including repeated saves of the same task. A counting quirk, not a
	// true usage count.
	UsageFrequency int       `gorm:"default:0" json:"usage_frequency"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
