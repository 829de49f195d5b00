package service

import (
	"strconv"
	"strings"
	"time"

	"smart-planner/internal/ai"
	"smart-planner/internal/model"
)

// Helpers for reading the loosely typed mappings the response normalizer
// produces. The model does not always honor the requested schema, so every
// accessor tolerates missing keys and wrong value kinds.

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// numberField reads a numeric value; JSON numbers arrive as float64, the
// textual fallback parser yields strings.
func numberField(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func stringListField(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func mapListField(m map[string]any, key string) []map[string]any {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if mm, ok := item.(map[string]any); ok {
			out = append(out, mm)
		}
	}
	return out
}

func entityListField(m map[string]any, key string) []model.Entity {
	out := make([]model.Entity, 0)
	for _, item := range mapListField(m, key) {
		out = append(out, model.Entity{
			Type:  stringField(item, "type"),
			Value: stringField(item, "value"),
		})
	}
	return out
}

// deadlineFormats is the ordered list of layouts accepted for AI-suggested
// deadlines; the first successful parse wins.
var deadlineFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// ParseSuggestedDeadline parses a model-suggested deadline string. Anything
// that matches none of the accepted layouts resolves to nil rather than an
// error.
func ParseSuggestedDeadline(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range deadlineFormats {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return &t
		}
	}
	return nil
}

func snapshotTask(t *model.Task) ai.TaskSnapshot {
	snapshot := ai.TaskSnapshot{
		Title:         t.Title,
		Description:   t.Description,
		Priority:      string(t.Priority),
		Status:        string(t.Status),
		Deadline:      t.Deadline,
		PriorityScore: t.PriorityScore,
		CreatedAt:     t.CreatedAt,
	}
	if t.Category != nil {
		snapshot.Category = t.Category.Name
	}
	return snapshot
}

func snapshotEntry(e *model.ContextEntry) ai.ContextSnapshot {
	return ai.ContextSnapshot{
		SourceType:  string(e.SourceType),
		SourceLabel: model.SourceLabel(e.SourceType),
		Content:     e.Content,
		ContextDate: e.ContextDate,
	}
}

func snapshotEntries(entries []model.ContextEntry) []ai.ContextSnapshot {
	out := make([]ai.ContextSnapshot, len(entries))
	for i := range entries {
		out[i] = snapshotEntry(&entries[i])
	}
	return out
}
