package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"smart-planner/internal/model"
	"smart-planner/internal/service"
)

type createTaskRequest struct {
	Title                string   `json:"title" validate:"required"`
	Description          string   `json:"description"`
	Priority             string   `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Deadline             string   `json:"deadline"`
	EstimatedMinutes     int      `json:"estimated_minutes" validate:"omitempty,min=1"`
	Tags                 []string `json:"tags"`
	ContextData          []string `json:"context_data"`
	RequestAIEnhancement *bool    `json:"request_ai_enhancement"`
}

type updateTaskRequest struct {
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	CategoryID       *uint     `json:"category_id"`
	Status           *string   `json:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority         *string   `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Deadline         *string   `json:"deadline"`
	EstimatedMinutes *int      `json:"estimated_minutes" validate:"omitempty,min=1"`
	Tags             *[]string `json:"tags"`
	IsCompleted      *bool     `json:"is_completed"`
}

type enhanceTaskRequest struct {
	ContextData []string `json:"context_data"`
}

type createCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	ColorCode   string `json:"color_code" validate:"omitempty,len=7,hexcolor"`
}

type updateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ColorCode   string `json:"color_code" validate:"omitempty,len=7,hexcolor"`
}

type createContextRequest struct {
	Content       string         `json:"content" validate:"required"`
	SourceType    string         `json:"source_type" validate:"omitempty,oneof=whatsapp email note calendar reminder meeting call other"`
	SourceDetails map[string]any `json:"source_details"`
	ContextDate   string         `json:"context_date"`
	PriorityLevel string         `json:"priority_level" validate:"omitempty,oneof=low medium high urgent"`
}

type updateContextRequest struct {
	Content       *string         `json:"content"`
	SourceType    *string         `json:"source_type" validate:"omitempty,oneof=whatsapp email note calendar reminder meeting call other"`
	SourceDetails *map[string]any `json:"source_details"`
	ContextDate   *string         `json:"context_date"`
	PriorityLevel *string         `json:"priority_level" validate:"omitempty,oneof=low medium high urgent"`
	IsArchived    *bool           `json:"is_archived"`
}

type bulkContextRequest struct {
	Entries []createContextRequest `json:"entries" validate:"required,min=1,dive"`
}

type bulkProcessRequest struct {
	EntryIDs []uint `json:"entry_ids"`
}

type suggestTasksRequest struct {
	ContextIDs []uint `json:"context_ids"`
}

type dailyInsightsRequest struct {
	Date string `json:"date"`
}

// decodeAndValidate unmarshals the request body into dst and runs the
// validator over it.
func (s *Server) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return err
	}
	return nil
}

var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp accepts RFC3339 and the two date layouts clients send.
func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}

func uintParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return uint(id), nil
}

func intQuery(r *http.Request, name, fallbackRaw string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		raw = fallbackRaw
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

func (req createContextRequest) toInput() (service.ContextInput, error) {
	input := service.ContextInput{
		Content:       req.Content,
		SourceType:    model.SourceType(req.SourceType),
		SourceDetails: req.SourceDetails,
		PriorityLevel: model.Priority(req.PriorityLevel),
	}
	if req.ContextDate != "" {
		t, err := parseTimestamp(req.ContextDate)
		if err != nil {
			return input, err
		}
		input.ContextDate = t
	}
	return input, nil
}
