package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"smart-planner/internal/model"
)

// enhanceTask runs the full enhancement round trip for an existing task.
// Unlike the create path, failures here surface to the client.
func (s *Server) enhanceTask(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The body is optional; absence means no extra context.
	var req enhanceTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := s.tasks.Get(r.Context(), currentUser(r), id)
	if err != nil {
		respondLookupError(w, err)
		return
	}

	suggestions, err := s.taskEnricher.Enhance(r.Context(), task, req.ContextData)
	if err != nil {
		respondAIError(w, err)
		return
	}
	respondAI(w, map[string]any{"task": task, "suggestions": suggestions})
}

func (s *Server) recalculateTaskPriority(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	task, err := s.tasks.Get(r.Context(), currentUser(r), id)
	if err != nil {
		respondLookupError(w, err)
		return
	}

	score, err := s.taskEnricher.RecalculateAndStore(r.Context(), task)
	if err != nil {
		respondAIError(w, err)
		return
	}
	respondAI(w, map[string]any{"task_id": task.ID, "priority_score": score})
}

func (s *Server) taskRecommendations(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", "5")
	recommendations, err := s.taskEnricher.Recommendations(r.Context(), currentUser(r).ID, limit)
	if err != nil {
		respondAIError(w, err)
		return
	}
	respondAI(w, map[string]any{"recommendations": recommendations})
}

// suggestTasks extracts task suggestions from the named context entries, or
// from all unprocessed entries when none are named.
func (s *Server) suggestTasks(w http.ResponseWriter, r *http.Request) {
	var req suggestTasksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user := currentUser(r)
	var entries []model.ContextEntry
	var err error
	if len(req.ContextIDs) > 0 {
		entries, err = s.contexts.ByIDs(r.Context(), user, req.ContextIDs)
	} else {
		entries, err = s.contexts.Unprocessed(r.Context(), user)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	suggestions, err := s.taskEnricher.SuggestTasks(r.Context(), entries)
	if err != nil {
		respondAIError(w, err)
		return
	}
	respondAI(w, map[string]any{
		"suggested_tasks":          suggestions,
		"context_entries_analyzed": len(entries),
	})
}

func (s *Server) analyzeContextEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := s.contexts.Get(r.Context(), currentUser(r), id)
	if err != nil {
		respondLookupError(w, err)
		return
	}

	analysis, err := s.contextEnricher.Process(r.Context(), entry)
	if err != nil {
		respondAIError(w, err)
		return
	}
	respondAI(w, map[string]any{"entry": entry, "analysis": analysis})
}

// contextSummary summarizes entries between start_date and end_date, or over
// the last N days when no explicit range is given.
func (s *Server) contextSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	end := time.Now()
	start := end.Add(-7 * 24 * time.Hour)

	// An explicit range wins; days only applies when neither bound is given.
	if q.Get("start_date") == "" && q.Get("end_date") == "" {
		if days := intQuery(r, "days", ""); days > 0 {
			start = end.Add(-time.Duration(days) * 24 * time.Hour)
		}
	}
	if raw := q.Get("start_date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid start_date")
			return
		}
		start = parsed
	}
	if raw := q.Get("end_date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid end_date")
			return
		}
		end = parsed
	}

	user := currentUser(r)
	entries, err := s.contexts.Between(r.Context(), user, start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summary, err := s.contextEnricher.Summarize(r.Context(), entries, start, end)
	if err != nil {
		respondAIError(w, err)
		return
	}
	respondAI(w, map[string]any{
		"summary": summary,
		"date_range": map[string]string{
			"start": start.Format("2006-01-02"),
			"end":   end.Format("2006-01-02"),
		},
		"entry_count": len(entries),
	})
}

// bulkProcessContextEntries analyzes the named entries one by one, reporting
// per-entry outcomes instead of failing the whole batch.
func (s *Server) bulkProcessContextEntries(w http.ResponseWriter, r *http.Request) {
	var req bulkProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.EntryIDs) == 0 {
		respondError(w, http.StatusBadRequest, "entry_ids is required")
		return
	}

	user := currentUser(r)
	results := make([]map[string]any, 0, len(req.EntryIDs))
	processed := 0
	for _, id := range req.EntryIDs {
		entry, err := s.contexts.Get(r.Context(), user, id)
		if err != nil {
			results = append(results, map[string]any{"entry_id": id, "success": false, "error": err.Error()})
			continue
		}
		if _, err := s.contextEnricher.Process(r.Context(), entry); err != nil {
			results = append(results, map[string]any{"entry_id": id, "success": false, "error": err.Error()})
			continue
		}
		processed++
		results = append(results, map[string]any{"entry_id": id, "success": true})
	}

	respondAI(w, map[string]any{
		"results":         results,
		"processed_count": processed,
		"total_count":     len(req.EntryIDs),
	})
}

func (s *Server) dailyInsights(w http.ResponseWriter, r *http.Request) {
	var req dailyInsightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid date")
			return
		}
		date = parsed
	}

	insights, err := s.insightGenerator.DailyInsights(r.Context(), currentUser(r).ID, date)
	if err != nil {
		respondAIError(w, err)
		return
	}
	respondAI(w, map[string]any{
		"insights": insights,
		"date":     date.Format("2006-01-02"),
	})
}

func (s *Server) productivityAnalysis(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", "7")
	analysis, err := s.insightGenerator.ProductivityAnalysis(r.Context(), currentUser(r).ID, days)
	if err != nil {
		respondAIError(w, err)
		return
	}
	respondAI(w, map[string]any{"analysis": analysis, "days": days})
}
