package server

import (
	"net/http"
	"time"

	"smart-planner/internal/model"
	"smart-planner/internal/repository"
	"smart-planner/internal/service"
)

func (s *Server) listContextEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ContextFilter{
		SourceType:    model.SourceType(q.Get("source_type")),
		PriorityLevel: model.Priority(q.Get("priority_level")),
	}
	if raw := q.Get("is_processed"); raw != "" {
		processed := raw == "true"
		filter.IsProcessed = &processed
	}
	if raw := q.Get("is_archived"); raw != "" {
		archived := raw == "true"
		filter.IsArchived = &archived
	}

	entries, err := s.contexts.List(r.Context(), currentUser(r), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) createContextEntry(w http.ResponseWriter, r *http.Request) {
	var req createContextRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := s.contexts.Create(r.Context(), currentUser(r), input)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

func (s *Server) bulkCreateContextEntries(w http.ResponseWriter, r *http.Request) {
	var req bulkContextRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	inputs := make([]service.ContextInput, 0, len(req.Entries))
	for _, entryReq := range req.Entries {
		input, err := entryReq.toInput()
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		inputs = append(inputs, input)
	}

	entries, err := s.contexts.CreateBatch(r.Context(), currentUser(r), inputs)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"entries":       entries,
		"created_count": len(entries),
	})
}

func (s *Server) getContextEntry(w http.ResponseWriter, r *http.Request) {
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
	respondJSON(w, http.StatusOK, entry)
}

func (s *Server) updateContextEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updateContextRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	update := service.ContextUpdate{
		Content:       req.Content,
		SourceDetails: req.SourceDetails,
		IsArchived:    req.IsArchived,
	}
	if req.SourceType != nil {
		sourceType := model.SourceType(*req.SourceType)
		update.SourceType = &sourceType
	}
	if req.PriorityLevel != nil {
		priority := model.Priority(*req.PriorityLevel)
		update.PriorityLevel = &priority
	}
	if req.ContextDate != nil {
		date, err := parseTimestamp(*req.ContextDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		update.ContextDate = &date
	}

	entry, err := s.contexts.Update(r.Context(), currentUser(r), id, update)
	if err != nil {
		respondLookupError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (s *Server) deleteContextEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.contexts.Delete(r.Context(), currentUser(r), id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) contextStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.contexts.Stats(r.Context(), currentUser(r), time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) recentContextEntries(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", "7")
	entries, err := s.contexts.Recent(r.Context(), currentUser(r), days)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) unprocessedContextEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.contexts.Unprocessed(r.Context(), currentUser(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) highRelevanceContextEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.contexts.HighRelevance(r.Context(), currentUser(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) contextEntriesWithSuggestions(w http.ResponseWriter, r *http.Request) {
	entries, err := s.contexts.WithSuggestions(r.Context(), currentUser(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
