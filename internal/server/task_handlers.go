package server

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"smart-planner/internal/logger"
	"smart-planner/internal/model"
	"smart-planner/internal/repository"
	"smart-planner/internal/service"
)

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	filter := repository.TaskFilter{
		Status:   model.Status(r.URL.Query().Get("status")),
		Priority: model.Priority(r.URL.Query().Get("priority")),
	}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid category_id")
			return
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}

	tasks, err := s.tasks.List(r.Context(), currentUser(r), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

// createTask persists the task first, then runs AI enhancement unless the
// client opted out. Enhancement failures are logged and absorbed so the
// created task is never lost.
func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    model.Priority(req.Priority),
		Tags:        req.Tags,
	}
	if req.Deadline != "" {
		deadline, err := parseTimestamp(req.Deadline)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		input.Deadline = &deadline
	}
	if req.EstimatedMinutes > 0 {
		duration := time.Duration(req.EstimatedMinutes) * time.Minute
		input.EstimatedDuration = &duration
	}

	user := currentUser(r)
	task, err := s.tasks.Create(r.Context(), user, input)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.RequestAIEnhancement == nil || *req.RequestAIEnhancement {
		if _, err := s.taskEnricher.EnhanceOnCreate(r.Context(), task, req.ContextData); err != nil {
			logger.Warn("task enhancement skipped", zap.Uint("task_id", task.ID), zap.Error(err))
		}
	}

	respondJSON(w, http.StatusCreated, task)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
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
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updateTaskRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	update := service.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
		IsCompleted: req.IsCompleted,
	}
	if req.Status != nil {
		status := model.Status(*req.Status)
		update.Status = &status
	}
	if req.Priority != nil {
		priority := model.Priority(*req.Priority)
		update.Priority = &priority
	}
	if req.Deadline != nil {
		deadline, err := parseTimestamp(*req.Deadline)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		update.Deadline = &deadline
	}
	if req.EstimatedMinutes != nil {
		duration := time.Duration(*req.EstimatedMinutes) * time.Minute
		update.EstimatedDuration = &duration
	}

	task, err := s.tasks.Update(r.Context(), currentUser(r), id, update)
	if err != nil {
		respondLookupError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.tasks.Delete(r.Context(), currentUser(r), id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) completeTask(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	task, err := s.tasks.Complete(r.Context(), currentUser(r), id)
	if err != nil {
		respondLookupError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) taskStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.tasks.Stats(r.Context(), currentUser(r), time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) overdueTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.Overdue(r.Context(), currentUser(r), time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

func (s *Server) todayTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.DueToday(r.Context(), currentUser(r), time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}
