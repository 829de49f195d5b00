package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"smart-planner/internal/model"
	"smart-planner/internal/repository"
)

// TaskInput represents data required to create a task. The category is
// deliberately absent: on creation it is assigned by the AI enhancement
// path (or stays empty), matching the create contract.
type TaskInput struct {
	Title             string
	Description       string
	Priority          model.Priority
	Deadline          *time.Time
	EstimatedDuration *time.Duration
	Tags              []string
}

// TaskUpdate carries optional field changes. Nil pointers leave the field
// untouched.
type TaskUpdate struct {
	Title             *string
	Description       *string
	CategoryID        *uint
	Status            *model.Status
	Priority          *model.Priority
	Deadline          *time.Time
	EstimatedDuration *time.Duration
	Tags              *[]string
	IsCompleted       *bool
}

// TaskActivity is one row of the recent-activity feed in task statistics.
type TaskActivity struct {
	ID        uint         `json:"id"`
	Title     string       `json:"title"`
	Status    model.Status `json:"status"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TaskStats aggregates a user's tasks.
type TaskStats struct {
	TotalTasks           int            `json:"total_tasks"`
	CompletedTasks       int            `json:"completed_tasks"`
	PendingTasks         int            `json:"pending_tasks"`
	OverdueTasks         int            `json:"overdue_tasks"`
	CompletionRate       float64        `json:"completion_rate"`
	AveragePriorityScore float64        `json:"average_priority_score"`
	TasksByCategory      map[string]int `json:"tasks_by_category"`
	TasksByPriority      map[string]int `json:"tasks_by_priority"`
	RecentActivity       []TaskActivity `json:"recent_activity"`
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, categoryRepo: categoryRepo}
}

func (s *TaskService) Create(ctx context.Context, user *model.User, input TaskInput) (*model.Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !model.ValidPriority(priority) {
		return nil, fmt.Errorf("invalid priority %q", priority)
	}

	task := model.Task{
		UserID:            user.ID,
		Title:             input.Title,
		Description:       input.Description,
		Status:            model.StatusPending,
		Priority:          priority,
		PriorityScore:     50,
		Deadline:          input.Deadline,
		EstimatedDuration: input.EstimatedDuration,
		Tags:              model.NormalizeTags(input.Tags),
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) Get(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	return s.taskRepo.FindByID(ctx, user.ID, taskID)
}

func (s *TaskService) List(ctx context.Context, user *model.User, filter repository.TaskFilter) ([]model.Task, error) {
	return s.taskRepo.List(ctx, user.ID, filter)
}

// Update applies partial changes. Toggling IsCompleted mirrors the explicit
// update contract: true stamps completion, false reverts to pending and
// clears the stamp (unlike the model hook, which never clears it).
func (s *TaskService) Update(ctx context.Context, user *model.User, taskID uint, update TaskUpdate) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *update.CategoryID); err != nil {
			return nil, fmt.Errorf("category %d: %w", *update.CategoryID, err)
		}
		task.CategoryID = update.CategoryID
	}
	if update.Status != nil {
		if !model.ValidStatus(*update.Status) {
			return nil, fmt.Errorf("invalid status %q", *update.Status)
		}
		task.Status = *update.Status
	}
	if update.Priority != nil {
		if !model.ValidPriority(*update.Priority) {
			return nil, fmt.Errorf("invalid priority %q", *update.Priority)
		}
		task.Priority = *update.Priority
	}
	if update.Deadline != nil {
		task.Deadline = update.Deadline
	}
	if update.EstimatedDuration != nil {
		task.EstimatedDuration = update.EstimatedDuration
	}
	if update.Tags != nil {
		task.Tags = model.NormalizeTags(*update.Tags)
	}
	if update.IsCompleted != nil {
		if *update.IsCompleted {
			task.Status = model.StatusCompleted
			now := time.Now()
			task.CompletedAt = &now
		} else {
			task.Status = model.StatusPending
			task.CompletedAt = nil
		}
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Complete marks a task done, stamping completion time.
func (s *TaskService) Complete(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}

	task.Status = model.StatusCompleted
	now := time.Now()
	task.CompletedAt = &now

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, user *model.User, taskID uint) error {
	return s.taskRepo.Delete(ctx, user.ID, taskID)
}

func (s *TaskService) Overdue(ctx context.Context, user *model.User, now time.Time) ([]model.Task, error) {
	return s.taskRepo.ListOverdue(ctx, user.ID, now)
}

// DueToday returns unfinished tasks whose deadline falls on the given day.
func (s *TaskService) DueToday(ctx context.Context, user *model.User, now time.Time) ([]model.Task, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.taskRepo.ListDueBetween(ctx, user.ID, dayStart, dayStart.Add(24*time.Hour))
}

// Stats aggregates the user's tasks in memory; the working set is one
// person's todo list, not a warehouse.
func (s *TaskService) Stats(ctx context.Context, user *model.User, now time.Time) (*TaskStats, error) {
	tasks, err := s.taskRepo.List(ctx, user.ID, repository.TaskFilter{})
	if err != nil {
		return nil, err
	}

	stats := TaskStats{
		TasksByCategory: make(map[string]int),
		TasksByPriority: make(map[string]int),
		RecentActivity:  []TaskActivity{},
	}

	var prioritySum float64
	weekAgo := now.Add(-7 * 24 * time.Hour)
	var recent []model.Task

	for _, task := range tasks {
		stats.TotalTasks++
		prioritySum += task.PriorityScore

		switch task.Status {
		case model.StatusCompleted:
			stats.CompletedTasks++
		case model.StatusPending:
			stats.PendingTasks++
		}
		if task.IsOverdue(now) && task.Status != model.StatusCancelled {
			stats.OverdueTasks++
		}

		categoryName := ""
		if task.Category != nil {
			categoryName = task.Category.Name
		}
		stats.TasksByCategory[categoryName]++
		stats.TasksByPriority[string(task.Priority)]++

		if task.UpdatedAt.After(weekAgo) {
			recent = append(recent, task)
		}
	}

	if stats.TotalTasks > 0 {
		stats.CompletionRate = round2(float64(stats.CompletedTasks) / float64(stats.TotalTasks))
		stats.AveragePriorityScore = round2(prioritySum / float64(stats.TotalTasks))
	}

	sort.Slice(recent, func(i, j int) bool {
		return recent[i].UpdatedAt.After(recent[j].UpdatedAt)
	})
	if len(recent) > 10 {
		recent = recent[:10]
	}
	for _, task := range recent {
		stats.RecentActivity = append(stats.RecentActivity, TaskActivity{
			ID:        task.ID,
			Title:     task.Title,
			Status:    task.Status,
			UpdatedAt: task.UpdatedAt,
		})
	}

	return &stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
