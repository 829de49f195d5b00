package server

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"smart-planner/internal/ai"
	"smart-planner/internal/repository"
	"smart-planner/internal/service"
)

// Deps bundles everything the HTTP layer needs.
type Deps struct {
	Users            *repository.UserRepository
	Tasks            *service.TaskService
	Categories       *service.CategoryService
	Contexts         *service.ContextService
	Insights         *service.InsightService
	TaskEnricher     *service.TaskEnricher
	ContextEnricher  *service.ContextEnricher
	InsightGenerator *service.InsightGenerator
	AIClient         *ai.Client
}

// Server holds HTTP handlers and their collaborators.
type Server struct {
	users            *repository.UserRepository
	tasks            *service.TaskService
	categories       *service.CategoryService
	contexts         *service.ContextService
	insights         *service.InsightService
	taskEnricher     *service.TaskEnricher
	contextEnricher  *service.ContextEnricher
	insightGenerator *service.InsightGenerator
	aiClient         *ai.Client
	validate         *validator.Validate
}

func New(deps Deps) *Server {
	return &Server{
		users:            deps.Users,
		tasks:            deps.Tasks,
		categories:       deps.Categories,
		contexts:         deps.Contexts,
		insights:         deps.Insights,
		taskEnricher:     deps.TaskEnricher,
		contextEnricher:  deps.ContextEnricher,
		insightGenerator: deps.InsightGenerator,
		aiClient:         deps.AIClient,
		validate:         validator.New(),
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) aiHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"ai_configured": s.aiClient.Configured(),
	})
}
