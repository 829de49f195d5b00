package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Router builds the full route tree. Everything under /api is user-scoped
// via the X-User-ID header.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logging)

	r.Get("/health", s.health)

	r.Route("/api", func(api chi.Router) {
		api.Use(s.UserCtx)

		api.Route("/tasks", func(t chi.Router) {
			t.Get("/", s.listTasks)
			t.Post("/", s.createTask)
			t.Get("/stats", s.taskStats)
			t.Get("/overdue", s.overdueTasks)
			t.Get("/today", s.todayTasks)
			t.Get("/recommendations", s.taskRecommendations)
			t.Get("/{id}", s.getTask)
			t.Put("/{id}", s.updateTask)
			t.Patch("/{id}", s.updateTask)
			t.Delete("/{id}", s.deleteTask)
			t.Post("/{id}/complete", s.completeTask)
			t.Post("/{id}/enhance", s.enhanceTask)
			t.Post("/{id}/recalculate-priority", s.recalculateTaskPriority)
		})

		api.Route("/categories", func(c chi.Router) {
			c.Get("/", s.listCategories)
			c.Post("/", s.createCategory)
			c.Get("/popular", s.popularCategories)
			c.Get("/{id}", s.getCategory)
			c.Put("/{id}", s.updateCategory)
			c.Delete("/{id}", s.deleteCategory)
		})

		api.Route("/context-entries", func(c chi.Router) {
			c.Get("/", s.listContextEntries)
			c.Post("/", s.createContextEntry)
			c.Get("/stats", s.contextStats)
			c.Get("/recent", s.recentContextEntries)
			c.Get("/unprocessed", s.unprocessedContextEntries)
			c.Get("/high-relevance", s.highRelevanceContextEntries)
			c.Get("/with-suggestions", s.contextEntriesWithSuggestions)
			c.Get("/summary", s.contextSummary)
			c.Post("/bulk", s.bulkCreateContextEntries)
			c.Post("/bulk-process", s.bulkProcessContextEntries)
			c.Get("/{id}", s.getContextEntry)
			c.Put("/{id}", s.updateContextEntry)
			c.Patch("/{id}", s.updateContextEntry)
			c.Delete("/{id}", s.deleteContextEntry)
			c.Post("/{id}/analyze", s.analyzeContextEntry)
		})

		api.Route("/insights", func(i chi.Router) {
			i.Get("/", s.listInsights)
			i.Get("/actionable", s.actionableInsights)
			i.Get("/{id}", s.getInsight)
			i.Delete("/{id}", s.deleteInsight)
			i.Post("/{id}/dismiss", s.dismissInsight)
		})

		api.Route("/ai", func(a chi.Router) {
			a.Get("/health", s.aiHealth)
			a.Post("/tasks/{id}/enhance", s.enhanceTask)
			a.Get("/recommendations", s.taskRecommendations)
			a.Post("/suggest-tasks", s.suggestTasks)
			a.Post("/context/{id}/analyze", s.analyzeContextEntry)
			a.Get("/context/summary", s.contextSummary)
			a.Post("/context/bulk-process", s.bulkProcessContextEntries)
			a.Post("/insights/daily", s.dailyInsights)
			a.Get("/insights/productivity", s.productivityAnalysis)
		})
	})

	return r
}
