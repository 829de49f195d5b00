package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-planner/internal/ai"
	"smart-planner/internal/repository"
	"smart-planner/internal/service"
)

// stubCompleter substitutes the external model in handler tests.
type stubCompleter struct {
	response string
	err      error
	calls    int
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newTestHandler(t *testing.T, stub *stubCompleter) http.Handler {
	t.Helper()
	db, err := repository.NewDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	contextRepo := repository.NewContextRepository(db)
	insightRepo := repository.NewInsightRepository(db)

	srv := New(Deps{
		Users:            userRepo,
		Tasks:            service.NewTaskService(taskRepo, categoryRepo),
		Categories:       service.NewCategoryService(categoryRepo),
		Contexts:         service.NewContextService(contextRepo),
		Insights:         service.NewInsightService(insightRepo),
		TaskEnricher:     service.NewTaskEnricher(stub, taskRepo, categoryRepo, contextRepo),
		ContextEnricher:  service.NewContextEnricher(stub, contextRepo),
		InsightGenerator: service.NewInsightGenerator(stub, userRepo, taskRepo, contextRepo, insightRepo),
		AIClient:         ai.NewClient("", "", 0),
	})
	return srv.Router()
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	handler := newTestHandler(t, &stubCompleter{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAPIRequiresUserHeader(t *testing.T) {
	handler := newTestHandler(t, &stubCompleter{})

	for _, header := range []string{"", "abc", "0", "-5"} {
		req := httptest.NewRequest(http.MethodGet, "/api/tasks/", nil)
		if header != "" {
			req.Header.Set("X-User-ID", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestCreateTaskWithoutEnhancement(t *testing.T) {
	stub := &stubCompleter{err: errors.New("must not be called")}
	handler := newTestHandler(t, stub)

	optOut := false
	rec := doRequest(t, handler, http.MethodPost, "/api/tasks/", map[string]any{
		"title":                  "plain task",
		"request_ai_enhancement": optOut,
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decodeBody(t, rec)
	assert.Equal(t, "plain task", task["title"])
	assert.Equal(t, 50.0, task["priority_score"])
	assert.Nil(t, task["category_id"])
	assert.Zero(t, stub.calls)
}

func TestCreateTaskWithEnhancement(t *testing.T) {
	stub := &stubCompleter{response: `{
		"enhanced_description": "Detailed plan",
		"suggested_category": "Work",
		"priority_score": 85
	}`}
	handler := newTestHandler(t, stub)

	rec := doRequest(t, handler, http.MethodPost, "/api/tasks/", map[string]any{
		"title":        "enhance me",
		"context_data": []string{"due friday"},
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decodeBody(t, rec)
	assert.Equal(t, 85.0, task["priority_score"])
	assert.Equal(t, "Detailed plan", task["ai_enhanced_description"])
	assert.NotNil(t, task["category_id"])

	category, ok := task["category"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Work", category["name"])
}

func TestCreateTaskAbsorbsEnhancementFailure(t *testing.T) {
	stub := &stubCompleter{err: errors.New("model down")}
	handler := newTestHandler(t, stub)

	rec := doRequest(t, handler, http.MethodPost, "/api/tasks/", map[string]any{"title": "still created"})

	require.Equal(t, http.StatusCreated, rec.Code)
	task := decodeBody(t, rec)
	assert.Equal(t, 50.0, task["priority_score"])
}

func TestCreateTaskValidation(t *testing.T) {
	handler := newTestHandler(t, &stubCompleter{})

	rec := doRequest(t, handler, http.MethodPost, "/api/tasks/", map[string]any{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, handler, http.MethodPost, "/api/tasks/", map[string]any{"title": "x", "priority": "extreme"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTaskNotFound(t *testing.T) {
	handler := newTestHandler(t, &stubCompleter{})

	rec := doRequest(t, handler, http.MethodGet, "/api/tasks/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/api/tasks/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompleteTaskFlow(t *testing.T) {
	handler := newTestHandler(t, &stubCompleter{})

	optOut := false
	rec := doRequest(t, handler, http.MethodPost, "/api/tasks/", map[string]any{
		"title": "finish me", "request_ai_enhancement": optOut,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody(t, rec)["id"].(float64)

	rec = doRequest(t, handler, http.MethodPost, "/api/tasks/1/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	task := decodeBody(t, rec)
	assert.Equal(t, "completed", task["status"])
	assert.NotNil(t, task["completed_at"])
	assert.Equal(t, id, task["id"])
}

func TestTaskResponseIncludesDerivedFields(t *testing.T) {
	handler := newTestHandler(t, &stubCompleter{})

	optOut := false
	rec := doRequest(t, handler, http.MethodPost, "/api/tasks/", map[string]any{
		"title": "open ended", "request_ai_enhancement": optOut,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	task := decodeBody(t, rec)
	assert.Equal(t, false, task["is_overdue"])
	assert.Equal(t, 50.0, task["urgency_level"], "no deadline keeps the priority score")

	rec = doRequest(t, handler, http.MethodPost, "/api/tasks/", map[string]any{
		"title": "already late", "deadline": "2020-01-01", "request_ai_enhancement": optOut,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	task = decodeBody(t, rec)
	assert.Equal(t, true, task["is_overdue"])
	assert.Equal(t, 10.0, task["urgency_level"])
}

func TestSuggestTasksScopesNamedEntries(t *testing.T) {
	stub := &stubCompleter{response: `{"suggested_tasks": [{"title": "Call plumber"}]}`}
	handler := newTestHandler(t, stub)

	rec := doRequest(t, handler, http.MethodPost, "/api/context-entries/", map[string]any{"content": "sink is leaking"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Unknown ids are skipped rather than failing the request.
	rec = doRequest(t, handler, http.MethodPost, "/api/ai/suggest-tasks", map[string]any{
		"context_ids": []uint{1, 999},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 1.0, body["context_entries_analyzed"])
	suggested := body["suggested_tasks"].([]any)
	require.Len(t, suggested, 1)
}

func TestContextSummaryExplicitRangeWins(t *testing.T) {
	stub := &stubCompleter{err: errors.New("must not be called")}
	handler := newTestHandler(t, stub)

	rec := doRequest(t, handler, http.MethodGet,
		"/api/context-entries/summary?start_date=2024-01-01&end_date=2024-01-31&days=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	dateRange := body["date_range"].(map[string]any)
	assert.Equal(t, "2024-01-01", dateRange["start"])
	assert.Equal(t, "2024-01-31", dateRange["end"])
}

func TestEnhanceEndpointSurfacesFailure(t *testing.T) {
	stub := &stubCompleter{err: errors.New("model down")}
	handler := newTestHandler(t, stub)

	optOut := false
	rec := doRequest(t, handler, http.MethodPost, "/api/tasks/", map[string]any{
		"title": "t", "request_ai_enhancement": optOut,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, handler, http.MethodPost, "/api/ai/tasks/1/enhance", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "model down")
}

func TestAIHealthReportsConfiguration(t *testing.T) {
	handler := newTestHandler(t, &stubCompleter{})

	rec := doRequest(t, handler, http.MethodGet, "/api/ai/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["ai_configured"])
}

func TestContextSummaryEmptyPeriod(t *testing.T) {
	stub := &stubCompleter{err: errors.New("must not be called")}
	handler := newTestHandler(t, stub)

	rec := doRequest(t, handler, http.MethodGet, "/api/context-entries/summary?days=7", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 0.0, body["entry_count"])
	summary := body["summary"].(map[string]any)
	assert.Equal(t, service.NoEntriesSummary, summary["summary"])
	assert.Zero(t, stub.calls)
}

func TestAnalyzeContextEntry(t *testing.T) {
	stub := &stubCompleter{response: `{"sentiment_score": 0.2, "relevance_score": 6, "keywords": ["call"]}`}
	handler := newTestHandler(t, stub)

	rec := doRequest(t, handler, http.MethodPost, "/api/context-entries/", map[string]any{
		"content": "call the bank tomorrow",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, handler, http.MethodPost, "/api/context-entries/1/analyze", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	entry := body["entry"].(map[string]any)
	assert.Equal(t, true, entry["is_processed"])
	assert.Equal(t, 6.0, entry["relevance_score"])
}

func TestBulkProcessRequiresIDs(t *testing.T) {
	handler := newTestHandler(t, &stubCompleter{})

	rec := doRequest(t, handler, http.MethodPost, "/api/context-entries/bulk-process", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkProcessReportsPerEntryOutcome(t *testing.T) {
	stub := &stubCompleter{response: `{"relevance_score": 5}`}
	handler := newTestHandler(t, stub)

	rec := doRequest(t, handler, http.MethodPost, "/api/context-entries/", map[string]any{"content": "one"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, handler, http.MethodPost, "/api/context-entries/bulk-process", map[string]any{
		"entry_ids": []uint{1, 999},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, 1.0, body["processed_count"])
	assert.Equal(t, 2.0, body["total_count"])
	results := body["results"].([]any)
	require.Len(t, results, 2)
	assert.Equal(t, true, results[0].(map[string]any)["success"])
	assert.Equal(t, false, results[1].(map[string]any)["success"])
}

func TestBulkCreateContextEntries(t *testing.T) {
	handler := newTestHandler(t, &stubCompleter{})

	rec := doRequest(t, handler, http.MethodPost, "/api/context-entries/bulk", map[string]any{
		"entries": []map[string]any{
			{"content": "first", "source_type": "email"},
			{"content": "second"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, 2.0, body["created_count"])
}

func TestCategoryCRUD(t *testing.T) {
	handler := newTestHandler(t, &stubCompleter{})

	rec := doRequest(t, handler, http.MethodPost, "/api/categories/", map[string]any{
		"name": "Work", "color_code": "#FF0000",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	category := decodeBody(t, rec)
	assert.Equal(t, "#FF0000", category["color_code"])

	rec = doRequest(t, handler, http.MethodPost, "/api/categories/", map[string]any{
		"name": "Bad", "color_code": "red",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/api/categories/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var categories []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	require.Len(t, categories, 1)

	rec = doRequest(t, handler, http.MethodDelete, "/api/categories/1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDailyInsightsEndpoint(t *testing.T) {
	stub := &stubCompleter{response: `{"insights": [
		{"type": "pattern", "title": "p", "description": "d", "confidence": 0.7, "actionable": true}
	]}`}
	handler := newTestHandler(t, stub)

	rec := doRequest(t, handler, http.MethodPost, "/api/ai/insights/daily", map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])

	rec = doRequest(t, handler, http.MethodGet, "/api/insights/actionable", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var insights []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &insights))
	require.Len(t, insights, 1)

	rec = doRequest(t, handler, http.MethodPost, "/api/insights/1/dismiss", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/api/insights/actionable", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &insights))
	assert.Empty(t, insights)
}
