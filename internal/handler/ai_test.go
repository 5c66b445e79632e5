package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cleberrangel/task-tracker-api/internal/model"
	"github.com/cleberrangel/task-tracker-api/internal/repository"
	"github.com/cleberrangel/task-tracker-api/internal/service"
	"github.com/gin-gonic/gin"
)

// memTaskStore serve tasks fixas em memória para os testes de handler
type memTaskStore struct {
	tasks map[string]model.Task
}

func (s *memTaskStore) CreateTask(_ context.Context, task model.Task) (*model.Task, error) {
	s.tasks[task.ID] = task
	return &task, nil
}

func (s *memTaskStore) GetTask(_ context.Context, id string) (*model.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return nil, model.ErrTaskNotFound
	}
	return &task, nil
}

func (s *memTaskStore) ListTasks(_ context.Context, excludeID string) ([]model.Task, error) {
	var out []model.Task
	for _, t := range s.tasks {
		if t.ID != excludeID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memTaskStore) ListTasksPage(_ context.Context, _ repository.TaskFilter) ([]model.Task, int, error) {
	var out []model.Task
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out, len(out), nil
}

func (s *memTaskStore) UpdateTask(_ context.Context, task model.Task) (*model.Task, error) {
	s.tasks[task.ID] = task
	return &task, nil
}

func (s *memTaskStore) DeleteTask(_ context.Context, id string) error {
	delete(s.tasks, id)
	return nil
}

// memActivityStore conta atividades por task em memória
type memActivityStore struct {
	counts map[string]int
}

func (s *memActivityStore) CreateActivity(_ context.Context, activity model.Activity) (*model.Activity, error) {
	s.counts[activity.TaskID]++
	return &activity, nil
}

func (s *memActivityStore) ListByTask(_ context.Context, _ string) ([]model.Activity, error) {
	return nil, nil
}

func (s *memActivityStore) CountByTask(_ context.Context, taskID string) (int, error) {
	return s.counts[taskID], nil
}

func estPtr(v int) *int { return &v }

// newAITestRouter monta o router com os mesmos verbos e prefixo da aplicação
func newAITestRouter(tasks map[string]model.Task) *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := &memTaskStore{tasks: tasks}
	activityStore := &memActivityStore{counts: map[string]int{"t1": 4}}

	activities := service.NewActivityService(activityStore, nil)
	taskService := service.NewTaskService(store, activities)
	h := NewAIHandler(
		taskService,
		activities,
		service.NewEstimateService(store),
		service.NewSummaryService(),
		service.NewRewriteService(),
	)

	r := gin.New()
	api := r.Group("/api/v1")
	api.GET("/tasks/:id/smart-estimate", h.SmartEstimate)
	api.GET("/tasks/:id/smart-summary", h.SmartSummary)
	api.POST("/tasks/:id/smart-rewrite", h.SmartRewrite)
	return r
}

func aiTestTasks() map[string]model.Task {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return map[string]model.Task{
		"t1": {
			ID: "t1", Key: "TSK-1", Title: "Fix checkout flow",
			Status: model.StatusInProgress, Assignee: "alice", UpdatedAt: base,
		},
		"t2": {
			ID: "t2", Key: "TSK-2", Title: "Outra task",
			Status: model.StatusDone, Estimate: estPtr(5), Assignee: "alice",
			UpdatedAt: base.Add(-time.Hour),
		},
	}
}

func TestSmartEstimateOverGET(t *testing.T) {
	r := newAITestRouter(aiTestTasks())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/t1/smart-estimate", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var suggestion model.EstimateSuggestion
	if err := json.Unmarshal(w.Body.Bytes(), &suggestion); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	if suggestion.SuggestedPoints != 5 {
		t.Errorf("Expected 5 points from the single evidence, got %d", suggestion.SuggestedPoints)
	}
	if suggestion.Confidence != 0.65 {
		t.Errorf("Expected confidence 0.65, got %.2f", suggestion.Confidence)
	}

	// Leitura idempotente: repetir a chamada devolve o mesmo resultado
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/api/v1/tasks/t1/smart-estimate", nil))
	if w2.Body.String() != w.Body.String() {
		t.Error("Repeated GET should return identical suggestion")
	}
}

func TestSmartSummaryOverGET(t *testing.T) {
	r := newAITestRouter(aiTestTasks())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/t1/smart-summary", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result model.SummaryResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	if result.Summary == "" {
		t.Error("Expected non-empty summary")
	}
}

func TestSmartRewriteOverPOST(t *testing.T) {
	r := newAITestRouter(aiTestTasks())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/t1/smart-rewrite", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result model.RewriteResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	if result.Title != "Fix checkout flow" {
		t.Errorf("Expected original title, got %q", result.Title)
	}
	if result.UserStory == "" {
		t.Error("Expected non-empty user story")
	}
}

func TestSmartEstimateUnknownTask(t *testing.T) {
	r := newAITestRouter(aiTestTasks())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/missing/smart-estimate", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown task, got %d", w.Code)
	}
}
