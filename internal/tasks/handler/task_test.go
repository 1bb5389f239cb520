package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "loftalgerie/pkg/errors"
	"loftalgerie/pkg/logger"
	"loftalgerie/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockTaskService struct {
	gotFilter  model.TaskFilter
	updateFunc func(ctx context.Context, id string, updates *model.TaskUpdate) (*model.Task, error)
}

func (m *mockTaskService) Create(ctx context.Context, task *model.Task) error {
	task.ID = "507f1f77bcf86cd799439060"
	task.Status = model.TaskStatusTodo
	return nil
}

func (m *mockTaskService) GetByID(ctx context.Context, id string) (*model.Task, error) {
	return nil, apperrors.NotFoundWithID("Task", id)
}

func (m *mockTaskService) GetAll(ctx context.Context, filter model.TaskFilter, limit int, offset int64) ([]*model.Task, int64, error) {
	m.gotFilter = filter
	return []*model.Task{}, 0, nil
}

func (m *mockTaskService) Update(ctx context.Context, id string, updates *model.TaskUpdate) (*model.Task, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, updates)
	}
	return &model.Task{ID: id, Status: updates.Status}, nil
}

func (m *mockTaskService) Delete(ctx context.Context, id string) error {
	return nil
}

func newRouter(svc *mockTaskService) *httprouter.Router {
	router := httprouter.New()
	NewTaskHandler(svc, logger.Discard()).RegisterRoutes(router)
	return router
}

func TestCreate(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader(`{"title":"Clean loft"}`))
	w := httptest.NewRecorder()
	newRouter(&mockTaskService{}).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"status":"todo"`) {
		t.Errorf("expected created task in body, got %s", w.Body.String())
	}
}

func TestGetAll_PassesFilters(t *testing.T) {
	svc := &mockTaskService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks?status=todo&loft_id=abc", nil)
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if svc.gotFilter.Status != "todo" || svc.gotFilter.LoftID != "abc" {
		t.Errorf("unexpected filter %+v", svc.gotFilter)
	}
}

func TestUpdate_Forbidden(t *testing.T) {
	svc := &mockTaskService{
		updateFunc: func(ctx context.Context, id string, updates *model.TaskUpdate) (*model.Task, error) {
			return nil, apperrors.Forbidden("Not allowed to apply this update")
		},
	}
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/tasks/id/507f1f77bcf86cd799439060", strings.NewReader(`{"title":"Rename"}`))
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/id/507f1f77bcf86cd799439060", nil)
	w := httptest.NewRecorder()
	newRouter(&mockTaskService{}).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
