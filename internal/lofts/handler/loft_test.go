package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "loftalgerie/pkg/errors"
	httputil "loftalgerie/pkg/http"
	"loftalgerie/pkg/logger"
	"loftalgerie/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Mock service for testing
type mockLoftService struct {
	searchFunc func(ctx context.Context, search model.LoftSearch, limit int, offset int64) ([]*model.Loft, int64, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockLoftService) Create(ctx context.Context, loft *model.Loft) error {
	loft.ID = "507f1f77bcf86cd799439011"
	return nil
}

func (m *mockLoftService) GetByID(ctx context.Context, id string) (*model.Loft, error) {
	return nil, apperrors.NotFoundWithID("Loft", id)
}

func (m *mockLoftService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Loft, int64, error) {
	return []*model.Loft{}, 0, nil
}

func (m *mockLoftService) Search(ctx context.Context, search model.LoftSearch, limit int, offset int64) ([]*model.Loft, int64, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, search, limit, offset)
	}
	return []*model.Loft{}, 0, nil
}

func (m *mockLoftService) Update(ctx context.Context, id string, updates *model.LoftUpdate) error {
	return nil
}

func (m *mockLoftService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func newRouter(svc *mockLoftService) *httprouter.Router {
	router := httprouter.New()
	NewLoftHandler(svc, logger.Discard()).RegisterRoutes(router)
	return router
}

func TestSearch_ParsesQuery(t *testing.T) {
	var got model.LoftSearch
	var gotLimit int
	svc := &mockLoftService{
		searchFunc: func(ctx context.Context, search model.LoftSearch, limit int, offset int64) ([]*model.Loft, int64, error) {
			got = search
			gotLimit = limit
			return []*model.Loft{{ID: "1", Name: "Loft Oran"}}, 1, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lofts/search?city=Oran&status=available&min_guests=2&max_price=9000&limit=500", nil)
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got.City != "Oran" || got.Status != "available" || got.MinGuests != 2 || got.MaxPrice != 9000 {
		t.Errorf("unexpected search %+v", got)
	}
	if gotLimit != 100 {
		t.Errorf("expected limit capped to 100, got %d", gotLimit)
	}

	var resp httputil.PaginatedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.TotalCount != 1 {
		t.Errorf("expected total 1, got %d", resp.TotalCount)
	}
}

func TestSearch_InvalidParameters(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"alphabetic max price", "?max_price=cheap"},
		{"alphabetic min guests", "?min_guests=many"},
		{"alphabetic limit", "?limit=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/lofts/search"+tt.query, nil)
			w := httptest.NewRecorder()
			newRouter(&mockLoftService{}).ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestDelete_ConflictIsReported(t *testing.T) {
	svc := &mockLoftService{
		deleteFunc: func(ctx context.Context, id string) error {
			return apperrors.Conflict("loft has active bookings")
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/lofts/id/507f1f77bcf86cd799439011", nil)
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "CONFLICT") {
		t.Errorf("expected CONFLICT code in body, got %s", w.Body.String())
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/lofts", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	newRouter(&mockLoftService{}).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/lofts/id/507f1f77bcf86cd799439011", nil)
	w := httptest.NewRecorder()
	newRouter(&mockLoftService{}).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
