package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "loftalgerie/pkg/errors"
	"loftalgerie/pkg/logger"
	"loftalgerie/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockBookingService struct {
	availabilityFunc func(ctx context.Context, loftID string, from, to time.Time) (*model.Availability, error)
	searchFunc       func(ctx context.Context, loftID string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, int64, error)
	updateStatusFunc func(ctx context.Context, id string, update *model.BookingStatusUpdate) (*model.Booking, error)
	referenceFunc    func(ctx context.Context, reference string) (*model.Booking, error)
}

func (m *mockBookingService) Create(ctx context.Context, booking *model.Booking) error {
	booking.ID = "507f1f77bcf86cd799439050"
	return nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, apperrors.NotFoundWithID("Booking", id)
}

func (m *mockBookingService) GetByReference(ctx context.Context, reference string) (*model.Booking, error) {
	if m.referenceFunc != nil {
		return m.referenceFunc(ctx, reference)
	}
	return nil, apperrors.NotFound("Booking")
}

func (m *mockBookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) Search(ctx context.Context, loftID string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, loftID, from, to, limit, offset)
	}
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) Availability(ctx context.Context, loftID string, from, to time.Time) (*model.Availability, error) {
	if m.availabilityFunc != nil {
		return m.availabilityFunc(ctx, loftID, from, to)
	}
	return &model.Availability{LoftID: loftID, Available: true}, nil
}

func (m *mockBookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) error {
	return nil
}

func (m *mockBookingService) UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) (*model.Booking, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, update)
	}
	return &model.Booking{ID: id, Status: update.Status}, nil
}

func (m *mockBookingService) Delete(ctx context.Context, id string) error {
	return nil
}

func newRouter(svc *mockBookingService) *httprouter.Router {
	router := httprouter.New()
	NewBookingHandler(svc, logger.Discard()).RegisterRoutes(router)
	return router
}

func serve(svc *mockBookingService, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)
	return w
}

func TestCreate_ReturnsCreated(t *testing.T) {
	body := `{"loft_id":"507f1f77bcf86cd799439012","guest_name":"Amina","guest_phone":"+213551234567","guest_count":2,"check_in":"2026-06-01T00:00:00Z","check_out":"2026-06-04T00:00:00Z"}`
	w := serve(&mockBookingService{}, http.MethodPost, "/api/v1/bookings", body)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "507f1f77bcf86cd799439050") {
		t.Errorf("expected created booking in body, got %s", w.Body.String())
	}
}

func TestAvailability_ParsesDates(t *testing.T) {
	var gotLoft string
	var gotFrom, gotTo time.Time
	svc := &mockBookingService{
		availabilityFunc: func(ctx context.Context, loftID string, from, to time.Time) (*model.Availability, error) {
			gotLoft, gotFrom, gotTo = loftID, from, to
			return &model.Availability{LoftID: loftID, Available: true}, nil
		},
	}

	w := serve(svc, http.MethodGet, "/api/v1/bookings/availability?loft_id=abc&from=2026-06-01&to=2026-06-05", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotLoft != "abc" || gotFrom.Day() != 1 || gotTo.Day() != 5 {
		t.Errorf("unexpected arguments %q %v %v", gotLoft, gotFrom, gotTo)
	}
}

func TestAvailability_MissingRange(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"no dates", "?loft_id=abc"},
		{"only from", "?loft_id=abc&from=2026-06-01"},
		{"garbage date", "?loft_id=abc&from=tomorrow&to=2026-06-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(&mockBookingService{}, http.MethodGet, "/api/v1/bookings/availability"+tt.query, "")
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestSearch_PassesLoftAndRange(t *testing.T) {
	var gotLoft string
	var gotFrom, gotTo *time.Time
	svc := &mockBookingService{
		searchFunc: func(ctx context.Context, loftID string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, int64, error) {
			gotLoft, gotFrom, gotTo = loftID, from, to
			return []*model.Booking{{ID: "b1"}}, 1, nil
		},
	}

	w := serve(svc, http.MethodGet, "/api/v1/bookings/search?loft_id=abc&from=2026-06-01T00:00:00Z", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotLoft != "abc" || gotFrom == nil || gotTo != nil {
		t.Errorf("unexpected arguments %q %v %v", gotLoft, gotFrom, gotTo)
	}
}

func TestUpdateStatus_Conflict(t *testing.T) {
	svc := &mockBookingService{
		updateStatusFunc: func(ctx context.Context, id string, update *model.BookingStatusUpdate) (*model.Booking, error) {
			return nil, apperrors.Conflict("invalid status transition: cancelled -> confirmed")
		},
	}

	w := serve(svc, http.MethodPatch, "/api/v1/bookings/id/507f1f77bcf86cd799439050/status", `{"status":"confirmed"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestUpdateStatus_ReturnsBooking(t *testing.T) {
	w := serve(&mockBookingService{}, http.MethodPatch, "/api/v1/bookings/id/507f1f77bcf86cd799439050/status", `{"status":"confirmed"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"status":"confirmed"`) {
		t.Errorf("expected updated booking, got %s", w.Body.String())
	}
}

func TestGetByReference_RoutesToken(t *testing.T) {
	var got string
	svc := &mockBookingService{
		referenceFunc: func(ctx context.Context, reference string) (*model.Booking, error) {
			got = reference
			return &model.Booking{ID: "b1", Reference: reference}, nil
		},
	}

	w := serve(svc, http.MethodGet, "/api/v1/bookings/reference/abc-DEF_123", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got != "abc-DEF_123" {
		t.Errorf("expected token to be passed through, got %q", got)
	}
}

func TestDelete_NoContent(t *testing.T) {
	w := serve(&mockBookingService{}, http.MethodDelete, "/api/v1/bookings/id/507f1f77bcf86cd799439050", "")
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
}
