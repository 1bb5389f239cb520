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
	"github.com/stretchr/testify/assert"
)

type mockNotificationService struct {
	gotUnreadOnly bool
	broadcastErr  error
}

func (m *mockNotificationService) List(ctx context.Context, unreadOnly bool, limit int, offset int64) ([]*model.Notification, int64, error) {
	m.gotUnreadOnly = unreadOnly
	return []*model.Notification{}, 0, nil
}

func (m *mockNotificationService) UnreadCount(ctx context.Context) (int64, error) { return 7, nil }

func (m *mockNotificationService) MarkRead(ctx context.Context, id string) error {
	return apperrors.NotFoundWithID("Notification", id)
}

func (m *mockNotificationService) MarkAllRead(ctx context.Context) (int64, error) { return 3, nil }

func (m *mockNotificationService) Delete(ctx context.Context, id string) error { return nil }

func (m *mockNotificationService) Broadcast(ctx context.Context, b *model.Broadcast) (int, error) {
	if m.broadcastErr != nil {
		return 0, m.broadcastErr
	}
	return len(b.UserIDs), nil
}

func (m *mockNotificationService) Deliver(ctx context.Context, notifications []*model.Notification) error {
	return nil
}

func serve(svc *mockNotificationService, method, target, body string) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewNotificationHandler(svc, logger.Discard()).RegisterRoutes(router)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestList_UnreadFilter(t *testing.T) {
	svc := &mockNotificationService{}
	w := serve(svc, http.MethodGet, "/api/v1/notifications?unread=true", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.gotUnreadOnly)

	w = serve(svc, http.MethodGet, "/api/v1/notifications?unread=maybe", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnreadCount(t *testing.T) {
	w := serve(&mockNotificationService{}, http.MethodGet, "/api/v1/notifications/unread-count", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unread":7`)
}

func TestMarkRead_NotFound(t *testing.T) {
	w := serve(&mockNotificationService{}, http.MethodPatch, "/api/v1/notifications/id/507f1f77bcf86cd799439070/read", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkAllRead(t *testing.T) {
	w := serve(&mockNotificationService{}, http.MethodPost, "/api/v1/notifications/read-all", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"updated":3`)
}

func TestBroadcast(t *testing.T) {
	w := serve(&mockNotificationService{}, http.MethodPost, "/api/v1/notifications", `{"user_ids":["a","b"],"title":"Hi","message":"Hello"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"sent":2`)

	forbidden := &mockNotificationService{broadcastErr: apperrors.Forbidden("Not allowed to broadcast notifications")}
	w = serve(forbidden, http.MethodPost, "/api/v1/notifications", `{"user_ids":["a"],"title":"Hi","message":"Hello"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDelete(t *testing.T) {
	w := serve(&mockNotificationService{}, http.MethodDelete, "/api/v1/notifications/id/507f1f77bcf86cd799439070", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
