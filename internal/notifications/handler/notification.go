package handler

import (
	"net/http"
	"strconv"

	"loftalgerie/internal/notifications/service"
	apperrors "loftalgerie/pkg/errors"
	httputil "loftalgerie/pkg/http"
	"loftalgerie/pkg/logger"
	"loftalgerie/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type NotificationHandler struct {
	service service.NotificationService
	log     *logger.Logger
}

func NewNotificationHandler(service service.NotificationService, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log,
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	var unreadOnly bool
	if raw := r.URL.Query().Get("unread"); raw != "" {
		unreadOnly, err = strconv.ParseBool(raw)
		if err != nil {
			h.writeError(w, "List", apperrors.InvalidInput("invalid unread parameter: "+raw))
			return
		}
	}

	notifications, total, err := h.service.List(r.Context(), unreadOnly, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, notifications, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	count, err := h.service.UnreadCount(r.Context())
	if err != nil {
		h.writeError(w, "UnreadCount", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]int64{"unread": count}); err != nil {
		h.log.Error("failed to write success response", "handler", "UnreadCount", "operation", "WriteSuccess", "error", err)
	}
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.MarkRead(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "MarkRead", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	updated, err := h.service.MarkAllRead(r.Context())
	if err != nil {
		h.writeError(w, "MarkAllRead", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]int64{"updated": updated}); err != nil {
		h.log.Error("failed to write success response", "handler", "MarkAllRead", "operation", "WriteSuccess", "error", err)
	}
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *NotificationHandler) Broadcast(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var broadcast model.Broadcast
	if err := httputil.DecodeJSON(r, &broadcast); err != nil {
		h.writeError(w, "Broadcast", err)
		return
	}

	sent, err := h.service.Broadcast(r.Context(), &broadcast)
	if err != nil {
		h.writeError(w, "Broadcast", err)
		return
	}

	if err := httputil.WriteCreated(w, map[string]int{"sent": sent}); err != nil {
		h.log.Error("failed to write created response", "handler", "Broadcast", "operation", "WriteCreated", "error", err)
	}
}

func (h *NotificationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/notifications", h.List)
	router.POST("/api/v1/notifications", h.Broadcast)
	router.GET("/api/v1/notifications/unread-count", h.UnreadCount)
	router.POST("/api/v1/notifications/read-all", h.MarkAllRead)
	router.PATCH("/api/v1/notifications/id/:id/read", h.MarkRead)
	router.DELETE("/api/v1/notifications/id/:id", h.Delete)
}
