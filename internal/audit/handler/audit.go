package handler

import (
	"net/http"
	"strconv"

	"loftalgerie/internal/audit/export"
	"loftalgerie/internal/audit/service"
	apperrors "loftalgerie/pkg/errors"
	httputil "loftalgerie/pkg/http"
	"loftalgerie/pkg/logger"
	"loftalgerie/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	HeaderExportTruncated = "X-Export-Truncated"
)

type AuditHandler struct {
	service service.AuditService
	log     *logger.Logger
}

func NewAuditHandler(service service.AuditService, log *logger.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		log:     log,
	}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	logs, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, logs, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *AuditHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	log, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, log); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuditHandler) History(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	logs, err := h.service.History(r.Context(), ps.ByName("table"), ps.ByName("record_id"))
	if err != nil {
		h.writeError(w, "History", err)
		return
	}

	if err := httputil.WriteSuccess(w, logs); err != nil {
		h.log.Error("failed to write success response", "handler", "History", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuditHandler) Export(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter, format, err := parseExportRequest(r)
	if err != nil {
		h.writeError(w, "Export", err)
		return
	}

	file, err := h.service.Export(r.Context(), filter, format)
	if err != nil {
		h.writeError(w, "Export", err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+file.Filename)
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Body)))
	if file.Truncated {
		w.Header().Set(HeaderExportTruncated, "true")
	}
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(file.Body); err != nil {
		h.log.Error("failed to write export body", "handler", "Export", "operation", "Write", "error", err)
	}
}

func (h *AuditHandler) Archive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter, format, err := parseExportRequest(r)
	if err != nil {
		h.writeError(w, "Archive", err)
		return
	}

	result, err := h.service.Archive(r.Context(), filter, format)
	if err != nil {
		h.writeError(w, "Archive", err)
		return
	}

	if result.Truncated {
		w.Header().Set(HeaderExportTruncated, "true")
	}
	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Archive", "operation", "WriteCreated", "error", err)
	}
}

func (h *AuditHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AuditHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/audit-logs", h.List)
	router.GET("/api/v1/audit-logs/id/:id", h.GetByID)
	router.GET("/api/v1/audit-logs/history/:table/:record_id", h.History)
	router.GET("/api/v1/audit-logs/export", h.Export)
	router.POST("/api/v1/audit-logs/export/archive", h.Archive)
}

func parseFilter(r *http.Request) (model.AuditFilter, error) {
	q := r.URL.Query()
	filter := model.AuditFilter{
		TableName: q.Get("table"),
		RecordID:  q.Get("record_id"),
		Action:    q.Get("action"),
		UserID:    q.Get("user_id"),
	}

	var err error
	if filter.From, err = httputil.ParseTimeParam(r, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = httputil.ParseTimeParam(r, "to"); err != nil {
		return filter, err
	}
	return filter, nil
}

func parseExportRequest(r *http.Request) (model.AuditFilter, export.Format, error) {
	filter, err := parseFilter(r)
	if err != nil {
		return filter, "", err
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		return filter, "", apperrors.InvalidInput(err.Error())
	}
	return filter, format, nil
}
