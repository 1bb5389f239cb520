package handler

import (
	"net/http"
	"strconv"

	"loftalgerie/internal/lofts/service"
	apperrors "loftalgerie/pkg/errors"
	httputil "loftalgerie/pkg/http"
	"loftalgerie/pkg/logger"
	"loftalgerie/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type LoftHandler struct {
	service service.LoftService
	log     *logger.Logger
}

func NewLoftHandler(service service.LoftService, log *logger.Logger) *LoftHandler {
	return &LoftHandler{
		service: service,
		log:     log,
	}
}

func (h *LoftHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var loft model.Loft
	if err := httputil.DecodeJSON(r, &loft); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &loft); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, loft); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *LoftHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	loft, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, loft); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *LoftHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	lofts, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, lofts, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *LoftHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	query := r.URL.Query()
	search := model.LoftSearch{
		City:   query.Get("city"),
		Status: query.Get("status"),
	}
	if search.MinGuests, err = httputil.ParseIntParam(r, "min_guests"); err != nil {
		h.writeError(w, "Search", err)
		return
	}
	if raw := query.Get("max_price"); raw != "" {
		search.MaxPrice, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.writeError(w, "Search", apperrors.InvalidInput("invalid max_price parameter: "+raw))
			return
		}
	}

	lofts, total, err := h.service.Search(r.Context(), search, limit, offset)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	if err := httputil.WritePaginated(w, lofts, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "operation", "WritePaginated", "error", err)
	}
}

func (h *LoftHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.LoftUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := h.service.Update(r.Context(), ps.ByName("id"), &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *LoftHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *LoftHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *LoftHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/lofts", h.Create)
	router.GET("/api/v1/lofts", h.GetAll)
	router.GET("/api/v1/lofts/search", h.Search)
	router.GET("/api/v1/lofts/id/:id", h.GetByID)
	router.PATCH("/api/v1/lofts/id/:id", h.Update)
	router.DELETE("/api/v1/lofts/id/:id", h.Delete)
}
