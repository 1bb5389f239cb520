package handler

import (
	"net/http"

	"loftalgerie/internal/lofts/service"
	httputil "loftalgerie/pkg/http"
	"loftalgerie/pkg/logger"
	"loftalgerie/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type OwnerHandler struct {
	service service.OwnerService
	log     *logger.Logger
}

func NewOwnerHandler(service service.OwnerService, log *logger.Logger) *OwnerHandler {
	return &OwnerHandler{
		service: service,
		log:     log,
	}
}

func (h *OwnerHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var owner model.Owner
	if err := httputil.DecodeJSON(r, &owner); err != nil {
		h.writeError(w, "CreateOwner", err)
		return
	}

	if err := h.service.Create(r.Context(), &owner); err != nil {
		h.writeError(w, "CreateOwner", err)
		return
	}

	if err := httputil.WriteCreated(w, owner); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateOwner", "operation", "WriteCreated", "error", err)
	}
}

func (h *OwnerHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	owner, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetOwner", err)
		return
	}

	if err := httputil.WriteSuccess(w, owner); err != nil {
		h.log.Error("failed to write success response", "handler", "GetOwner", "operation", "WriteSuccess", "error", err)
	}
}

func (h *OwnerHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetOwners", err)
		return
	}

	owners, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetOwners", err)
		return
	}

	if err := httputil.WritePaginated(w, owners, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetOwners", "operation", "WritePaginated", "error", err)
	}
}

func (h *OwnerHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.OwnerUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "UpdateOwner", err)
		return
	}

	if err := h.service.Update(r.Context(), ps.ByName("id"), &updates); err != nil {
		h.writeError(w, "UpdateOwner", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *OwnerHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "DeleteOwner", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *OwnerHandler) ListLofts(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListOwnerLofts", err)
		return
	}

	lofts, total, err := h.service.ListLofts(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		h.writeError(w, "ListOwnerLofts", err)
		return
	}

	if err := httputil.WritePaginated(w, lofts, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListOwnerLofts", "operation", "WritePaginated", "error", err)
	}
}

func (h *OwnerHandler) Transfer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.TransferRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Transfer", err)
		return
	}

	result, err := h.service.Transfer(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Transfer", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Transfer", "operation", "WriteSuccess", "error", err)
	}
}

func (h *OwnerHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *OwnerHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/owners", h.Create)
	router.GET("/api/v1/owners", h.GetAll)
	router.POST("/api/v1/owners/transfer", h.Transfer)
	router.GET("/api/v1/owners/id/:id", h.GetByID)
	router.PATCH("/api/v1/owners/id/:id", h.Update)
	router.DELETE("/api/v1/owners/id/:id", h.Delete)
	router.GET("/api/v1/owners/id/:id/lofts", h.ListLofts)
}
