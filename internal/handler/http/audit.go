package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
)

type AuditHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type auditHandlerImpl struct {
	auditService audit.AuditService
}

func NewAuditHandler(auditService audit.AuditService) AuditHandler {
	return &auditHandlerImpl{auditService: auditService}
}

// List implements AuditHandler.
func (h *auditHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	entityID, err := queryInt64(r, "entity_id")
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}
	userID, err := queryInt64(r, "user_id")
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	filter := audit.Filter{
		Entity:   r.URL.Query().Get("entity"),
		EntityID: entityID,
		UserID:   userID,
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			filter.Limit = parsed
		}
	}

	entries, err := h.auditService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, entries)
}
