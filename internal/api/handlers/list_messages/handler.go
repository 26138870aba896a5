package list_messages

import (
	"net/http"

	"github.com/bellefontaine/circuit-booking/internal/api/handlers"
	"github.com/bellefontaine/circuit-booking/internal/api/middleware"
)

type Handler struct {
	service MessageService
	logger  Logger
}

func NewHandler(service MessageService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/messages
// Query params: read, replied (true|false), search, sort (date|status|name), order (asc|desc)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := ToServiceRequest(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /admin/messages - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.service.List(r.Context(), middleware.GetIdentity(r.Context()), req)
	if err != nil {
		if status := handlers.RespondDomainError(w, err); status == http.StatusInternalServerError {
			h.logger.Error("GET /admin/messages - Failed to list messages: error=%v", err)
		} else {
			h.logger.Warn("GET /admin/messages - Rejected: %v", err)
		}
		return
	}

	h.logger.Info("GET /admin/messages - Messages retrieved successfully: count=%d", len(result.Messages))
	handlers.RespondJSON(w, http.StatusOK, result)
}
