package list_slots

import (
	"net/http"

	"github.com/bellefontaine/circuit-booking/internal/api/handlers"
	"github.com/bellefontaine/circuit-booking/internal/api/middleware"
	"github.com/bellefontaine/circuit-booking/internal/service/slots/models"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/slots
// Query params: from, to (опционально, YYYY-MM-DD). Прошедшие слоты включаются.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	from, err := handlers.ParseDateParam(r, "from")
	if err != nil {
		h.logger.Warn("GET /admin/slots - Invalid from: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}
	to, err := handlers.ParseDateParam(r, "to")
	if err != nil {
		h.logger.Warn("GET /admin/slots - Invalid to: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.service.ListSlots(r.Context(), middleware.GetIdentity(r.Context()), &models.ListSlotsRequest{
		From: from,
		To:   to,
	})
	if err != nil {
		if status := handlers.RespondDomainError(w, err); status == http.StatusInternalServerError {
			h.logger.Error("GET /admin/slots - Failed to list slots: error=%v", err)
		} else {
			h.logger.Warn("GET /admin/slots - Rejected: %v", err)
		}
		return
	}

	h.logger.Info("GET /admin/slots - Slots retrieved successfully: count=%d", len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
