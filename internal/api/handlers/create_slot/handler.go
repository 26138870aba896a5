package create_slot

import (
	"net/http"

	"github.com/bellefontaine/circuit-booking/internal/api/handlers"
	"github.com/bellefontaine/circuit-booking/internal/api/middleware"
	"github.com/bellefontaine/circuit-booking/internal/service/slots/models"
)

const msgInvalidRequestBody = "invalid request body"

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

// Handle POST /api/v1/admin/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req models.CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	slot, err := h.service.CreateSlot(r.Context(), identity, &req)
	if err != nil {
		if status := handlers.RespondDomainError(w, err); status == http.StatusInternalServerError {
			h.logger.Error("POST /admin/slots - Failed to create slot: date=%s, error=%v", req.Date, err)
		} else {
			h.logger.Warn("POST /admin/slots - Rejected: date=%s, reason=%v", req.Date, err)
		}
		return
	}

	h.logger.Info("POST /admin/slots - Slot created: slot_id=%s, date=%s, admin=%s", slot.ID, slot.Date, identity.UserID)
	handlers.RespondJSON(w, http.StatusCreated, slot)
}
