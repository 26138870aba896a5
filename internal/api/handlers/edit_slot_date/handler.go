package edit_slot_date

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bellefontaine/circuit-booking/internal/api/handlers"
	"github.com/bellefontaine/circuit-booking/internal/api/middleware"
	"github.com/bellefontaine/circuit-booking/internal/service/slots/models"
)

const (
	msgInvalidSlotID      = "invalid slot id"
	msgInvalidRequestBody = "invalid request body"
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

// Handle PATCH /api/v1/admin/slots/{slotId}/date
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.ParseUUID(mux.Vars(r)["slotId"])
	if err != nil {
		h.logger.Warn("PATCH /admin/slots/{id}/date - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req models.EditDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/slots/{id}/date - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	slot, err := h.service.EditSlotDate(r.Context(), middleware.GetIdentity(r.Context()), slotID, &req)
	if err != nil {
		if status := handlers.RespondDomainError(w, err); status == http.StatusInternalServerError {
			h.logger.Error("PATCH /admin/slots/{id}/date - Failed to move slot: slot_id=%s, error=%v", slotID, err)
		} else {
			h.logger.Warn("PATCH /admin/slots/{id}/date - Rejected: slot_id=%s, date=%s, reason=%v", slotID, req.Date, err)
		}
		return
	}

	h.logger.Info("PATCH /admin/slots/{id}/date - Slot moved: slot_id=%s, date=%s", slotID, slot.Date)
	handlers.RespondJSON(w, http.StatusOK, slot)
}
