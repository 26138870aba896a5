package delete_slot

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bellefontaine/circuit-booking/internal/api/handlers"
	"github.com/bellefontaine/circuit-booking/internal/api/middleware"
	deleteSlot "github.com/bellefontaine/circuit-booking/internal/usecase/delete_slot"
)

const (
	msgInvalidSlotID      = "invalid slot id"
	msgInvalidRequestBody = "invalid request body"
)

type Handler struct {
	useCase DeleteSlotUseCase
	logger  Logger
}

func NewHandler(useCase DeleteSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/admin/slots/{slotId}
// Body: {"reason": "..."}, обязательна, если на слот есть бронирования
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.ParseUUID(mux.Vars(r)["slotId"])
	if err != nil {
		h.logger.Warn("DELETE /admin/slots/{id} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req DeleteSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("DELETE /admin/slots/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	identity := middleware.GetIdentity(r.Context())

	report, err := h.useCase.Execute(r.Context(), &deleteSlot.Request{
		Identity: identity,
		SlotID:   slotID,
		Reason:   req.Reason,
	})
	if err != nil {
		if status := handlers.RespondDomainError(w, err); status == http.StatusInternalServerError {
			h.logger.Error("DELETE /admin/slots/{id} - Failed to delete slot: slot_id=%s, error=%v", slotID, err)
		} else {
			h.logger.Warn("DELETE /admin/slots/{id} - Rejected: slot_id=%s, reason=%v", slotID, err)
		}
		return
	}

	if len(report.FailedRecipients) > 0 {
		h.logger.Warn("DELETE /admin/slots/{id} - Slot deleted, %d notification(s) failed: slot_id=%s",
			len(report.FailedRecipients), slotID)
	}

	h.logger.Info("DELETE /admin/slots/{id} - Slot deleted: slot_id=%s, bookings_removed=%d, notified=%d, admin=%s",
		slotID, report.BookingsRemoved, report.Notified, identity.UserID)
	handlers.RespondJSON(w, http.StatusOK, FromReport(slotID.String(), report))
}
