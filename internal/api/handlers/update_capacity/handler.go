package update_capacity

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bellefontaine/circuit-booking/internal/api/handlers"
	"github.com/bellefontaine/circuit-booking/internal/api/middleware"
)

const (
	msgInvalidSlotID      = "invalid slot id"
	msgInvalidRequestBody = "invalid request body"
)

type Handler struct {
	useCase UpdateCapacityUseCase
	logger  Logger
}

func NewHandler(useCase UpdateCapacityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/admin/slots/{slotId}/capacity
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.ParseUUID(mux.Vars(r)["slotId"])
	if err != nil {
		h.logger.Warn("PUT /admin/slots/{id}/capacity - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req UpdateCapacityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/slots/{id}/capacity - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(middleware.GetIdentity(r.Context()), slotID)
	if err != nil {
		h.logger.Warn("PUT /admin/slots/{id}/capacity - %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if status := handlers.RespondDomainError(w, err); status == http.StatusInternalServerError {
			h.logger.Error("PUT /admin/slots/{id}/capacity - Failed to update capacity: slot_id=%s, error=%v", slotID, err)
		} else {
			h.logger.Warn("PUT /admin/slots/{id}/capacity - Rejected: slot_id=%s, reason=%v", slotID, err)
		}
		return
	}

	h.logger.Info("PUT /admin/slots/{id}/capacity - Capacity updated: slot_id=%s, circuit1=%d, circuit2=%d",
		slotID, result.Slot.Circuit1Capacity, result.Slot.Circuit2Capacity)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
