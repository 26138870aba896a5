package delete_message

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bellefontaine/circuit-booking/internal/api/handlers"
	"github.com/bellefontaine/circuit-booking/internal/api/middleware"
)

const msgInvalidMessageID = "invalid message id"

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

// Handle DELETE /api/v1/admin/messages/{messageId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	messageID, err := handlers.ParseUUID(mux.Vars(r)["messageId"])
	if err != nil {
		h.logger.Warn("DELETE /admin/messages/{id} - Invalid message ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMessageID)
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetIdentity(r.Context()), messageID); err != nil {
		if status := handlers.RespondDomainError(w, err); status == http.StatusInternalServerError {
			h.logger.Error("DELETE /admin/messages/{id} - Failed: message_id=%s, error=%v", messageID, err)
		} else {
			h.logger.Warn("DELETE /admin/messages/{id} - Rejected: message_id=%s, reason=%v", messageID, err)
		}
		return
	}

	h.logger.Info("DELETE /admin/messages/{id} - Message deleted: message_id=%s", messageID)
	w.WriteHeader(http.StatusNoContent)
}
