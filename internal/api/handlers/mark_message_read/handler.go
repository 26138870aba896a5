package mark_message_read

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

// Handle PATCH /api/v1/admin/messages/{messageId}/read
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	messageID, err := handlers.ParseUUID(mux.Vars(r)["messageId"])
	if err != nil {
		h.logger.Warn("PATCH /admin/messages/{id}/read - Invalid message ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMessageID)
		return
	}

	msg, err := h.service.MarkRead(r.Context(), middleware.GetIdentity(r.Context()), messageID)
	if err != nil {
		if status := handlers.RespondDomainError(w, err); status == http.StatusInternalServerError {
			h.logger.Error("PATCH /admin/messages/{id}/read - Failed: message_id=%s, error=%v", messageID, err)
		} else {
			h.logger.Warn("PATCH /admin/messages/{id}/read - Rejected: message_id=%s, reason=%v", messageID, err)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, msg)
}
