package reply_message

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bellefontaine/circuit-booking/internal/api/handlers"
	"github.com/bellefontaine/circuit-booking/internal/api/middleware"
	"github.com/bellefontaine/circuit-booking/internal/service/messages/models"
)

const (
	msgInvalidMessageID   = "invalid message id"
	msgInvalidRequestBody = "invalid request body"
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

// Handle POST /api/v1/admin/messages/{messageId}/reply
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	messageID, err := handlers.ParseUUID(mux.Vars(r)["messageId"])
	if err != nil {
		h.logger.Warn("POST /admin/messages/{id}/reply - Invalid message ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMessageID)
		return
	}

	var req models.ReplyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/messages/{id}/reply - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Reply(r.Context(), middleware.GetIdentity(r.Context()), messageID, &req)
	if err != nil {
		if status := handlers.RespondDomainError(w, err); status == http.StatusInternalServerError {
			h.logger.Error("POST /admin/messages/{id}/reply - Failed: message_id=%s, error=%v", messageID, err)
		} else {
			h.logger.Warn("POST /admin/messages/{id}/reply - Rejected: message_id=%s, reason=%v", messageID, err)
		}
		return
	}

	h.logger.Info("POST /admin/messages/{id}/reply - Reply saved: message_id=%s, email_sent=%t", messageID, result.EmailSent)
	handlers.RespondJSON(w, http.StatusOK, result)
}
