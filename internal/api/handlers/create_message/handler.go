package create_message

import (
	"net/http"

	"github.com/bellefontaine/circuit-booking/internal/api/handlers"
	"github.com/bellefontaine/circuit-booking/internal/service/messages/models"
)

const msgInvalidRequestBody = "invalid request body"

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

// Handle POST /api/v1/contact-messages
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMessageRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /contact-messages - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	msg, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if status := handlers.RespondDomainError(w, err); status == http.StatusInternalServerError {
			h.logger.Error("POST /contact-messages - Failed to save message: error=%v", err)
		} else {
			h.logger.Warn("POST /contact-messages - Rejected: %v", err)
		}
		return
	}

	h.logger.Info("POST /contact-messages - Message received: id=%s", msg.ID)
	handlers.RespondJSON(w, http.StatusCreated, msg)
}
