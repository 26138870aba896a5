package get_profile

import (
	"net/http"

	"github.com/bellefontaine/circuit-booking/internal/api/handlers"
	"github.com/bellefontaine/circuit-booking/internal/api/middleware"
)

type Handler struct {
	service ProfileService
	logger  Logger
}

func NewHandler(service ProfileService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/me
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	profile, err := h.service.GetProfile(r.Context(), identity)
	if err != nil {
		if status := handlers.RespondDomainError(w, err); status == http.StatusInternalServerError {
			h.logger.Error("GET /users/me - Failed to get profile: user=%s, error=%v", identity.UserID, err)
		} else {
			h.logger.Warn("GET /users/me - Rejected: user=%s, reason=%v", identity.UserID, err)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, profile)
}
