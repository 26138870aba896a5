package get_available_slots

import (
	"net/http"

	"github.com/bellefontaine/circuit-booking/internal/api/handlers"
	"github.com/bellefontaine/circuit-booking/internal/domain"
	getAvailableSlots "github.com/bellefontaine/circuit-booking/internal/usecase/get_available_slots"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots
// Query params: from (опционально, YYYY-MM-DD, не раньше сегодняшнего дня)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	from, err := handlers.ParseDateParam(r, "from")
	if err != nil {
		h.logger.Warn("GET /slots - Invalid from date: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{From: from})
	if err != nil {
		h.logger.Error("GET /slots - Failed to get slots: error=%v", err)
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /slots - Slots retrieved successfully: from=%s, slots_count=%d, cached=%t",
		result.From.Format(domain.DateFormat), len(result.Slots), result.Cached)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
