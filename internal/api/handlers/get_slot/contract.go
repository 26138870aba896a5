package get_slot

import (
	"context"

	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/service/slots/models"
)

type SlotService interface {
	GetSlot(ctx context.Context, slotID uuid.UUID) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
