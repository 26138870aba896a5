package edit_slot_date

import (
	"context"

	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	"github.com/bellefontaine/circuit-booking/internal/service/slots/models"
)

type SlotService interface {
	EditSlotDate(ctx context.Context, identity domain.Identity, slotID uuid.UUID, req *models.EditDateRequest) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
