package create_slot

import (
	"context"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	"github.com/bellefontaine/circuit-booking/internal/service/slots/models"
)

type SlotService interface {
	CreateSlot(ctx context.Context, identity domain.Identity, req *models.CreateSlotRequest) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
