package delete_slot

import (
	"context"

	deleteSlot "github.com/bellefontaine/circuit-booking/internal/usecase/delete_slot"
)

type DeleteSlotUseCase interface {
	Execute(ctx context.Context, req *deleteSlot.Request) (*deleteSlot.Report, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
