package update_capacity

import (
	"context"

	updateCapacity "github.com/bellefontaine/circuit-booking/internal/usecase/update_capacity"
)

type UpdateCapacityUseCase interface {
	Execute(ctx context.Context, req *updateCapacity.Request) (*updateCapacity.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
