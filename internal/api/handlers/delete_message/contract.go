package delete_message

import (
	"context"

	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

type MessageService interface {
	Delete(ctx context.Context, identity domain.Identity, id uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
