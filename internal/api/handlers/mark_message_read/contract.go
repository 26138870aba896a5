package mark_message_read

import (
	"context"

	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	"github.com/bellefontaine/circuit-booking/internal/service/messages/models"
)

type MessageService interface {
	MarkRead(ctx context.Context, identity domain.Identity, id uuid.UUID) (*models.MessageResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
