package reply_message

import (
	"context"

	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	"github.com/bellefontaine/circuit-booking/internal/service/messages/models"
)

type MessageService interface {
	Reply(ctx context.Context, identity domain.Identity, id uuid.UUID, req *models.ReplyRequest) (*models.ReplyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
