package create_message

import (
	"context"

	"github.com/bellefontaine/circuit-booking/internal/service/messages/models"
)

type MessageService interface {
	Create(ctx context.Context, req *models.CreateMessageRequest) (*models.MessageResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
