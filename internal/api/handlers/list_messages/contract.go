package list_messages

import (
	"context"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	"github.com/bellefontaine/circuit-booking/internal/service/messages/models"
)

type MessageService interface {
	List(ctx context.Context, identity domain.Identity, req *models.ListMessagesRequest) (*models.MessageListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
