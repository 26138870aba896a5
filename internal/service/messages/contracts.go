package messages

import (
	"context"

	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

// MessageRepository интерфейс репозитория обращений
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactMessage, error)
	List(ctx context.Context, filter domain.MessagesFilter) ([]*domain.ContactMessage, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*domain.ContactMessage, error)
	SaveReply(ctx context.Context, id uuid.UUID, reply string) (*domain.ContactMessage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Notifier клиент сервиса отправки писем
type Notifier interface {
	Send(ctx context.Context, to, templateID string, data map[string]interface{}) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
