package delete_slot

import (
	"context"

	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Slot, error)
	// Delete удаляет слот, бронирования удаляются каскадно
	Delete(ctx context.Context, id uuid.UUID) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// ListBySlot возвращает бронирования слота с профилями пилотов
	ListBySlot(ctx context.Context, slotID uuid.UUID) ([]*domain.Booking, error)
}

// Notifier клиент сервиса отправки писем
type Notifier interface {
	Send(ctx context.Context, to, templateID string, data map[string]interface{}) error
}

// RateLimiter ограничивает частоту обращений к сервису писем
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// CacheInvalidator сбрасывает кэш списка слотов
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
