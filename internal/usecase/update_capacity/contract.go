package update_capacity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	// GetByIDForUpdate читает слот с блокировкой строки до конца транзакции
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Slot, error)
	SaveCapacity(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// ReservedBySlot сумма пилотов по бронированиям слота для каждой трассы
	ReservedBySlot(ctx context.Context, slotID uuid.UUID) (map[domain.Circuit]int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// CacheInvalidator сбрасывает кэш списка слотов
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
