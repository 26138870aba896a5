package get_available_slots

import (
	"context"
	"time"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	List(ctx context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error)
}

// SlotsCache кэш списка предстоящих слотов
type SlotsCache interface {
	// Generation текущее поколение кэша, меняется при каждом сбросе
	Generation(ctx context.Context) (int64, error)
	// GetUpcoming возвращает (slots, true, nil) при попадании в кэш
	GetUpcoming(ctx context.Context, gen int64, from time.Time) ([]*domain.Slot, bool, error)
	// SetUpcoming не пишет ничего, если поколение уже сменилось
	SetUpcoming(ctx context.Context, gen int64, from time.Time, slots []*domain.Slot) error
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
