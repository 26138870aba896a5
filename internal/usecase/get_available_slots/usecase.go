package get_available_slots

import (
	"context"
	"fmt"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

// UseCase use case для получения предстоящих слотов с остатком мест
type UseCase struct {
	slotRepo     SlotRepository
	cache        SlotsCache
	rules        domain.BookingRules
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	cache SlotsCache,
	rules domain.BookingRules,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		cache:        cache,
		rules:        rules,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Список может быть немного устаревшим: окончательная проверка мест
// выполняется при создании бронирования.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Определяем дату начала выборки по календарю трассы
	today := uc.rules.Today(uc.timeProvider.Now())
	from := resolveFrom(req.From, today)

	// 2. Запоминаем поколение кэша до чтения из базы: если между чтением
	// и записью кэш сбросят, устаревший список в него не попадет
	gen, err := uc.cache.Generation(ctx)
	cacheable := err == nil
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: cache generation lookup failed: %v", err)
	}

	// 3. Пробуем кэш; ошибка кэша не мешает ответу
	if cacheable {
		slots, hit, err := uc.cache.GetUpcoming(ctx, gen, from)
		if err != nil {
			uc.logger.Warn("GetAvailableSlots: cache lookup failed: %v", err)
		}
		if hit {
			return &Response{From: from, Slots: slots, Cached: true}, nil
		}
	}

	// 4. Читаем из хранилища
	slots, err := uc.slotRepo.List(ctx, domain.SlotsFilter{From: &from})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots from %s: %v", from.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	// 5. Кладем результат в кэш под прочитанным поколением
	if cacheable {
		if err := uc.cache.SetUpcoming(ctx, gen, from, slots); err != nil {
			uc.logger.Warn("GetAvailableSlots: failed to cache slots: %v", err)
		}
	}

	uc.logger.Info("GetAvailableSlots: loaded %d slot(s) from %s", len(slots), from.Format(domain.DateFormat))

	return &Response{From: from, Slots: slots}, nil
}
