package update_capacity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	slotRepo "github.com/bellefontaine/circuit-booking/internal/infra/storage/slot"
)

// UseCase use case для изменения вместимости трасс слота администратором
type UseCase struct {
	slotRepo     SlotRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	cache        CacheInvalidator
	rules        domain.BookingRules
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	cache CacheInvalidator,
	rules domain.BookingRules,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		cache:        cache,
		rules:        rules,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute меняет вместимость и пересчитывает остаток мест.
// Остаток не редактируется напрямую: он выводится из новой вместимости
// и суммы пилотов по бронированиям, прочитанной под блокировкой строки слота.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateCapacity: admin=%s, slot=%s, capacity1=%d, capacity2=%d",
		req.Identity.UserID, req.SlotID, req.Circuit1Capacity, req.Circuit2Capacity)

	// 1. Только администратор
	if err := req.Identity.RequireAdmin(); err != nil {
		uc.logger.Warn("UpdateCapacity: caller %s is not an admin", req.Identity.UserID)
		return nil, err
	}

	if req.SlotID == uuid.Nil {
		return nil, fmt.Errorf("%w: slotId is required", ErrInvalidInput)
	}

	var (
		updated *domain.Slot
		drift   map[domain.Circuit]int
	)

	// 2. Блокируем слот, сверяем занятые места и сохраняем
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. SELECT ... FOR UPDATE: параллельные бронирования ждут конца транзакции
		slot, err := uc.slotRepo.GetByIDForUpdate(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("UpdateCapacity: slot id=%s not found", req.SlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("UpdateCapacity: failed to lock slot id=%s: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		// 2.2. Прошедшие слоты не меняются
		if uc.rules.IsPast(slot.Date, uc.timeProvider.Now()) {
			uc.logger.Warn("UpdateCapacity: slot id=%s date=%s is in the past",
				slot.ID, slot.Date.Format(domain.DateFormat))
			return ErrSlotInPast
		}

		// 2.3. Сумма пилотов по бронированиям - источник истины для занятых мест
		reserved, err := uc.bookingRepo.ReservedBySlot(txCtx, slot.ID)
		if err != nil {
			uc.logger.Error("UpdateCapacity: failed to sum reserved seats for slot=%s: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to sum reserved seats: %v", ErrInternal, err)
		}

		drift = reconcile(slot, reserved)
		for circuit, d := range drift {
			uc.logger.Warn("UpdateCapacity: slot=%s circuit %d stored reserved=%d, bookings sum=%d, drift=%d",
				slot.ID, circuit, slot.Reserved(circuit), reserved[circuit], d)
		}

		// 2.4. Пересчет; меньше занятых мест нельзя
		recomputed, err := slot.RecomputeWithReserved(
			req.Circuit1Capacity,
			req.Circuit2Capacity,
			reserved[domain.CircuitMotocross],
			reserved[domain.CircuitSupercross],
		)
		if err != nil {
			uc.logger.Warn("UpdateCapacity: %v", err)
			return err
		}

		// 2.5. Вместимость и остаток пишутся одним UPDATE
		saved, err := uc.slotRepo.SaveCapacity(txCtx, recomputed)
		if err != nil {
			uc.logger.Error("UpdateCapacity: failed to save slot id=%s: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to save capacity: %v", ErrInternal, err)
		}

		updated = saved
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 3. Сбрасываем кэш списка слотов
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("UpdateCapacity: failed to invalidate slots cache: %v", err)
	}

	uc.logger.Info("UpdateCapacity: slot id=%s available %d/%d, %d/%d",
		updated.ID, updated.Circuit1Available, updated.Circuit1Capacity,
		updated.Circuit2Available, updated.Circuit2Capacity)

	return &Response{Slot: updated, Drift: drift}, nil
}

// reconcile сравнивает сохраненное число занятых мест с суммой бронирований.
// Возвращает только трассы с расхождением.
func reconcile(slot *domain.Slot, reserved map[domain.Circuit]int) map[domain.Circuit]int {
	drift := make(map[domain.Circuit]int)
	for _, c := range domain.Circuits {
		if d := slot.Reserved(c) - reserved[c]; d != 0 {
			drift[c] = d
		}
	}
	return drift
}
