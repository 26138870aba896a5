package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	bookingRepo "github.com/bellefontaine/circuit-booking/internal/infra/storage/booking"
	slotRepo "github.com/bellefontaine/circuit-booking/internal/infra/storage/slot"
)

// UseCase use case для создания бронирования
type UseCase struct {
	slotRepo     SlotRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	cache        CacheInvalidator
	metrics      Metrics
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
	metrics Metrics,
	rules domain.BookingRules,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		cache:        cache,
		metrics:      metrics,
		rules:        rules,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверки идут строго по порядку, первая неудачная прерывает операцию
// до любых изменений. Списание мест и вставка выполняются в одной транзакции,
// списание - условный UPDATE, поэтому параллельные заявки не уводят остаток в минус.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%s, slot=%s, circuit=%d, pilots=%d",
		req.Identity.UserID, req.SlotID, req.Circuit, req.NumberOfPilots)

	// 1. Анонимный пользователь не может бронировать
	if err := req.Identity.RequireUser(); err != nil {
		uc.logger.Warn("CreateBooking: anonymous caller")
		uc.metrics.BookingRejected(rejectAuth)
		return nil, err
	}

	// 2. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.metrics.BookingRejected(rejectValidation)
		return nil, err
	}

	// 3. Получаем слот и проверяем, что его дата не прошла
	slot, err := uc.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("CreateBooking: slot id=%s not found", req.SlotID)
			uc.metrics.BookingRejected(rejectNotFound)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("CreateBooking: failed to get slot id=%s: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	if uc.rules.IsPast(slot.Date, now) {
		uc.logger.Warn("CreateBooking: slot id=%s date=%s is in the past",
			slot.ID, slot.Date.Format(domain.DateFormat))
		uc.metrics.BookingRejected(rejectPast)
		return nil, ErrSlotInPast
	}

	// 4. Один пользователь - одно бронирование на слот (на любой трассе)
	exists, err := uc.bookingRepo.ExistsForUserAndSlot(ctx, req.Identity.UserID, slot.ID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to check existing booking: %v", err)
		return nil, fmt.Errorf("%w: failed to check existing booking: %v", ErrInternal, err)
	}
	if exists {
		uc.logger.Warn("CreateBooking: user=%s already has a booking for slot=%s", req.Identity.UserID, slot.ID)
		uc.metrics.BookingRejected(rejectDuplicate)
		return nil, ErrAlreadyBooked
	}

	// 5. Проверяем остаток мест по текущему состоянию слота
	if err := slot.CheckSeats(req.Circuit, req.NumberOfPilots); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		uc.metrics.BookingRejected(rejectCapacity)
		return nil, err
	}

	booking, err := domain.NewBooking(req.Identity.UserID, slot.ID, req.Circuit, req.NumberOfPilots)
	if err != nil {
		return nil, err
	}

	// 6. Атомарно списываем места и сохраняем бронирование
	var (
		created *domain.Booking
		updated *domain.Slot
	)

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 6.1. Условное списание: проходит только если мест все еще достаточно
		s, err := uc.slotRepo.DecrementAvailable(txCtx, slot.ID, req.Circuit, req.NumberOfPilots)
		if err != nil {
			if errors.Is(err, slotRepo.ErrNotEnoughSeats) {
				return uc.seatsTakenMeanwhile(txCtx, req)
			}
			uc.logger.Error("CreateBooking: failed to decrement availability: %v", err)
			return fmt.Errorf("%w: failed to decrement availability: %v", ErrInternal, err)
		}

		// 6.2. Сохраняем бронирование
		b, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrDuplicateBooking):
				uc.logger.Warn("CreateBooking: concurrent duplicate booking user=%s slot=%s",
					req.Identity.UserID, slot.ID)
				uc.metrics.BookingRejected(rejectDuplicate)
				return ErrAlreadyBooked
			case errors.Is(err, bookingRepo.ErrReferenceNotFound):
				uc.metrics.BookingRejected(rejectNotFound)
				return ErrSlotNotFound
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		created = b
		updated = s
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 7. Сбрасываем кэш списка слотов
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("CreateBooking: failed to invalidate slots cache: %v", err)
	}

	uc.metrics.BookingCreated(int(created.Circuit))
	uc.logger.Info("CreateBooking: successfully created booking id=%s, circuit %d available=%d",
		created.ID, created.Circuit, updated.Available(created.Circuit))

	return &Response{
		Booking: created,
		Slot:    updated,
	}, nil
}

// seatsTakenMeanwhile строит ошибку для случая, когда места заняли между
// проверкой и списанием. Слот перечитывается, чтобы назвать точный остаток.
func (uc *UseCase) seatsTakenMeanwhile(ctx context.Context, req *Request) error {
	fresh, err := uc.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.metrics.BookingRejected(rejectNotFound)
			return ErrSlotNotFound
		}
		uc.logger.Error("CreateBooking: failed to re-read slot id=%s: %v", req.SlotID, err)
		return fmt.Errorf("%w: failed to re-read slot: %v", ErrInternal, err)
	}

	uc.metrics.BookingRejected(rejectCapacity)
	seatsErr := &domain.InsufficientSeatsError{
		Circuit:   req.Circuit,
		Requested: req.NumberOfPilots,
		Available: fresh.Available(req.Circuit),
	}
	uc.logger.Warn("CreateBooking: seats taken concurrently: %v", seatsErr)
	return seatsErr
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SlotID == uuid.Nil {
		return fmt.Errorf("%w: slotId is required", ErrInvalidInput)
	}
	if !req.Circuit.IsValid() {
		return fmt.Errorf("%w: circuit must be 1 or 2", ErrInvalidInput)
	}
	return domain.ValidatePilots(req.NumberOfPilots)
}
