package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	bookingRepo "github.com/bellefontaine/circuit-booking/internal/infra/storage/booking"
	slotRepo "github.com/bellefontaine/circuit-booking/internal/infra/storage/slot"
)

// UseCase use case для отмены бронирования пилотом или администратором
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

// Execute отменяет бронирование. Повторная отмена не ошибка.
// Удаление и возврат мест выполняются в одной транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: user=%s, booking=%s", req.Identity.UserID, req.BookingID)

	// 1. Анонимный пользователь не может отменять
	if err := req.Identity.RequireUser(); err != nil {
		uc.logger.Warn("CancelBooking: anonymous caller")
		return nil, err
	}

	// 2. Получаем бронирование; отсутствующее считается уже отмененным
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Info("CancelBooking: booking id=%s already cancelled", req.BookingID)
			return &Response{AlreadyCancelled: true}, nil
		}
		uc.logger.Error("CancelBooking: failed to get booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 3. Проверяем права: владелец или администратор
	if err := checkAccess(req.Identity, booking); err != nil {
		uc.logger.Warn("CancelBooking: user=%s cannot cancel booking id=%s", req.Identity.UserID, booking.ID)
		return nil, err
	}

	// 4. Удаляем бронирование и возвращаем места
	var (
		deleted *domain.Booking
		slot    *domain.Slot
	)

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 4.1. DELETE ... RETURNING: при параллельной отмене строку удалит только один
		d, err := uc.bookingRepo.DeleteReturning(txCtx, booking.ID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return nil
			}
			uc.logger.Error("CancelBooking: failed to delete booking id=%s: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to delete booking: %v", ErrInternal, err)
		}

		// 4.2. Возвращаем места на трассу (не больше вместимости)
		s, err := uc.slotRepo.IncrementAvailable(txCtx, d.SlotID, d.Circuit, d.NumberOfPilots)
		if err != nil {
			uc.logger.Error("CancelBooking: failed to release %d seat(s) on slot=%s: %v",
				d.NumberOfPilots, d.SlotID, err)
			return fmt.Errorf("%w: failed to release seats: %v", ErrInternal, err)
		}

		deleted = d
		slot = s
		return nil
	})

	if err != nil {
		return nil, err
	}

	if deleted == nil {
		uc.logger.Info("CancelBooking: booking id=%s cancelled concurrently", booking.ID)
		return &Response{AlreadyCancelled: true}, nil
	}

	// 5. Сбрасываем кэш списка слотов
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("CancelBooking: failed to invalidate slots cache: %v", err)
	}

	uc.metrics.BookingCancelled()

	// 6. Предупреждение о поздней отмене не блокирует операцию
	notice := uc.rules.NoticeFor(slot.Date, uc.timeProvider.Now())
	if !notice.IsEmpty() {
		uc.logger.Info("CancelBooking: short notice cancellation booking=%s kind=%s", deleted.ID, notice.Kind)
	}

	uc.logger.Info("CancelBooking: successfully cancelled booking id=%s, released %d seat(s) on circuit %d",
		deleted.ID, deleted.NumberOfPilots, deleted.Circuit)

	return &Response{
		Booking: deleted,
		Slot:    slot,
		Notice:  notice,
	}, nil
}

// Notice возвращает предупреждение, которое нужно показать до подтверждения отмены
func (uc *UseCase) Notice(ctx context.Context, identity domain.Identity, bookingID uuid.UUID) (*NoticeResponse, error) {
	if err := identity.RequireUser(); err != nil {
		return nil, err
	}

	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CancellationNotice: failed to get booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if err := checkAccess(identity, booking); err != nil {
		return nil, err
	}

	slot, err := uc.slotRepo.GetByID(ctx, booking.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CancellationNotice: failed to get slot id=%s: %v", booking.SlotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}

	date := slot.Date
	booking.SlotDate = &date

	return &NoticeResponse{
		Booking: booking,
		Notice:  uc.rules.NoticeFor(slot.Date, uc.timeProvider.Now()),
	}, nil
}

func checkAccess(identity domain.Identity, booking *domain.Booking) error {
	if identity.IsAdmin() || booking.IsOwnedBy(identity.UserID) {
		return nil
	}
	return ErrNotOwner
}
