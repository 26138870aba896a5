package delete_slot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	slotRepo "github.com/bellefontaine/circuit-booking/internal/infra/storage/slot"
)

// UseCase use case для удаления слота с уведомлением пилотов
type UseCase struct {
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	notifier    Notifier
	limiter     RateLimiter
	cache       CacheInvalidator
	templateID  string
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	notifier Notifier,
	limiter RateLimiter,
	cache CacheInvalidator,
	templateID string,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		notifier:    notifier,
		limiter:     limiter,
		cache:       cache,
		templateID:  templateID,
		logger:      logger,
	}
}

// Execute удаляет слот. Пилоты с бронированиями получают письмо до удаления;
// неудачная доставка попадает в отчет и не останавливает удаление.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Report, error) {
	uc.logger.Info("DeleteSlot: admin=%s, slot=%s", req.Identity.UserID, req.SlotID)

	// 1. Только администратор
	if err := req.Identity.RequireAdmin(); err != nil {
		uc.logger.Warn("DeleteSlot: caller %s is not an admin", req.Identity.UserID)
		return nil, err
	}

	if req.SlotID == uuid.Nil {
		return nil, fmt.Errorf("%w: slotId is required", ErrInvalidInput)
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = DefaultReason
	}
	if len(reason) > domain.MaxCancelReasonLength {
		return nil, fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxCancelReasonLength)
	}

	// 2. Получаем слот
	slot, err := uc.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("DeleteSlot: slot id=%s not found", req.SlotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("DeleteSlot: failed to get slot id=%s: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}

	// 3. Получаем бронирования слота вместе с контактами пилотов
	bookings, err := uc.bookingRepo.ListBySlot(ctx, slot.ID)
	if err != nil {
		uc.logger.Error("DeleteSlot: failed to list bookings for slot=%s: %v", slot.ID, err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}

	report := &Report{Slot: slot, BookingsRemoved: len(bookings)}

	// 4. Уведомляем пилотов до удаления
	if len(bookings) > 0 {
		to, missing := recipients(bookings)
		for _, userID := range missing {
			uc.logger.Warn("DeleteSlot: pilot user=%s on slot=%s has no email, cannot notify", userID, slot.ID)
		}
		report.MissingContacts = missing
		uc.notify(ctx, slot, reason, to, report)
	}

	// 5. Удаляем слот независимо от результата рассылки
	if err := uc.slotRepo.Delete(ctx, slot.ID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("DeleteSlot: slot id=%s deleted concurrently", slot.ID)
			return report, nil
		}
		uc.logger.Error("DeleteSlot: failed to delete slot id=%s: %v", slot.ID, err)
		return nil, fmt.Errorf("%w: failed to delete slot: %v", ErrInternal, err)
	}

	// 6. Сбрасываем кэш списка слотов
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("DeleteSlot: failed to invalidate slots cache: %v", err)
	}

	uc.logger.Info("DeleteSlot: deleted slot id=%s date=%s, bookings=%d, notified=%d, failed=%d, no email=%d",
		slot.ID, slot.Date.Format(domain.DateFormat), report.BookingsRemoved, report.Notified,
		len(report.FailedRecipients), len(report.MissingContacts))

	return report, nil
}

// notify отправляет по одному письму на каждый адрес с учетом лимита частоты
func (uc *UseCase) notify(ctx context.Context, slot *domain.Slot, reason string, to []recipient, report *Report) {
	date := slot.Date.Format(domain.DateFormat)

	for _, r := range to {
		if err := uc.limiter.Wait(ctx); err != nil {
			uc.logger.Warn("DeleteSlot: notification to %s skipped: %v", r.email, err)
			report.FailedRecipients = append(report.FailedRecipients, r.email)
			continue
		}

		data := map[string]interface{}{
			"to_name": r.name,
			"message": fmt.Sprintf("Your session on %s has been cancelled: %s", date, reason),
			"date":    date,
			"reason":  reason,
		}

		if err := uc.notifier.Send(ctx, r.email, uc.templateID, data); err != nil {
			uc.logger.Warn("DeleteSlot: failed to notify %s about slot=%s: %v", r.email, slot.ID, err)
			report.FailedRecipients = append(report.FailedRecipients, r.email)
			continue
		}
		report.Notified++
	}
}

// recipients собирает уникальные адреса пилотов. Второй результат -
// пилоты без профиля или без email, каждый один раз.
func recipients(bookings []*domain.Booking) ([]recipient, []uuid.UUID) {
	seen := make(map[string]struct{}, len(bookings))
	result := make([]recipient, 0, len(bookings))

	seenMissing := make(map[uuid.UUID]struct{})
	missing := make([]uuid.UUID, 0)

	for _, b := range bookings {
		if b.Pilot == nil || strings.TrimSpace(b.Pilot.Email) == "" {
			if _, ok := seenMissing[b.UserID]; !ok {
				seenMissing[b.UserID] = struct{}{}
				missing = append(missing, b.UserID)
			}
			continue
		}
		email := strings.ToLower(strings.TrimSpace(b.Pilot.Email))
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}

		name := b.Pilot.FullName()
		if name == "" {
			name = email
		}
		result = append(result, recipient{email: email, name: name})
	}
	return result, missing
}
