package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	slotRepo "github.com/bellefontaine/circuit-booking/internal/infra/storage/slot"
	"github.com/bellefontaine/circuit-booking/internal/service/slots/models"
)

// Service сервис администрирования слотов
type Service struct {
	slotRepo        SlotRepository
	cache           CacheInvalidator
	rules           domain.BookingRules
	defaultCapacity int
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	cache CacheInvalidator,
	rules domain.BookingRules,
	defaultCapacity int,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:        slotRepo,
		cache:           cache,
		rules:           rules,
		defaultCapacity: defaultCapacity,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// CreateSlot создает слот на дату, все места свободны.
// Дата не может быть раньше сегодняшнего дня, на дату допускается один слот.
func (s *Service) CreateSlot(ctx context.Context, identity domain.Identity, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	if err := identity.RequireAdmin(); err != nil {
		s.logger.Warn("CreateSlot: access denied for user=%s", identity.UserID)
		return nil, err
	}

	s.logger.Info("CreateSlot: admin=%s, date=%s", identity.UserID, req.Date)

	date, err := s.parseFutureDate(req.Date)
	if err != nil {
		s.logger.Warn("CreateSlot: %v", err)
		return nil, err
	}

	slot, err := domain.NewSlot(date, s.capacityOrDefault(req.Circuit1Capacity), s.capacityOrDefault(req.Circuit2Capacity))
	if err != nil {
		s.logger.Warn("CreateSlot: %v", err)
		return nil, err
	}

	created, err := s.slotRepo.Create(ctx, slot)
	if err != nil {
		if errors.Is(err, slotRepo.ErrDateTaken) {
			s.logger.Warn("CreateSlot: slot for %s already exists", req.Date)
			return nil, fmt.Errorf("%w: %s", ErrDateTaken, req.Date)
		}
		s.logger.Error("CreateSlot: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateSlot - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "CreateSlot")

	s.logger.Info("CreateSlot: successfully created slot id=%s for %s", created.ID, req.Date)
	return models.FromDomainSlot(created), nil
}

// EditSlotDate переносит слот на другую дату. Бронирования и вместимость не меняются.
func (s *Service) EditSlotDate(ctx context.Context, identity domain.Identity, slotID uuid.UUID, req *models.EditDateRequest) (*models.SlotResponse, error) {
	if err := identity.RequireAdmin(); err != nil {
		s.logger.Warn("EditSlotDate: access denied for user=%s", identity.UserID)
		return nil, err
	}

	s.logger.Info("EditSlotDate: admin=%s, slot=%s, date=%s", identity.UserID, slotID, req.Date)

	date, err := s.parseFutureDate(req.Date)
	if err != nil {
		s.logger.Warn("EditSlotDate: %v", err)
		return nil, err
	}

	updated, err := s.slotRepo.UpdateDate(ctx, slotID, date)
	if err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrSlotNotFound):
			s.logger.Warn("EditSlotDate: slot id=%s not found", slotID)
			return nil, ErrSlotNotFound
		case errors.Is(err, slotRepo.ErrDateTaken):
			s.logger.Warn("EditSlotDate: slot for %s already exists", req.Date)
			return nil, fmt.Errorf("%w: %s", ErrDateTaken, req.Date)
		}
		s.logger.Error("EditSlotDate: repository error for slot id=%s: %v", slotID, err)
		return nil, fmt.Errorf("%w: EditSlotDate - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "EditSlotDate")

	s.logger.Info("EditSlotDate: successfully moved slot id=%s to %s", slotID, req.Date)
	return models.FromDomainSlot(updated), nil
}

// GetSlot получает слот по ID
func (s *Service) GetSlot(ctx context.Context, slotID uuid.UUID) (*models.SlotResponse, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("GetSlot: repository error for slot id=%s: %v", slotID, err)
		return nil, fmt.Errorf("%w: GetSlot - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainSlot(slot), nil
}

// ListSlots список слотов для администратора, включая прошедшие
func (s *Service) ListSlots(ctx context.Context, identity domain.Identity, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
	if err := identity.RequireAdmin(); err != nil {
		s.logger.Warn("ListSlots: access denied for user=%s", identity.UserID)
		return nil, err
	}

	if req.From != nil && req.To != nil && req.From.After(*req.To) {
		return nil, fmt.Errorf("%w: from must not be after to", ErrInvalidInput)
	}

	slots, err := s.slotRepo.List(ctx, domain.SlotsFilter{From: req.From, To: req.To})
	if err != nil {
		s.logger.Error("ListSlots: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListSlots - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListSlots: successfully fetched %d slots", len(slots))
	return models.FromDomainSlotList(slots), nil
}

// parseFutureDate разбирает YYYY-MM-DD и отклоняет прошедшие дни
func (s *Service) parseFutureDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	date, err := domain.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
	}

	if s.rules.IsPast(date, s.timeProvider.Now()) {
		return time.Time{}, fmt.Errorf("%w: %s", ErrDateInPast, raw)
	}

	return date, nil
}

func (s *Service) capacityOrDefault(capacity *int) int {
	if capacity == nil {
		return s.defaultCapacity
	}
	return *capacity
}

func (s *Service) invalidate(ctx context.Context, op string) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("%s: failed to invalidate slots cache: %v", op, err)
	}
}
