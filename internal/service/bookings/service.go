package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	bookingRepo "github.com/bellefontaine/circuit-booking/internal/infra/storage/booking"
	"github.com/bellefontaine/circuit-booking/internal/service/bookings/models"
)

// Service сервис для чтения бронирований и отметки оплаты
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetUserBookings получает бронирования текущего пользователя с датами слотов,
// от ближайших к прошедшим
func (s *Service) GetUserBookings(ctx context.Context, identity domain.Identity) (*models.BookingListResponse, error) {
	if err := identity.RequireUser(); err != nil {
		return nil, err
	}

	s.logger.Info("GetUserBookings: fetching bookings for user=%s", identity.UserID)

	bookings, err := s.bookingRepo.ListByUser(ctx, identity.UserID)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%s: %v", identity.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%s", len(bookings), identity.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetCircuitBookings получает бронирования трассы для панели администратора.
// Список отсортирован по дате слота и содержит контакты пилотов.
func (s *Service) GetCircuitBookings(ctx context.Context, identity domain.Identity, req *models.GetCircuitBookingsRequest) (*models.BookingListResponse, error) {
	if err := identity.RequireAdmin(); err != nil {
		s.logger.Warn("GetCircuitBookings: access denied for user=%s", identity.UserID)
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetCircuitBookings: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.logger.Info("GetCircuitBookings: fetching bookings for circuit=%d", filter.Circuit)

	bookings, err := s.bookingRepo.ListByCircuit(ctx, filter)
	if err != nil {
		s.logger.Error("GetCircuitBookings: repository error for circuit=%d: %v", filter.Circuit, err)
		return nil, fmt.Errorf("%w: GetCircuitBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCircuitBookings: successfully fetched %d bookings for circuit=%d", len(bookings), filter.Circuit)
	return models.FromDomainBookingList(bookings), nil
}

// UpdatePaymentStatus меняет статус оплаты. Пустой статус переключает
// pending и paid. Остаток мест не меняется.
func (s *Service) UpdatePaymentStatus(ctx context.Context, identity domain.Identity, bookingID uuid.UUID, req *models.UpdatePaymentRequest) (*models.BookingResponse, error) {
	if err := identity.RequireAdmin(); err != nil {
		s.logger.Warn("UpdatePaymentStatus: access denied for user=%s", identity.UserID)
		return nil, err
	}

	s.logger.Info("UpdatePaymentStatus: updating booking id=%s to status=%q by admin=%s",
		bookingID, req.Status, identity.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdatePaymentStatus: booking id=%s not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("UpdatePaymentStatus: repository error for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: UpdatePaymentStatus - repository error: %v", ErrInternal, err)
	}

	newStatus := booking.PaymentStatus.Toggle()
	if req.Status != "" {
		newStatus = domain.PaymentStatus(req.Status)
		if !newStatus.IsValid() {
			s.logger.Warn("UpdatePaymentStatus: invalid status=%s for booking id=%s", req.Status, bookingID)
			return nil, fmt.Errorf("%w: payment status must be pending or paid", ErrInvalidInput)
		}
	}

	updated, err := s.bookingRepo.UpdatePaymentStatus(ctx, bookingID, newStatus)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdatePaymentStatus: booking id=%s not found during update", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("UpdatePaymentStatus: repository error for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: UpdatePaymentStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdatePaymentStatus: successfully updated booking id=%s to status=%s", bookingID, newStatus)
	return models.FromDomainBooking(updated), nil
}
