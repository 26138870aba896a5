package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the payment state of a booking.
// Payment itself is settled in person, the status is informational.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// IsValid returns true for pending or paid
func (s PaymentStatus) IsValid() bool {
	return s == PaymentPending || s == PaymentPaid
}

// Toggle returns paid for pending and pending for paid
func (s PaymentStatus) Toggle() PaymentStatus {
	if s == PaymentPaid {
		return PaymentPending
	}
	return PaymentPaid
}

// Booking represents a pilot's claim on seats of one circuit of one slot.
// There is no cancelled state: cancellation deletes the booking.
type Booking struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	SlotID         uuid.UUID
	Circuit        Circuit
	NumberOfPilots int
	PaymentStatus  PaymentStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Денормализованные данные для списков (заполняются только join-запросами)
	SlotDate *time.Time
	Pilot    *Profile
}

// NewBooking создает бронирование в статусе pending
func NewBooking(userID, slotID uuid.UUID, circuit Circuit, pilots int) (*Booking, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user is required", ErrValidation)
	}
	if slotID == uuid.Nil {
		return nil, fmt.Errorf("%w: slot is required", ErrValidation)
	}
	if !circuit.IsValid() {
		return nil, fmt.Errorf("%w: circuit must be 1 or 2", ErrValidation)
	}
	if err := ValidatePilots(pilots); err != nil {
		return nil, err
	}

	return &Booking{
		UserID:         userID,
		SlotID:         slotID,
		Circuit:        circuit,
		NumberOfPilots: pilots,
		PaymentStatus:  PaymentPending,
	}, nil
}

// ValidatePilots проверяет количество пилотов в одной заявке
func ValidatePilots(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: number of pilots must be at least 1", ErrValidation)
	}
	if n > MaxPilotsPerBooking {
		return fmt.Errorf("%w: number of pilots must not exceed %d", ErrValidation, MaxPilotsPerBooking)
	}
	return nil
}

// IsOwnedBy returns true if the booking belongs to the user
func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.UserID == userID
}

// CircuitBookingsFilter фильтр бронирований трассы для панели администратора
type CircuitBookingsFilter struct {
	Circuit Circuit    // Обязательный параметр
	From    *time.Time // Начиная с даты слота (опционально)
	To      *time.Time // По дату слота включительно (опционально)
}
