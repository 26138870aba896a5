package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Circuit номер трассы
type Circuit int

const (
	CircuitMotocross  Circuit = 1
	CircuitSupercross Circuit = 2
)

// Circuits все трассы в порядке номеров
var Circuits = []Circuit{CircuitMotocross, CircuitSupercross}

// IsValid returns true for circuit 1 or 2
func (c Circuit) IsValid() bool {
	return c == CircuitMotocross || c == CircuitSupercross
}

// Name returns the track name shown to pilots
func (c Circuit) Name() string {
	switch c {
	case CircuitMotocross:
		return "motocross"
	case CircuitSupercross:
		return "supercross"
	default:
		return fmt.Sprintf("circuit %d", int(c))
	}
}

// Slot represents a bookable calendar day with per-circuit capacity.
// Available is a stored counter kept equal to capacity minus booked seats:
// it is only ever changed by conditional updates (booking, cancellation)
// or rederived from capacity (capacity edit), never written directly.
type Slot struct {
	ID                uuid.UUID
	Date              time.Time // calendar day, time of day is ignored
	Circuit1Capacity  int
	Circuit2Capacity  int
	Circuit1Available int
	Circuit2Available int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewSlot создает слот, в котором все места свободны
func NewSlot(date time.Time, capacity1, capacity2 int) (*Slot, error) {
	if err := validateCapacity(CircuitMotocross, capacity1); err != nil {
		return nil, err
	}
	if err := validateCapacity(CircuitSupercross, capacity2); err != nil {
		return nil, err
	}

	return &Slot{
		Date:              DayOf(date),
		Circuit1Capacity:  capacity1,
		Circuit2Capacity:  capacity2,
		Circuit1Available: capacity1,
		Circuit2Available: capacity2,
	}, nil
}

// Capacity returns the configured capacity of the circuit
func (s *Slot) Capacity(c Circuit) int {
	if c == CircuitSupercross {
		return s.Circuit2Capacity
	}
	return s.Circuit1Capacity
}

// Available returns the number of free seats on the circuit
func (s *Slot) Available(c Circuit) int {
	if c == CircuitSupercross {
		return s.Circuit2Available
	}
	return s.Circuit1Available
}

// Reserved returns the number of booked seats on the circuit
func (s *Slot) Reserved(c Circuit) int {
	return s.Capacity(c) - s.Available(c)
}

// IsConsistent проверяет 0 <= available <= capacity на обеих трассах
func (s *Slot) IsConsistent() bool {
	for _, c := range Circuits {
		if s.Available(c) < 0 || s.Available(c) > s.Capacity(c) {
			return false
		}
	}
	return true
}

// CheckSeats проверяет, что на трассе есть n свободных мест
func (s *Slot) CheckSeats(c Circuit, n int) error {
	if available := s.Available(c); n > available {
		return &InsufficientSeatsError{Circuit: c, Requested: n, Available: available}
	}
	return nil
}

// Recompute возвращает копию слота с новой вместимостью.
// Занятые места считаются по текущему состоянию: reserved = capacity - available,
// новая доступность = новая вместимость - reserved.
func (s *Slot) Recompute(capacity1, capacity2 int) (*Slot, error) {
	return s.RecomputeWithReserved(capacity1, capacity2, s.Reserved(CircuitMotocross), s.Reserved(CircuitSupercross))
}

// RecomputeWithReserved как Recompute, но с явно переданным числом занятых мест
// (например, посчитанным по бронированиям при сверке)
func (s *Slot) RecomputeWithReserved(capacity1, capacity2, reserved1, reserved2 int) (*Slot, error) {
	if err := validateCapacity(CircuitMotocross, capacity1); err != nil {
		return nil, err
	}
	if err := validateCapacity(CircuitSupercross, capacity2); err != nil {
		return nil, err
	}
	if capacity1 < reserved1 {
		return nil, &ReservedSeatsError{Circuit: CircuitMotocross, RequestedCapacity: capacity1, Reserved: reserved1}
	}
	if capacity2 < reserved2 {
		return nil, &ReservedSeatsError{Circuit: CircuitSupercross, RequestedCapacity: capacity2, Reserved: reserved2}
	}

	updated := *s
	updated.Circuit1Capacity = capacity1
	updated.Circuit2Capacity = capacity2
	updated.Circuit1Available = capacity1 - reserved1
	updated.Circuit2Available = capacity2 - reserved2
	return &updated, nil
}

func validateCapacity(c Circuit, capacity int) error {
	if capacity < 0 {
		return fmt.Errorf("%w: circuit %d capacity must not be negative", ErrValidation, c)
	}
	if capacity > MaxCircuitCapacity {
		return fmt.Errorf("%w: circuit %d capacity must not exceed %d", ErrValidation, c, MaxCircuitCapacity)
	}
	return nil
}

// SlotsFilter фильтр списка слотов
type SlotsFilter struct {
	From *time.Time // включительно, nil - без ограничения
	To   *time.Time // включительно, nil - без ограничения
}
