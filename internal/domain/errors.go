package domain

import (
	"errors"
	"fmt"
)

// Виды ошибок. Ошибки конкретных пакетов оборачивают один из них,
// поэтому handlers проверяют только вид через errors.Is.
var (
	ErrValidation       = errors.New("validation error")
	ErrConflict         = errors.New("conflict")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrAuthRequired     = errors.New("authentication required")
	ErrAccessDenied     = errors.New("access denied")
	ErrNotFound         = errors.New("not found")
	ErrStorage          = errors.New("storage error")
	ErrRelay            = errors.New("notification relay error")
)

// InsufficientSeatsError запрошено больше мест, чем осталось на круге
type InsufficientSeatsError struct {
	Circuit   Circuit
	Requested int
	Available int
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf("only %d seat(s) left on circuit %d, %d requested", e.Available, e.Circuit, e.Requested)
}

func (e *InsufficientSeatsError) Unwrap() error { return ErrCapacityExceeded }

// ReservedSeatsError новая вместимость меньше уже забронированных мест
type ReservedSeatsError struct {
	Circuit           Circuit
	RequestedCapacity int
	Reserved          int
}

func (e *ReservedSeatsError) Error() string {
	return fmt.Sprintf("cannot set circuit %d capacity to %d: %d seat(s) already reserved",
		e.Circuit, e.RequestedCapacity, e.Reserved)
}

func (e *ReservedSeatsError) Unwrap() error { return ErrValidation }
