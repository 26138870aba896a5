package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewSlot_InitializesAvailableToCapacity(t *testing.T) {
	slot, err := NewSlot(time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC), 20, 12)

	require.NoError(t, err)
	assert.Equal(t, date(2025, 6, 1), slot.Date)
	assert.Equal(t, 20, slot.Available(CircuitMotocross))
	assert.Equal(t, 12, slot.Available(CircuitSupercross))
	assert.Equal(t, 0, slot.Reserved(CircuitMotocross))
	assert.True(t, slot.IsConsistent())
}

func TestNewSlot_RejectsInvalidCapacity(t *testing.T) {
	_, err := NewSlot(date(2025, 6, 1), -1, 10)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewSlot(date(2025, 6, 1), 10, MaxCircuitCapacity+1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSlot_CheckSeats(t *testing.T) {
	slot := &Slot{Circuit1Capacity: 20, Circuit1Available: 2, Circuit2Capacity: 10, Circuit2Available: 10}

	assert.NoError(t, slot.CheckSeats(CircuitMotocross, 2))
	assert.NoError(t, slot.CheckSeats(CircuitSupercross, 10))

	err := slot.CheckSeats(CircuitMotocross, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	var seatsErr *InsufficientSeatsError
	require.True(t, errors.As(err, &seatsErr))
	assert.Equal(t, 2, seatsErr.Available)
	assert.Equal(t, 3, seatsErr.Requested)
	assert.Contains(t, err.Error(), "only 2 seat(s) left on circuit 1")
}

func TestSlot_Recompute_PreservesReserved(t *testing.T) {
	// 20 мест, 5 занято на первой трассе
	slot := &Slot{ID: uuid.New(), Circuit1Capacity: 20, Circuit1Available: 15, Circuit2Capacity: 20, Circuit2Available: 20}

	updated, err := slot.Recompute(30, 8)

	require.NoError(t, err)
	assert.Equal(t, 30, updated.Circuit1Capacity)
	assert.Equal(t, 25, updated.Circuit1Available)
	assert.Equal(t, 8, updated.Circuit2Available)
	assert.Equal(t, 5, updated.Reserved(CircuitMotocross))
	// исходный слот не меняется
	assert.Equal(t, 20, slot.Circuit1Capacity)
}

func TestSlot_Recompute_CapacityFloor(t *testing.T) {
	slot := &Slot{Circuit1Capacity: 20, Circuit1Available: 15, Circuit2Capacity: 20, Circuit2Available: 20}

	_, err := slot.Recompute(3, 20)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var reservedErr *ReservedSeatsError
	require.True(t, errors.As(err, &reservedErr))
	assert.Equal(t, CircuitMotocross, reservedErr.Circuit)
	assert.Equal(t, 5, reservedErr.Reserved)
	assert.Contains(t, err.Error(), "5 seat(s) already reserved")

	exact, err := slot.Recompute(5, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, exact.Circuit1Available)
}

func TestSlot_RecomputeWithReserved_SecondCircuit(t *testing.T) {
	slot := &Slot{Circuit1Capacity: 10, Circuit1Available: 10, Circuit2Capacity: 10, Circuit2Available: 10}

	_, err := slot.RecomputeWithReserved(10, 3, 0, 4)

	var reservedErr *ReservedSeatsError
	require.True(t, errors.As(err, &reservedErr))
	assert.Equal(t, CircuitSupercross, reservedErr.Circuit)
	assert.Equal(t, 4, reservedErr.Reserved)
}

func TestSlot_IsConsistent(t *testing.T) {
	assert.False(t, (&Slot{Circuit1Capacity: 5, Circuit1Available: 6}).IsConsistent())
	assert.False(t, (&Slot{Circuit2Capacity: 5, Circuit2Available: -1}).IsConsistent())
	assert.True(t, (&Slot{Circuit1Capacity: 5, Circuit1Available: 0}).IsConsistent())
}

func TestCircuit_IsValid(t *testing.T) {
	assert.True(t, CircuitMotocross.IsValid())
	assert.True(t, CircuitSupercross.IsValid())
	assert.False(t, Circuit(0).IsValid())
	assert.False(t, Circuit(3).IsValid())
}

func TestNewBooking_Validation(t *testing.T) {
	user, slot := uuid.New(), uuid.New()

	b, err := NewBooking(user, slot, CircuitSupercross, 4)
	require.NoError(t, err)
	assert.Equal(t, PaymentPending, b.PaymentStatus)

	_, err = NewBooking(user, slot, Circuit(3), 4)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewBooking(user, slot, CircuitMotocross, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewBooking(user, slot, CircuitMotocross, MaxPilotsPerBooking+1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPaymentStatus_Toggle(t *testing.T) {
	assert.Equal(t, PaymentPaid, PaymentPending.Toggle())
	assert.Equal(t, PaymentPending, PaymentPaid.Toggle())
}

func TestIdentity_Require(t *testing.T) {
	assert.ErrorIs(t, Anonymous().RequireUser(), ErrAuthRequired)
	assert.ErrorIs(t, Anonymous().RequireAdmin(), ErrAuthRequired)

	user := Identity{UserID: uuid.New(), Role: RoleUser}
	assert.NoError(t, user.RequireUser())
	assert.ErrorIs(t, user.RequireAdmin(), ErrAccessDenied)

	admin := Identity{UserID: uuid.New(), Role: RoleAdmin}
	assert.NoError(t, admin.RequireAdmin())
}

func TestNewContactMessage(t *testing.T) {
	msg, err := NewContactMessage("  Jean Dupont ", "jean@example.com", " Bonjour ")
	require.NoError(t, err)
	assert.Equal(t, "Jean Dupont", msg.FullName)
	assert.Equal(t, "Bonjour", msg.Message)
	assert.Equal(t, MessagePending, msg.Status)

	_, err = NewContactMessage("Jean", "not-an-email", "Bonjour")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewContactMessage("", "jean@example.com", "Bonjour")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewContactMessage("Jean", "jean@example.com", "   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateReply(t *testing.T) {
	_, err := ValidateReply("  ")
	assert.ErrorIs(t, err, ErrValidation)

	text, err := ValidateReply(" Merci ")
	require.NoError(t, err)
	assert.Equal(t, "Merci", text)
}
