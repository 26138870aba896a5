package update_capacity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	"github.com/bellefontaine/circuit-booking/internal/infra/cache"
	"github.com/bellefontaine/circuit-booking/internal/testutil/memstore"
	"github.com/bellefontaine/circuit-booking/pkg/logger"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var admin = domain.Identity{UserID: uuid.New(), Role: domain.RoleAdmin}

func newUseCase(store *memstore.Store) *UseCase {
	uc := NewUseCase(store.Slots(), store.Bookings(), store.TxManager(), cache.Noop{},
		domain.BookingRules{Location: time.UTC, SessionStartHour: 14, SessionEndHour: 18, ShortNoticeDays: 2},
		logger.NewNop())
	uc.timeProvider = fixedClock{now: time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)}
	return uc
}

// slotWithBooking слот 1 июня 20/20 и бронирование 5 пилотов на первой трассе
func slotWithBooking(store *memstore.Store) *domain.Slot {
	slot := store.AddSlot(domain.Slot{
		Date:              time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Circuit1Capacity:  20,
		Circuit2Capacity:  20,
		Circuit1Available: 15,
		Circuit2Available: 20,
	})
	store.AddBooking(domain.Booking{
		UserID:         uuid.New(),
		SlotID:         slot.ID,
		Circuit:        domain.CircuitMotocross,
		NumberOfPilots: 5,
		PaymentStatus:  domain.PaymentPending,
	})
	return slot
}

func TestExecute_CapacityFloor(t *testing.T) {
	tests := []struct {
		name          string
		capacity1     int
		wantErr       bool
		wantAvailable int
	}{
		{name: "below reserved", capacity1: 3, wantErr: true},
		{name: "exactly reserved", capacity1: 5, wantAvailable: 0},
		{name: "above reserved", capacity1: 10, wantAvailable: 5},
		{name: "grow", capacity1: 30, wantAvailable: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memstore.New()
			slot := slotWithBooking(store)
			uc := newUseCase(store)

			resp, err := uc.Execute(context.Background(), &Request{
				Identity:         admin,
				SlotID:           slot.ID,
				Circuit1Capacity: tt.capacity1,
				Circuit2Capacity: 20,
			})

			if tt.wantErr {
				var reservedErr *domain.ReservedSeatsError
				require.True(t, errors.As(err, &reservedErr))
				assert.ErrorIs(t, err, domain.ErrValidation)
				assert.Equal(t, 5, reservedErr.Reserved)
				assert.Equal(t, domain.CircuitMotocross, reservedErr.Circuit)
				assert.Contains(t, err.Error(), "5 seat(s) already reserved")
				assert.Equal(t, 20, store.Slot(slot.ID).Circuit1Capacity)
				assert.Equal(t, 15, store.Slot(slot.ID).Circuit1Available)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.capacity1, resp.Slot.Circuit1Capacity)
			assert.Equal(t, tt.wantAvailable, resp.Slot.Circuit1Available)
			assert.Equal(t, 20, resp.Slot.Circuit2Available)
			assert.Empty(t, resp.Drift)

			stored := store.Slot(slot.ID)
			assert.Equal(t, stored.Circuit1Capacity-stored.Circuit1Available,
				store.ReservedSum(slot.ID, domain.CircuitMotocross))
		})
	}
}

func TestExecute_DriftIsReconciledFromBookings(t *testing.T) {
	store := memstore.New()
	slot := slotWithBooking(store)
	// Сохраненный остаток разошелся с бронированиями: показывает 8 занятых вместо 5
	drifted := *store.Slot(slot.ID)
	drifted.Circuit1Available = 12
	store.AddSlot(drifted)
	uc := newUseCase(store)

	resp, err := uc.Execute(context.Background(), &Request{
		Identity:         admin,
		SlotID:           slot.ID,
		Circuit1Capacity: 20,
		Circuit2Capacity: 20,
	})

	require.NoError(t, err)
	assert.Equal(t, 15, resp.Slot.Circuit1Available)
	assert.Equal(t, map[domain.Circuit]int{domain.CircuitMotocross: 3}, resp.Drift)
}

func TestExecute_Rejections(t *testing.T) {
	store := memstore.New()
	slot := slotWithBooking(store)
	past := store.AddSlot(domain.Slot{
		Date:              time.Date(2025, 5, 19, 0, 0, 0, 0, time.UTC),
		Circuit1Capacity:  20,
		Circuit2Capacity:  20,
		Circuit1Available: 20,
		Circuit2Available: 20,
	})
	uc := newUseCase(store)

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{
			name: "anonymous",
			req:  Request{SlotID: slot.ID, Circuit1Capacity: 10, Circuit2Capacity: 10},
			want: domain.ErrAuthRequired,
		},
		{
			name: "not an admin",
			req:  Request{Identity: domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}, SlotID: slot.ID, Circuit1Capacity: 10, Circuit2Capacity: 10},
			want: domain.ErrAccessDenied,
		},
		{
			name: "unknown slot",
			req:  Request{Identity: admin, SlotID: uuid.New(), Circuit1Capacity: 10, Circuit2Capacity: 10},
			want: ErrSlotNotFound,
		},
		{
			name: "past slot",
			req:  Request{Identity: admin, SlotID: past.ID, Circuit1Capacity: 10, Circuit2Capacity: 10},
			want: ErrSlotInPast,
		},
		{
			name: "negative capacity",
			req:  Request{Identity: admin, SlotID: slot.ID, Circuit1Capacity: 10, Circuit2Capacity: -1},
			want: domain.ErrValidation,
		},
		{
			name: "capacity over limit",
			req:  Request{Identity: admin, SlotID: slot.ID, Circuit1Capacity: domain.MaxCircuitCapacity + 1, Circuit2Capacity: 10},
			want: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), &tt.req)

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 20, store.Slot(slot.ID).Circuit2Capacity)
		})
	}
}
