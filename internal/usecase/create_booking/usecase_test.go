package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	"github.com/bellefontaine/circuit-booking/internal/testutil/memstore"
	"github.com/bellefontaine/circuit-booking/pkg/logger"
	"github.com/bellefontaine/circuit-booking/pkg/metrics"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type spyCache struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *spyCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.err
}

type fixture struct {
	store   *memstore.Store
	cache   *spyCache
	metrics *metrics.Metrics
	uc      *UseCase
	user    domain.Identity
}

// "Сейчас" - 1 июня 2025, 10:00 по Парижу
func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	rules := domain.DefaultBookingRules()
	rules.Location = loc

	store := memstore.New()
	cache := &spyCache{}
	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())

	uc := NewUseCase(store.Slots(), store.Bookings(), store.TxManager(), cache, m, rules, logger.NewNop())
	uc.timeProvider = fixedClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, loc)}

	return &fixture{
		store:   store,
		cache:   cache,
		metrics: m,
		uc:      uc,
		user:    domain.Identity{UserID: uuid.New(), Role: domain.RoleUser},
	}
}

func (f *fixture) addSlot(day, capacity1, available1 int) *domain.Slot {
	return f.store.AddSlot(domain.Slot{
		Date:              time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC),
		Circuit1Capacity:  capacity1,
		Circuit2Capacity:  20,
		Circuit1Available: available1,
		Circuit2Available: 20,
	})
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(1, 20, 20)

	resp, err := f.uc.Execute(context.Background(), &Request{
		Identity:       f.user,
		SlotID:         slot.ID,
		Circuit:        domain.CircuitMotocross,
		NumberOfPilots: 5,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, resp.Booking.PaymentStatus)
	assert.Equal(t, f.user.UserID, resp.Booking.UserID)
	assert.Equal(t, 15, resp.Slot.Circuit1Available)
	assert.Equal(t, 15, f.store.Slot(slot.ID).Circuit1Available)
	assert.Equal(t, 5, f.store.ReservedSum(slot.ID, domain.CircuitMotocross))
	assert.Equal(t, 1, f.cache.calls)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.BookingsCreated.WithLabelValues("1")))
}

func TestExecute_RejectionsAreOrderedAndDoNotMutate(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(3, 20, 2)
	past := f.store.AddSlot(domain.Slot{
		Date:              time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
		Circuit1Capacity:  20,
		Circuit2Capacity:  20,
		Circuit1Available: 20,
		Circuit2Available: 20,
	})
	existing := f.store.AddBooking(domain.Booking{
		UserID:         f.user.UserID,
		SlotID:         slot.ID,
		Circuit:        domain.CircuitSupercross,
		NumberOfPilots: 1,
		PaymentStatus:  domain.PaymentPending,
	})
	require.NotNil(t, existing)

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{
			name: "anonymous",
			req:  Request{Identity: domain.Anonymous(), SlotID: uuid.New(), Circuit: 7, NumberOfPilots: 0},
			want: domain.ErrAuthRequired,
		},
		{
			name: "invalid circuit",
			req:  Request{Identity: f.user, SlotID: slot.ID, Circuit: 3, NumberOfPilots: 1},
			want: domain.ErrValidation,
		},
		{
			name: "zero pilots",
			req:  Request{Identity: f.user, SlotID: slot.ID, Circuit: 1, NumberOfPilots: 0},
			want: domain.ErrValidation,
		},
		{
			name: "unknown slot",
			req:  Request{Identity: f.user, SlotID: uuid.New(), Circuit: 1, NumberOfPilots: 1},
			want: ErrSlotNotFound,
		},
		{
			name: "slot dated yesterday",
			req:  Request{Identity: f.user, SlotID: past.ID, Circuit: 1, NumberOfPilots: 1},
			want: ErrSlotInPast,
		},
		{
			name: "existing booking on other circuit wins over capacity",
			req:  Request{Identity: f.user, SlotID: slot.ID, Circuit: 1, NumberOfPilots: 10},
			want: ErrAlreadyBooked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := f.store.BookingCount()

			_, err := f.uc.Execute(context.Background(), &tt.req)

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, f.store.BookingCount())
			assert.Equal(t, 2, f.store.Slot(slot.ID).Circuit1Available)
		})
	}
	assert.Equal(t, 0, f.cache.calls)
}

func TestExecute_InsufficientSeatsCitesRemaining(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(2, 20, 3)

	_, err := f.uc.Execute(context.Background(), &Request{
		Identity:       f.user,
		SlotID:         slot.ID,
		Circuit:        domain.CircuitMotocross,
		NumberOfPilots: 4,
	})

	var seatsErr *domain.InsufficientSeatsError
	require.True(t, errors.As(err, &seatsErr))
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	assert.Equal(t, 3, seatsErr.Available)
	assert.Equal(t, 4, seatsErr.Requested)
	assert.Contains(t, err.Error(), "only 3 seat(s) left")
	assert.Equal(t, 3, f.store.Slot(slot.ID).Circuit1Available)
}

func TestExecute_SameDaySlotIsBookable(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(1, 20, 20)

	_, err := f.uc.Execute(context.Background(), &Request{
		Identity:       f.user,
		SlotID:         slot.ID,
		Circuit:        domain.CircuitSupercross,
		NumberOfPilots: 20,
	})

	require.NoError(t, err)
	assert.Equal(t, 0, f.store.Slot(slot.ID).Circuit2Available)
}

// Два пилота одновременно берут последние 2 места: успешен ровно один
func TestExecute_ConcurrentLastSeats(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(5, 20, 2)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), &Request{
				Identity:       domain.Identity{UserID: uuid.New(), Role: domain.RoleUser},
				SlotID:         slot.ID,
				Circuit:        domain.CircuitMotocross,
				NumberOfPilots: 2,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	}

	assert.Equal(t, 1, succeeded)
	stored := f.store.Slot(slot.ID)
	assert.Equal(t, 0, stored.Circuit1Available)
	assert.Equal(t, 2, f.store.ReservedSum(slot.ID, domain.CircuitMotocross))
}

func TestExecute_InsertFailureRollsBackDecrement(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(4, 20, 20)
	f.store.FailOn("bookings.Create", errors.New("connection reset"))

	_, err := f.uc.Execute(context.Background(), &Request{
		Identity:       f.user,
		SlotID:         slot.ID,
		Circuit:        domain.CircuitMotocross,
		NumberOfPilots: 5,
	})

	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, 20, f.store.Slot(slot.ID).Circuit1Available)
	assert.Equal(t, 0, f.store.BookingCount())
}

func TestExecute_CacheFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t)
	f.cache.err = errors.New("redis down")
	slot := f.addSlot(4, 20, 20)

	resp, err := f.uc.Execute(context.Background(), &Request{
		Identity:       f.user,
		SlotID:         slot.ID,
		Circuit:        domain.CircuitMotocross,
		NumberOfPilots: 1,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.Booking.ID)
}
