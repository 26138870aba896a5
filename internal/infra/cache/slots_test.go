package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	"github.com/bellefontaine/circuit-booking/pkg/metrics"
)

func newTestCache(t *testing.T) (*SlotsCache, *miniredis.Miniredis, *metrics.Metrics) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())
	return New(rdb, time.Minute, m), mr, m
}

func testSlot(day int) *domain.Slot {
	return &domain.Slot{
		ID:                uuid.New(),
		Date:              time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC),
		Circuit1Capacity:  20,
		Circuit2Capacity:  15,
		Circuit1Available: 12,
		Circuit2Available: 15,
	}
}

func TestSlotsCache_MissThenHit(t *testing.T) {
	c, mr, m := newTestCache(t)
	ctx := context.Background()
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	_, ok, err := c.GetUpcoming(ctx, gen, from)
	require.NoError(t, err)
	assert.False(t, ok)

	stored := []*domain.Slot{testSlot(1), testSlot(2)}
	require.NoError(t, c.SetUpcoming(ctx, gen, from, stored))
	assert.True(t, mr.Exists("slots:upcoming:0:2025-06-01"))
	assert.Equal(t, time.Minute, mr.TTL("slots:upcoming:0:2025-06-01"))

	slots, ok, err := c.GetUpcoming(ctx, gen, from)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, slots, 2)
	assert.Equal(t, stored[0].ID, slots[0].ID)
	assert.Equal(t, "2025-06-02", slots[1].Date.Format(domain.DateFormat))
	assert.Equal(t, 12, slots[0].Circuit1Available)
	assert.Equal(t, 8, slots[0].Reserved(domain.CircuitMotocross))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
}

func TestSlotsCache_InvalidateRemovesAllViews(t *testing.T) {
	c, mr, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetUpcoming(ctx, 0, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), nil))
	require.NoError(t, c.SetUpcoming(ctx, 0, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), nil))
	require.NoError(t, mr.Set("sessions:other", "keep"))

	require.NoError(t, c.Invalidate(ctx))

	assert.False(t, mr.Exists("slots:upcoming:0:2025-06-01"))
	assert.False(t, mr.Exists("slots:upcoming:0:2025-06-02"))
	assert.True(t, mr.Exists("sessions:other"))

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
}

// Список, прочитанный из базы до сброса, не должен попасть в кэш после него
func TestSlotsCache_SetAfterInvalidateIsDropped(t *testing.T) {
	c, mr, _ := newTestCache(t)
	ctx := context.Background()
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	before, err := c.Generation(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.SetUpcoming(ctx, before, from, []*domain.Slot{testSlot(1)}))

	assert.False(t, mr.Exists("slots:upcoming:0:2025-06-01"))

	current, err := c.Generation(ctx)
	require.NoError(t, err)
	_, ok, err := c.GetUpcoming(ctx, current, from)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSlotsCache_InvalidateEmpty(t *testing.T) {
	c, _, _ := newTestCache(t)

	assert.NoError(t, c.Invalidate(context.Background()))
}

func TestSlotsCache_CorruptEntryIsMiss(t *testing.T) {
	c, mr, _ := newTestCache(t)
	require.NoError(t, mr.Set("slots:upcoming:0:2025-06-01", "{not json"))

	_, ok, err := c.GetUpcoming(context.Background(), 0, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSlotsCache_RedisDown(t *testing.T) {
	c, mr, _ := newTestCache(t)
	mr.Close()

	_, _, err := c.GetUpcoming(context.Background(), 0, time.Now())
	assert.ErrorIs(t, err, ErrCache)

	_, err = c.Generation(context.Background())
	assert.ErrorIs(t, err, ErrCache)
}

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Connect(context.Background(), Options{Addr: addr, TTL: time.Minute}, nil)

	assert.ErrorIs(t, err, ErrConnect)
}
