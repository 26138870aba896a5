package cache

import (
	"context"
	"time"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

// Noop используется при cache.enabled = false: всегда промах
type Noop struct{}

func (Noop) Generation(context.Context) (int64, error) { return 0, nil }

func (Noop) GetUpcoming(context.Context, int64, time.Time) ([]*domain.Slot, bool, error) {
	return nil, false, nil
}

func (Noop) SetUpcoming(context.Context, int64, time.Time, []*domain.Slot) error { return nil }

func (Noop) Invalidate(context.Context) error { return nil }
