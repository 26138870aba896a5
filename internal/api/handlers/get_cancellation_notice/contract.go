package get_cancellation_notice

import (
	"context"

	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	cancelBooking "github.com/bellefontaine/circuit-booking/internal/usecase/cancel_booking"
)

type CancellationNoticeUseCase interface {
	Notice(ctx context.Context, identity domain.Identity, bookingID uuid.UUID) (*cancelBooking.NoticeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
