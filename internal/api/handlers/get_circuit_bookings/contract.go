package get_circuit_bookings

import (
	"context"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	"github.com/bellefontaine/circuit-booking/internal/service/bookings/models"
)

type BookingService interface {
	GetCircuitBookings(ctx context.Context, identity domain.Identity, req *models.GetCircuitBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
