package get_profile

import (
	"context"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	"github.com/bellefontaine/circuit-booking/internal/service/profiles/models"
)

type ProfileService interface {
	GetProfile(ctx context.Context, identity domain.Identity) (*models.ProfileResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
