package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	profileRepo "github.com/bellefontaine/circuit-booking/internal/infra/storage/profile"
	"github.com/bellefontaine/circuit-booking/internal/service/profiles/models"
)

// Service сервис профилей
type Service struct {
	profileRepo ProfileRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса профилей
func NewService(profileRepo ProfileRepository, logger Logger) *Service {
	return &Service{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// GetProfile возвращает профиль текущего пользователя
func (s *Service) GetProfile(ctx context.Context, identity domain.Identity) (*models.ProfileResponse, error) {
	if err := identity.RequireUser(); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrProfileNotFound) {
			s.logger.Warn("GetProfile: profile for user=%s not found", identity.UserID)
			return nil, ErrProfileNotFound
		}
		s.logger.Error("GetProfile: repository error for user=%s: %v", identity.UserID, err)
		return nil, fmt.Errorf("%w: GetProfile - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainProfile(profile), nil
}

// RoleOf возвращает роль пользователя.
// Пользователь без профиля получает обычную роль: профиль может появиться позже токена.
func (s *Service) RoleOf(ctx context.Context, userID uuid.UUID) (domain.Role, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrProfileNotFound) {
			return domain.RoleUser, nil
		}
		s.logger.Error("RoleOf: repository error for user=%s: %v", userID, err)
		return "", fmt.Errorf("%w: RoleOf - repository error: %v", ErrInternal, err)
	}

	if profile.IsAdmin() {
		return domain.RoleAdmin, nil
	}
	return domain.RoleUser, nil
}
