package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/playgrid/arena-system/models"
	"github.com/playgrid/arena-system/repositories"
	"github.com/playgrid/arena-system/storage"
)

// SessionService проецирует аутентифицированную сессию в прикладного
// пользователя. Валидный токен без строки профиля трактуется как
// неавторизованный запрос: авторизация опирается только на профиль.
type SessionService interface {
	Resolve(ctx context.Context, userID string) (*models.CurrentUser, error)
	Project(profile *models.Profile) *models.CurrentUser
}

type sessionService struct {
	profileRepo repositories.ProfileRepository
	uploader    storage.FileUploader
}

func NewSessionService(profileRepo repositories.ProfileRepository, uploader storage.FileUploader) SessionService {
	return &sessionService{
		profileRepo: profileRepo,
		uploader:    uploader,
	}
}

func (s *sessionService) Resolve(ctx context.Context, userID string) (*models.CurrentUser, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to resolve profile %s: %w", userID, err)
	}
	return s.Project(profile), nil
}

func (s *sessionService) Project(profile *models.Profile) *models.CurrentUser {
	return &models.CurrentUser{
		ID:       profile.ID,
		Username: profile.Username,
		Email:    profile.Email,
		Role:     roleOf(profile),
		Level:    profile.Level,
		Avatar:   resolveImage(s.uploader, profile.AvatarKey, placeholderAvatar),
		IsAdmin:  profile.IsAdmin,
	}
}
