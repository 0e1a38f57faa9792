package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/playgrid/arena-system/models"
	"github.com/playgrid/arena-system/repositories"
	"github.com/playgrid/arena-system/storage"
)

type ProfileService interface {
	GetPlayerProfile(ctx context.Context, playerID string) (*models.PlayerProfile, error)
}

type profileService struct {
	profileRepo     repositories.ProfileRepository
	achievementRepo repositories.AchievementRepository
	participantRepo repositories.ParticipantRepository
	uploader        storage.FileUploader
}

func NewProfileService(
	profileRepo repositories.ProfileRepository,
	achievementRepo repositories.AchievementRepository,
	participantRepo repositories.ParticipantRepository,
	uploader storage.FileUploader,
) ProfileService {
	return &profileService{
		profileRepo:     profileRepo,
		achievementRepo: achievementRepo,
		participantRepo: participantRepo,
		uploader:        uploader,
	}
}

// GetPlayerProfile собирает публичный профиль: рейтинги, достижения и
// историю турниров тянутся параллельно.
func (s *profileService) GetPlayerProfile(ctx context.Context, playerID string) (*models.PlayerProfile, error) {
	profile, err := s.profileRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile %s: %w", playerID, err)
	}

	var (
		ratings      map[string]int
		achievements []models.PlayerAchievement
		tournaments  []models.PlayerTournamentRef
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ratings, err = s.profileRepo.ListGameRatings(gctx, playerID)
		return err
	})
	g.Go(func() error {
		var err error
		achievements, err = s.achievementRepo.ListByPlayer(gctx, playerID)
		return err
	})
	g.Go(func() error {
		var err error
		tournaments, err = s.participantRepo.ListByPlayer(gctx, playerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to aggregate player profile %s: %w", playerID, err)
	}

	return &models.PlayerProfile{
		ID:           profile.ID,
		Username:     profile.Username,
		Avatar:       resolveImage(s.uploader, profile.AvatarKey, placeholderAvatar),
		Level:        profile.Level,
		Country:      profile.Country,
		JoinedAt:     profile.CreatedAt,
		GameRatings:  ratings,
		Achievements: achievements,
		Tournaments:  tournaments,
	}, nil
}
