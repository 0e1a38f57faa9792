package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gosimple/slug"

	"github.com/playgrid/arena-system/models"
	"github.com/playgrid/arena-system/repositories"
	"github.com/playgrid/arena-system/storage"
)

type CreateTournamentInput struct {
	Name              string     `json:"name"`
	GameID            string     `json:"game_id"`
	Description       *string    `json:"description,omitempty"`
	Format            string     `json:"format"`
	PrizePool         *float64   `json:"prize_pool,omitempty"`
	MaxParticipants   int        `json:"max_participants"`
	RegistrationOpen  time.Time  `json:"registration_open_date"`
	RegistrationClose time.Time  `json:"registration_close_date"`
	StartDate         time.Time  `json:"start_date"`
	EndDate           *time.Time `json:"end_date,omitempty"`
	MinSkillLevel     *string    `json:"min_skill_level,omitempty"`
}

type TournamentService interface {
	// ListUpcoming возвращает будущие турниры, отсортированные по дате старта,
	// с аннотацией is_registered для вызывающего пользователя.
	// Пустой userID — анонимный запрос, is_registered всегда false.
	ListUpcoming(ctx context.Context, userID string) ([]models.TournamentSummary, error)
	GetDetails(ctx context.Context, tournamentID, userID string) (*models.TournamentSummary, error)
	Create(ctx context.Context, creatorID string, input CreateTournamentInput) (*models.Tournament, error)
	Register(ctx context.Context, tournamentID, playerID string) (*models.Participant, error)
}

type tournamentService struct {
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	gameRepo        repositories.GameRepository
	uploader        storage.FileUploader
	now             func() time.Time
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	gameRepo repositories.GameRepository,
	uploader storage.FileUploader,
) TournamentService {
	return &tournamentService{
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		gameRepo:        gameRepo,
		uploader:        uploader,
		now:             time.Now,
	}
}

func (s *tournamentService) ListUpcoming(ctx context.Context, userID string) ([]models.TournamentSummary, error) {
	status := models.TournamentStatusUpcoming
	rows, err := s.tournamentRepo.List(ctx, repositories.ListTournamentsFilter{Status: &status})
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming tournaments: %w", err)
	}

	// Членство в турнирах вычисляется на каждый вызов, один запрос на список.
	registered := map[string]struct{}{}
	if userID != "" {
		registered, err = s.participantRepo.ListTournamentIDsByPlayer(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load registrations for user %s: %w", userID, err)
		}
	}

	summaries := make([]models.TournamentSummary, 0, len(rows))
	for i := range rows {
		summary := s.project(&rows[i])
		_, summary.IsRegistered = registered[rows[i].ID]
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *tournamentService) GetDetails(ctx context.Context, tournamentID, userID string) (*models.TournamentSummary, error) {
	row, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %s: %w", tournamentID, err)
	}

	summary := s.project(row)
	if userID != "" {
		if _, err := s.participantRepo.FindByPlayerAndTournament(ctx, userID, tournamentID); err == nil {
			summary.IsRegistered = true
		} else if !errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, fmt.Errorf("failed to check registration: %w", err)
		}
	}
	return &summary, nil
}

func (s *tournamentService) Create(ctx context.Context, creatorID string, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, ErrTournamentNameRequired
	}
	if input.MaxParticipants <= 0 {
		return nil, ErrTournamentInvalidCapacity
	}
	if !input.RegistrationClose.After(input.RegistrationOpen) || input.RegistrationClose.After(input.StartDate) {
		return nil, ErrTournamentInvalidRegWindow
	}
	if input.EndDate != nil && !input.EndDate.After(input.StartDate) {
		return nil, ErrTournamentInvalidDateRange
	}

	if _, err := s.gameRepo.GetByID(ctx, input.GameID); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to check game %s: %w", input.GameID, err)
	}

	tournament := &models.Tournament{
		Name:              input.Name,
		Slug:              slug.Make(input.Name),
		GameID:            input.GameID,
		Description:       input.Description,
		Format:            input.Format,
		PrizePool:         input.PrizePool,
		MaxParticipants:   input.MaxParticipants,
		RegistrationOpen:  input.RegistrationOpen,
		RegistrationClose: input.RegistrationClose,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		Status:            models.TournamentStatusUpcoming,
		CreatedBy:         creatorID,
		MinSkillLevel:     input.MinSkillLevel,
	}

	if err := s.tournamentRepo.Create(ctx, nil, tournament); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentSlugConflict):
			return nil, ErrTournamentSlugConflict
		case errors.Is(err, repositories.ErrTournamentInvalidGame):
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) Register(ctx context.Context, tournamentID, playerID string) (*models.Participant, error) {
	row, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %s: %w", tournamentID, err)
	}

	now := s.now()
	if row.Status != models.TournamentStatusUpcoming || now.Before(row.RegistrationOpen) || now.After(row.RegistrationClose) {
		return nil, ErrRegistrationNotOpen
	}
	if row.CurrentParticipants >= row.MaxParticipants {
		return nil, ErrTournamentFull
	}

	participant := &models.Participant{
		TournamentID: tournamentID,
		PlayerID:     playerID,
		Status:       models.ParticipantStatusRegistered,
		CurrentStage: 0,
	}

	if err := s.participantRepo.Create(ctx, nil, participant); err != nil {
		switch {
		case errors.Is(err, repositories.ErrParticipantAlreadyRegistered):
			return nil, ErrAlreadyRegistered
		case errors.Is(err, repositories.ErrParticipantInvalidReference):
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to register participant: %w", err)
	}
	return participant, nil
}

func (s *tournamentService) project(row *repositories.TournamentRow) models.TournamentSummary {
	prizePool := "0"
	if row.PrizePool != nil {
		prizePool = strconv.FormatFloat(*row.PrizePool, 'f', -1, 64)
	}
	skillLevel := "All Levels"
	if row.MinSkillLevel != nil && *row.MinSkillLevel != "" {
		skillLevel = *row.MinSkillLevel
	}

	return models.TournamentSummary{
		ID:                   row.ID,
		Name:                 row.Name,
		Slug:                 row.Slug,
		Description:          derefOrEmpty(row.Description),
		Game:                 row.GameName,
		GameSlug:             row.GameSlug,
		PrizePool:            prizePool,
		CurrentParticipants:  row.CurrentParticipants,
		MaxParticipants:      row.MaxParticipants,
		StartDate:            row.StartDate,
		RegistrationDeadline: row.RegistrationClose,
		Format:               row.Format,
		SkillLevel:           skillLevel,
		Image:                resolveImage(s.uploader, row.ImageKey, placeholderImage),
		IsRegistered:         false,
	}
}
