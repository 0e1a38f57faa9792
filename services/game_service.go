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

type GameService interface {
	List(ctx context.Context) ([]models.GameSummary, error)
	GetBySlug(ctx context.Context, slug string) (*models.GameSummary, error)
}

type gameService struct {
	gameRepo repositories.GameRepository
	uploader storage.FileUploader
}

func NewGameService(gameRepo repositories.GameRepository, uploader storage.FileUploader) GameService {
	return &gameService{
		gameRepo: gameRepo,
		uploader: uploader,
	}
}

func (s *gameService) List(ctx context.Context) ([]models.GameSummary, error) {
	games, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	summaries := make([]models.GameSummary, len(games))
	g, gctx := errgroup.WithContext(ctx)
	for i := range games {
		i := i
		g.Go(func() error {
			summary, err := s.summarize(gctx, &games[i])
			if err != nil {
				return err
			}
			summaries[i] = *summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *gameService) GetBySlug(ctx context.Context, slug string) (*models.GameSummary, error) {
	game, err := s.gameRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to load game %s: %w", slug, err)
	}
	return s.summarize(ctx, game)
}

// summarize достаёт агрегаты по игре параллельно, в духе исходных двух
// независимых count-запросов.
func (s *gameService) summarize(ctx context.Context, game *models.Game) (*models.GameSummary, error) {
	var players, tournaments int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = s.gameRepo.CountActivePlayers(gctx, game.ID)
		return err
	})
	g.Go(func() error {
		var err error
		tournaments, err = s.gameRepo.CountActiveTournaments(gctx, game.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to aggregate game %s: %w", game.Slug, err)
	}

	return &models.GameSummary{
		Game:              *game,
		Image:             resolveImage(s.uploader, game.ImageKey, placeholderImage),
		ActivePlayers:     players,
		ActiveTournaments: tournaments,
	}, nil
}
