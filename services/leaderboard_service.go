package services

import (
	"context"
	"fmt"

	"github.com/playgrid/arena-system/models"
	"github.com/playgrid/arena-system/repositories"
)

// LeaderboardService отдаёт предвычисленные базой рейтинги и живые игры.
// Никакой собственной логики ранжирования здесь нет и быть не должно.
type LeaderboardService interface {
	GameLeaderboard(ctx context.Context, gameID string) ([]models.GameLeaderboardRow, error)
	TournamentLeaderboard(ctx context.Context, tournamentID string) ([]models.TournamentLeaderboardRow, error)
	LiveGames(ctx context.Context) ([]models.LiveGame, error)
	AdvancingPlayers(ctx context.Context) ([]models.AdvancingPlayer, error)
}

type leaderboardService struct {
	leaderboardRepo repositories.LeaderboardRepository
}

func NewLeaderboardService(leaderboardRepo repositories.LeaderboardRepository) LeaderboardService {
	return &leaderboardService{leaderboardRepo: leaderboardRepo}
}

func (s *leaderboardService) GameLeaderboard(ctx context.Context, gameID string) ([]models.GameLeaderboardRow, error) {
	board, err := s.leaderboardRepo.GameLeaderboard(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game leaderboard: %w", err)
	}
	for i := range board {
		board[i].Avatar = normalizeAvatar(board[i].Avatar)
	}
	return board, nil
}

func (s *leaderboardService) TournamentLeaderboard(ctx context.Context, tournamentID string) ([]models.TournamentLeaderboardRow, error) {
	board, err := s.leaderboardRepo.TournamentLeaderboard(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament leaderboard: %w", err)
	}
	for i := range board {
		board[i].Avatar = normalizeAvatar(board[i].Avatar)
	}
	return board, nil
}

func (s *leaderboardService) LiveGames(ctx context.Context) ([]models.LiveGame, error) {
	games, err := s.leaderboardRepo.LiveGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load live games: %w", err)
	}
	for i := range games {
		games[i].Player1.Avatar = normalizeAvatar(games[i].Player1.Avatar)
		games[i].Player2.Avatar = normalizeAvatar(games[i].Player2.Avatar)
	}
	return games, nil
}

func (s *leaderboardService) AdvancingPlayers(ctx context.Context) ([]models.AdvancingPlayer, error) {
	players, err := s.leaderboardRepo.AdvancingPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load advancing players: %w", err)
	}
	for i := range players {
		players[i].Avatar = normalizeAvatar(players[i].Avatar)
	}
	return players, nil
}
