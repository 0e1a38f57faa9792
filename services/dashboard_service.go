package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/playgrid/arena-system/models"
)

// Dashboard — агрегат личного кабинета за один запрос.
type Dashboard struct {
	Profile       *models.PlayerProfile      `json:"profile"`
	Upcoming      []models.TournamentSummary `json:"upcoming_tournaments"`
	LiveGames     []models.LiveGame          `json:"live_games"`
	Notifications []models.Notification      `json:"notifications"`
}

type DashboardService interface {
	GetDashboard(ctx context.Context, userID string) (*Dashboard, error)
}

type dashboardService struct {
	profiles      ProfileService
	tournaments   TournamentService
	leaderboards  LeaderboardService
	notifications NotificationService
}

func NewDashboardService(
	profiles ProfileService,
	tournaments TournamentService,
	leaderboards LeaderboardService,
	notifications NotificationService,
) DashboardService {
	return &dashboardService{
		profiles:      profiles,
		tournaments:   tournaments,
		leaderboards:  leaderboards,
		notifications: notifications,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	dashboard := &Dashboard{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, err := s.profiles.GetPlayerProfile(gctx, userID)
		if err != nil {
			return err
		}
		dashboard.Profile = profile
		return nil
	})
	g.Go(func() error {
		upcoming, err := s.tournaments.ListUpcoming(gctx, userID)
		if err != nil {
			return err
		}
		dashboard.Upcoming = upcoming
		return nil
	})
	g.Go(func() error {
		games, err := s.leaderboards.LiveGames(gctx)
		if err != nil {
			return err
		}
		dashboard.LiveGames = games
		return nil
	})
	g.Go(func() error {
		notifications, err := s.notifications.ListForUser(gctx, userID, true)
		if err != nil {
			return err
		}
		dashboard.Notifications = notifications
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to assemble dashboard for user %s: %w", userID, err)
	}
	return dashboard, nil
}
