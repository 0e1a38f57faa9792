package live

import (
	"context"
	"log/slog"
	"time"

	"github.com/playgrid/arena-system/models"
)

// LiveGamesSource — источник списка живых игр (представление live_games).
type LiveGamesSource interface {
	LiveGames(ctx context.Context) ([]models.LiveGame, error)
}

// StandingsBroadcaster реализует внешний сигнал о рассмотренном результате:
// клиенты комнаты турнира перечитывают представления standings после решения.
type StandingsBroadcaster struct {
	hub *Hub
}

func NewStandingsBroadcaster(hub *Hub) *StandingsBroadcaster {
	return &StandingsBroadcaster{hub: hub}
}

func (b *StandingsBroadcaster) ResultReviewed(ctx context.Context, tournamentID, resultID string, approved bool) {
	b.hub.BroadcastToRoom(TournamentRoom(tournamentID), Event{
		Type: EventResultReviewed,
		Payload: map[string]interface{}{
			"result_id": resultID,
			"approved":  approved,
		},
	})
}

// Broadcaster периодически публикует живые игры в общую комнату.
type Broadcaster struct {
	hub      *Hub
	source   LiveGamesSource
	interval time.Duration
	logger   *slog.Logger
}

func NewBroadcaster(hub *Hub, source LiveGamesSource, interval time.Duration, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:      hub,
		source:   source,
		interval: interval,
		logger:   logger,
	}
}

// Run крутит тикер до отмены контекста. Пустая комната не опрашивается.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if b.hub.RoomSize(RoomLiveGames) == 0 {
				continue
			}
			games, err := b.source.LiveGames(ctx)
			if err != nil {
				b.logger.Error("live games refresh failed", slog.Any("error", err))
				continue
			}
			b.hub.BroadcastToRoom(RoomLiveGames, Event{
				Type:    EventLiveGames,
				Payload: games,
			})
		}
	}
}
