package handlers

import (
	"net/http"

	"github.com/playgrid/arena-system/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// LiveGamesHandler — снимок матчей в игре прямо сейчас. То же, что уходит
// подписчикам комнаты live_games по вебсокету.
func (h *LeaderboardHandler) LiveGamesHandler(w http.ResponseWriter, r *http.Request) {
	games, err := h.leaderboardService.LiveGames(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"live_games": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeaderboardHandler) AdvancingPlayersHandler(w http.ResponseWriter, r *http.Request) {
	players, err := h.leaderboardService.AdvancingPlayers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"advancing_players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
