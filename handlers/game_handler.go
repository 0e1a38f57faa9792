package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playgrid/arena-system/services"
)

var errMissingSlug = errors.New("missing slug parameter")

type GameHandler struct {
	gameService        services.GameService
	leaderboardService services.LeaderboardService
}

func NewGameHandler(gameService services.GameService, leaderboardService services.LeaderboardService) *GameHandler {
	return &GameHandler{
		gameService:        gameService,
		leaderboardService: leaderboardService,
	}
}

func (h *GameHandler) ListGamesHandler(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"games": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		badRequestResponse(w, r, errMissingSlug)
		return
	}

	game, err := h.gameService.GetBySlug(r.Context(), slug)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) GameLeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := getUUIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	board, err := h.leaderboardService.GameLeaderboard(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": board}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
