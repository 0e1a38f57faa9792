package models

import "time"

// Game соответствует строке таблицы games.
type Game struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImageKey    *string   `json:"-"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Categories  []string  `json:"categories"`
	Platforms   []string  `json:"platforms"`
	Features    []string  `json:"features"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// GameSummary — игра с агрегатами для листинга.
type GameSummary struct {
	Game
	Image             string `json:"image"`
	ActivePlayers     int    `json:"active_players"`
	ActiveTournaments int    `json:"active_tournaments"`
}
