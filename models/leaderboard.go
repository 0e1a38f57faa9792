package models

import "time"

// GameLeaderboardRow — строка представления game_leaderboards.
// Ранжирование вычисляется представлением, не этим кодом.
type GameLeaderboardRow struct {
	GameID            string  `json:"game_id"`
	GameName          string  `json:"game_name"`
	PlayerID          string  `json:"player_id"`
	Username          string  `json:"username"`
	Avatar            string  `json:"avatar"`
	Level             int     `json:"level"`
	Country           *string `json:"country,omitempty"`
	Rating            int     `json:"rating"`
	Wins              int     `json:"wins"`
	Losses            int     `json:"losses"`
	Draws             int     `json:"draws"`
	TournamentsPlayed int     `json:"tournaments_played"`
	TournamentsWon    int     `json:"tournaments_won"`
	Rank              int     `json:"rank"`
}

// TournamentLeaderboardRow — строка представления tournament_leaderboards.
type TournamentLeaderboardRow struct {
	TournamentID   string `json:"tournament_id"`
	TournamentName string `json:"tournament_name"`
	GameName       string `json:"game_name"`
	PlayerID       string `json:"player_id"`
	Username       string `json:"username"`
	Avatar         string `json:"avatar"`
	Level          int    `json:"level"`
	Wins           int    `json:"wins"`
	Losses         int    `json:"losses"`
	Draws          int    `json:"draws"`
	CurrentStage   int    `json:"current_stage"`
	Status         string `json:"status"`
	Rank           int    `json:"rank"`
}

// LiveGame — строка представления live_games.
type LiveGame struct {
	ID           string        `json:"id"`
	Game         string        `json:"game"`
	GameSlug     string        `json:"game_slug"`
	Tournament   string        `json:"tournament"`
	TournamentID string        `json:"tournament_id"`
	Player1      PlayerSummary `json:"player1"`
	Player2      PlayerSummary `json:"player2"`
	StartTime    time.Time     `json:"start_time"`
	Status       string        `json:"status"`
}

// AdvancingPlayer — строка представления advancing_players.
type AdvancingPlayer struct {
	ID           string    `json:"id"`
	PlayerID     string    `json:"player_id"`
	Username     string    `json:"username"`
	Avatar       string    `json:"avatar"`
	Level        int       `json:"level"`
	Game         string    `json:"game"`
	GameSlug     string    `json:"game_slug"`
	Tournament   string    `json:"tournament"`
	TournamentID string    `json:"tournament_id"`
	CurrentStage int       `json:"current_stage"`
	NextStage    string    `json:"next_stage"`
	AdvancedAt   time.Time `json:"advanced_at"`
}
