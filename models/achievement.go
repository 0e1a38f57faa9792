package models

import "time"

type Achievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	GameID      *string   `json:"game_id,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Points      int       `json:"points"`
	CreatedAt   time.Time `json:"created_at"`
}

// PlayerAchievement — полученное игроком достижение с джойном справочника.
type PlayerAchievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Game        string    `json:"game"`
	EarnedAt    time.Time `json:"earned_at"`
}
