package models

import "time"

type ParticipantStatus string

const (
	ParticipantStatusRegistered ParticipantStatus = "registered"
	ParticipantStatusActive     ParticipantStatus = "active"
	ParticipantStatusEliminated ParticipantStatus = "eliminated"
	ParticipantStatusWinner     ParticipantStatus = "winner"
)

// Participant связывает игрока с турниром. current_stage и status
// мутируются обработкой результатов вне этого кода.
type Participant struct {
	ID           string            `json:"id"`
	TournamentID string            `json:"tournament_id"`
	PlayerID     string            `json:"player_id"`
	Status       ParticipantStatus `json:"status"`
	CurrentStage int               `json:"current_stage"`
	Seed         *int              `json:"seed,omitempty"`
	RegisteredAt time.Time         `json:"registration_date"`
}
