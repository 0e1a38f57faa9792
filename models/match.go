package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusDisputed   MatchStatus = "disputed"
)

type Match struct {
	ID            string      `json:"id"`
	TournamentID  string      `json:"tournament_id"`
	StageID       *string     `json:"stage_id,omitempty"`
	Player1ID     string      `json:"player1_id"`
	Player2ID     string      `json:"player2_id"`
	ScheduledDate *time.Time  `json:"scheduled_date,omitempty"`
	Deadline      *time.Time  `json:"deadline,omitempty"`
	Status        MatchStatus `json:"status"`
	WinnerID      *string     `json:"winner_id,omitempty"`
	ResultType    *string     `json:"result_type,omitempty"`
	Score         *string     `json:"score,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// HasPlayer сообщает, участвует ли игрок в матче.
func (m *Match) HasPlayer(playerID string) bool {
	return m.Player1ID == playerID || m.Player2ID == playerID
}
