package models

import "time"

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	TournamentStatusUpcoming   TournamentStatus = "upcoming"
	TournamentStatusInProgress TournamentStatus = "in_progress"
	TournamentStatusCompleted  TournamentStatus = "completed"
)

// Tournament представляет турнир. Переходы статуса выполняются вне этого кода
// (внешние представления/триггеры БД).
type Tournament struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Slug              string           `json:"slug"`
	GameID            string           `json:"game_id"`
	Description       *string          `json:"description,omitempty"`
	Format            string           `json:"format"`
	PrizePool         *float64         `json:"prize_pool,omitempty"`
	MaxParticipants   int              `json:"max_participants"`
	RegistrationOpen  time.Time        `json:"registration_open_date"`
	RegistrationClose time.Time        `json:"registration_close_date"`
	StartDate         time.Time        `json:"start_date"`
	EndDate           *time.Time       `json:"end_date,omitempty"`
	Status            TournamentStatus `json:"status"`
	CreatedBy         string           `json:"created_by"`
	MinSkillLevel     *string          `json:"min_skill_level,omitempty"`
	ImageKey          *string          `json:"-"`
	ImageURL          *string          `json:"image_url,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

// TournamentSummary — турнир с джойнами и аннотацией регистрации для листингов.
// IsRegistered вычисляется на каждый запрос по id вызывающего пользователя;
// для анонимного запроса всегда false.
type TournamentSummary struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Slug                 string    `json:"slug"`
	Description          string    `json:"description"`
	Game                 string    `json:"game"`
	GameSlug             string    `json:"game_slug"`
	PrizePool            string    `json:"prize_pool"`
	CurrentParticipants  int       `json:"current_participants"`
	MaxParticipants      int       `json:"max_participants"`
	StartDate            time.Time `json:"start_date"`
	RegistrationDeadline time.Time `json:"registration_deadline"`
	Format               string    `json:"format"`
	SkillLevel           string    `json:"skill_level"`
	Image                string    `json:"image"`
	IsRegistered         bool      `json:"is_registered"`
}
