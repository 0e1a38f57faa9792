package models

import "time"

type UserRole string

const (
	RolePlayer UserRole = "player"
	RoleAdmin  UserRole = "admin"
)

// Profile соответствует строке таблицы profiles.
type Profile struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	FullName         *string   `json:"full_name,omitempty"`
	AvatarKey        *string   `json:"-"`
	AvatarURL        *string   `json:"avatar_url,omitempty"`
	Bio              *string   `json:"bio,omitempty"`
	Country          *string   `json:"country,omitempty"`
	Level            int       `json:"level"`
	ExperiencePoints int       `json:"experience_points"`
	IsAdmin          bool      `json:"is_admin"`
	IsVerified       bool      `json:"is_verified"`
	CreatedAt        time.Time `json:"created_at"`
}

// CurrentUser — проекция профиля для авторизованного запроса.
// Отсутствие профиля при валидном токене трактуется как разлогиненный пользователь.
type CurrentUser struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
	Level    int      `json:"level"`
	Avatar   string   `json:"avatar"`
	IsAdmin  bool     `json:"is_admin"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PlayerProfile — агрегированный публичный профиль игрока.
type PlayerProfile struct {
	ID           string                `json:"id"`
	Username     string                `json:"username"`
	Avatar       string                `json:"avatar"`
	Level        int                   `json:"level"`
	Country      *string               `json:"country,omitempty"`
	JoinedAt     time.Time             `json:"joined_at"`
	GameRatings  map[string]int        `json:"game_ratings"`
	Achievements []PlayerAchievement   `json:"achievements"`
	Tournaments  []PlayerTournamentRef `json:"tournaments"`
}

// PlayerTournamentRef — участие игрока в турнире для истории профиля.
type PlayerTournamentRef struct {
	TournamentID string    `json:"tournament_id"`
	Name         string    `json:"name"`
	Game         string    `json:"game"`
	StartDate    time.Time `json:"start_date"`
	Result       string    `json:"result"`
}
