package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/playgrid/arena-system/models"
)

var (
	ErrProfileNotFound         = errors.New("profile not found")
	ErrProfileEmailConflict    = errors.New("email address is already in use")
	ErrProfileUsernameConflict = errors.New("username is already in use")
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	UpdateAvatarKey(ctx context.Context, id string, avatarKey *string) error
	ListGameRatings(ctx context.Context, playerID string) (map[string]int, error)
}

type postgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

func (r *postgresProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (username, email, password_hash, level, experience_points, is_admin, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.Username, p.Email, p.PasswordHash, p.Level, p.ExperiencePoints, p.IsAdmin, p.IsVerified,
	).Scan(&p.ID, &p.CreatedAt)

	return r.handleProfileError(err)
}

func (r *postgresProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return r.getOne(ctx, "id", id)
}

func (r *postgresProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return r.getOne(ctx, "email", email)
}

func (r *postgresProfileRepository) getOne(ctx context.Context, column, value string) (*models.Profile, error) {
	query := fmt.Sprintf(`
		SELECT id, username, email, password_hash, full_name, avatar_key, bio, country,
		       level, experience_points, is_admin, is_verified, created_at
		FROM profiles
		WHERE %s = $1`, column)

	p := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&p.ID, &p.Username, &p.Email, &p.PasswordHash, &p.FullName, &p.AvatarKey, &p.Bio, &p.Country,
		&p.Level, &p.ExperiencePoints, &p.IsAdmin, &p.IsVerified, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to scan profile by %s: %w", column, err)
	}
	return p, nil
}

func (r *postgresProfileRepository) UpdateAvatarKey(ctx context.Context, id string, avatarKey *string) error {
	query := `UPDATE profiles SET avatar_key = $1, updated_at = now() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, avatarKey, id)
	if err != nil {
		return fmt.Errorf("failed to update avatar key for profile %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) ListGameRatings(ctx context.Context, playerID string) (map[string]int, error) {
	query := `
		SELECT g.slug, s.rating
		FROM player_game_stats s
		JOIN games g ON g.id = s.game_id
		WHERE s.player_id = $1`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query game ratings for player %s: %w", playerID, err)
	}
	defer rows.Close()

	ratings := make(map[string]int)
	for rows.Next() {
		var slug string
		var rating int
		if scanErr := rows.Scan(&slug, &rating); scanErr != nil {
			return nil, fmt.Errorf("failed to scan game rating row: %w", scanErr)
		}
		ratings[slug] = rating
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during game rating rows iteration: %w", err)
	}
	return ratings, nil
}

func (r *postgresProfileRepository) handleProfileError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "profiles_email_key":
			return ErrProfileEmailConflict
		case "profiles_username_key":
			return ErrProfileUsernameConflict
		}
	}
	return err
}
