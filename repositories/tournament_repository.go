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
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentSlugConflict = errors.New("tournament slug already exists")
	ErrTournamentInvalidGame  = errors.New("invalid game reference")
)

// TournamentRow — турнир с джойном игры и числом участников, как его
// возвращают листинговые запросы.
type TournamentRow struct {
	models.Tournament
	GameName            string
	GameSlug            string
	CurrentParticipants int
}

type ListTournamentsFilter struct {
	GameID *string
	Status *models.TournamentStatus
}

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, id string) (*TournamentRow, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]TournamentRow, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournaments (
			name, slug, game_id, description, format, prize_pool, max_participants,
			registration_open_date, registration_close_date, start_date, end_date,
			status, created_by, min_skill_level, image_key
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		t.Name, t.Slug, t.GameID, t.Description, t.Format, t.PrizePool, t.MaxParticipants,
		t.RegistrationOpen, t.RegistrationClose, t.StartDate, t.EndDate,
		t.Status, t.CreatedBy, t.MinSkillLevel, t.ImageKey,
	).Scan(&t.ID, &t.CreatedAt)

	return r.handleTournamentError(err)
}

const tournamentSelect = `
	SELECT
		t.id, t.name, t.slug, t.game_id, t.description, t.format, t.prize_pool,
		t.max_participants, t.registration_open_date, t.registration_close_date,
		t.start_date, t.end_date, t.status, t.created_by, t.min_skill_level,
		t.image_key, t.created_at,
		g.name, g.slug,
		(SELECT COUNT(*) FROM tournament_participants p WHERE p.tournament_id = t.id)
	FROM tournaments t
	JOIN games g ON g.id = t.game_id`

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*TournamentRow, error) {
	query := tournamentSelect + ` WHERE t.id = $1`

	row := &TournamentRow{}
	err := scanTournamentRow(r.db.QueryRowContext(ctx, query, id).Scan, row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament by id %s: %w", id, err)
	}
	return row, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]TournamentRow, error) {
	query := tournamentSelect + ` WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.GameID != nil {
		query += fmt.Sprintf(" AND t.game_id = $%d", argID)
		args = append(args, *filter.GameID)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND t.status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	// Списки отдаются уже отсортированными: ближайший старт первым.
	query += " ORDER BY t.start_date ASC, t.created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]TournamentRow, 0)
	for rows.Next() {
		var row TournamentRow
		if scanErr := scanTournamentRow(rows.Scan, &row); scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", scanErr)
		}
		tournaments = append(tournaments, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}

func scanTournamentRow(scan func(...interface{}) error, row *TournamentRow) error {
	return scan(
		&row.ID, &row.Name, &row.Slug, &row.GameID, &row.Description, &row.Format, &row.PrizePool,
		&row.MaxParticipants, &row.RegistrationOpen, &row.RegistrationClose,
		&row.StartDate, &row.EndDate, &row.Status, &row.CreatedBy, &row.MinSkillLevel,
		&row.ImageKey, &row.CreatedAt,
		&row.GameName, &row.GameSlug,
		&row.CurrentParticipants,
	)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "tournaments_slug_key":
			return ErrTournamentSlugConflict
		case "tournaments_game_id_fkey":
			return ErrTournamentInvalidGame
		}
	}
	return err
}
