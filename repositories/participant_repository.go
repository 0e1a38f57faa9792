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
	ErrParticipantNotFound          = errors.New("participant registration not found")
	ErrParticipantAlreadyRegistered = errors.New("player is already registered for this tournament")
	ErrParticipantInvalidReference  = errors.New("invalid tournament or player reference")
)

type ParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, participant *models.Participant) error
	FindByPlayerAndTournament(ctx context.Context, playerID, tournamentID string) (*models.Participant, error)
	ListTournamentIDsByPlayer(ctx context.Context, playerID string) (map[string]struct{}, error)
	ListByPlayer(ctx context.Context, playerID string) ([]models.PlayerTournamentRef, error)
	CountByTournament(ctx context.Context, tournamentID string) (int, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresParticipantRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_participants (tournament_id, player_id, status, current_stage, seed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, registration_date`

	err := executor.QueryRowContext(ctx, query,
		p.TournamentID, p.PlayerID, p.Status, p.CurrentStage, p.Seed,
	).Scan(&p.ID, &p.RegisteredAt)

	return r.handleParticipantError(err)
}

func (r *postgresParticipantRepository) FindByPlayerAndTournament(ctx context.Context, playerID, tournamentID string) (*models.Participant, error) {
	query := `
		SELECT id, tournament_id, player_id, status, current_stage, seed, registration_date
		FROM tournament_participants
		WHERE player_id = $1 AND tournament_id = $2`

	p := &models.Participant{}
	err := r.db.QueryRowContext(ctx, query, playerID, tournamentID).Scan(
		&p.ID, &p.TournamentID, &p.PlayerID, &p.Status, &p.CurrentStage, &p.Seed, &p.RegisteredAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to scan participant: %w", err)
	}
	return p, nil
}

// ListTournamentIDsByPlayer возвращает множество турниров, где игрок зарегистрирован.
// Используется для аннотации is_registered в листингах.
func (r *postgresParticipantRepository) ListTournamentIDsByPlayer(ctx context.Context, playerID string) (map[string]struct{}, error) {
	query := `SELECT tournament_id FROM tournament_participants WHERE player_id = $1`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations for player %s: %w", playerID, err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", scanErr)
		}
		ids[id] = struct{}{}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during registration rows iteration: %w", err)
	}
	return ids, nil
}

func (r *postgresParticipantRepository) ListByPlayer(ctx context.Context, playerID string) ([]models.PlayerTournamentRef, error) {
	query := `
		SELECT t.id, t.name, g.name, t.start_date, p.status
		FROM tournament_participants p
		JOIN tournaments t ON t.id = p.tournament_id
		JOIN games g ON g.id = t.game_id
		WHERE p.player_id = $1
		ORDER BY t.start_date DESC`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments for player %s: %w", playerID, err)
	}
	defer rows.Close()

	refs := make([]models.PlayerTournamentRef, 0)
	for rows.Next() {
		var ref models.PlayerTournamentRef
		if scanErr := rows.Scan(&ref.TournamentID, &ref.Name, &ref.Game, &ref.StartDate, &ref.Result); scanErr != nil {
			return nil, fmt.Errorf("failed to scan player tournament row: %w", scanErr)
		}
		refs = append(refs, ref)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player tournament rows iteration: %w", err)
	}
	return refs, nil
}

func (r *postgresParticipantRepository) CountByTournament(ctx context.Context, tournamentID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM tournament_participants WHERE tournament_id = $1`
	if err := r.db.QueryRowContext(ctx, query, tournamentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count participants for tournament %s: %w", tournamentID, err)
	}
	return count, nil
}

func (r *postgresParticipantRepository) handleParticipantError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrParticipantAlreadyRegistered
		case "23503":
			return ErrParticipantInvalidReference
		}
	}
	return err
}
