package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/playgrid/arena-system/models"
)

var ErrGameNotFound = errors.New("game not found")

type GameRepository interface {
	List(ctx context.Context) ([]models.Game, error)
	GetBySlug(ctx context.Context, slug string) (*models.Game, error)
	GetByID(ctx context.Context, id string) (*models.Game, error)
	CountActivePlayers(ctx context.Context, gameID string) (int, error)
	CountActiveTournaments(ctx context.Context, gameID string) (int, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

const gameColumns = `id, name, slug, description, image_key, categories, platforms, features, is_active, created_at`

func (r *postgresGameRepository) List(ctx context.Context) ([]models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE is_active ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		var g models.Game
		if scanErr := scanGame(rows.Scan, &g); scanErr != nil {
			return nil, scanErr
		}
		games = append(games, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during game rows iteration: %w", err)
	}
	return games, nil
}

func (r *postgresGameRepository) GetBySlug(ctx context.Context, slug string) (*models.Game, error) {
	return r.getOne(ctx, "slug", slug)
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	return r.getOne(ctx, "id", id)
}

func (r *postgresGameRepository) getOne(ctx context.Context, column, value string) (*models.Game, error) {
	query := fmt.Sprintf(`SELECT `+gameColumns+` FROM games WHERE %s = $1`, column)

	g := &models.Game{}
	err := scanGame(r.db.QueryRowContext(ctx, query, value).Scan, g)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to scan game by %s: %w", column, err)
	}
	return g, nil
}

func (r *postgresGameRepository) CountActivePlayers(ctx context.Context, gameID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM player_game_stats WHERE game_id = $1`
	if err := r.db.QueryRowContext(ctx, query, gameID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players for game %s: %w", gameID, err)
	}
	return count, nil
}

func (r *postgresGameRepository) CountActiveTournaments(ctx context.Context, gameID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM tournaments WHERE game_id = $1 AND status IN ('upcoming', 'in_progress')`
	if err := r.db.QueryRowContext(ctx, query, gameID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tournaments for game %s: %w", gameID, err)
	}
	return count, nil
}

func scanGame(scan func(...interface{}) error, g *models.Game) error {
	return scan(
		&g.ID, &g.Name, &g.Slug, &g.Description, &g.ImageKey,
		pq.Array(&g.Categories), pq.Array(&g.Platforms), pq.Array(&g.Features),
		&g.IsActive, &g.CreatedAt,
	)
}
