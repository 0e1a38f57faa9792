package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/playgrid/arena-system/models"
)

type AchievementRepository interface {
	ListByPlayer(ctx context.Context, playerID string) ([]models.PlayerAchievement, error)
}

type postgresAchievementRepository struct {
	db *sql.DB
}

func NewPostgresAchievementRepository(db *sql.DB) AchievementRepository {
	return &postgresAchievementRepository{db: db}
}

func (r *postgresAchievementRepository) ListByPlayer(ctx context.Context, playerID string) ([]models.PlayerAchievement, error) {
	query := `
		SELECT pa.id, a.name, a.description, COALESCE(g.name, ''), pa.earned_date
		FROM player_achievements pa
		JOIN achievements a ON a.id = pa.achievement_id
		LEFT JOIN games g ON g.id = a.game_id
		WHERE pa.player_id = $1
		ORDER BY pa.earned_date DESC`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements for player %s: %w", playerID, err)
	}
	defer rows.Close()

	achievements := make([]models.PlayerAchievement, 0)
	for rows.Next() {
		var a models.PlayerAchievement
		if scanErr := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Game, &a.EarnedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan achievement row: %w", scanErr)
		}
		achievements = append(achievements, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during achievement rows iteration: %w", err)
	}
	return achievements, nil
}
