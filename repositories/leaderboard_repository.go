package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/playgrid/arena-system/models"
)

// LeaderboardRepository читает предвычисленные представления БД.
// Ранжирование, продвижение по сетке и рейтинги считаются на стороне базы;
// этот код их только читает.
type LeaderboardRepository interface {
	GameLeaderboard(ctx context.Context, gameID string) ([]models.GameLeaderboardRow, error)
	TournamentLeaderboard(ctx context.Context, tournamentID string) ([]models.TournamentLeaderboardRow, error)
	LiveGames(ctx context.Context) ([]models.LiveGame, error)
	AdvancingPlayers(ctx context.Context) ([]models.AdvancingPlayer, error)
}

type postgresLeaderboardRepository struct {
	db *sql.DB
}

func NewPostgresLeaderboardRepository(db *sql.DB) LeaderboardRepository {
	return &postgresLeaderboardRepository{db: db}
}

func (r *postgresLeaderboardRepository) GameLeaderboard(ctx context.Context, gameID string) ([]models.GameLeaderboardRow, error) {
	query := `
		SELECT game_id, game_name, player_id, username, avatar_url, level, country,
		       rating, wins, losses, draws, tournaments_played, tournaments_won, rank
		FROM game_leaderboards
		WHERE game_id = $1
		ORDER BY rank ASC`

	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query game leaderboard %s: %w", gameID, err)
	}
	defer rows.Close()

	board := make([]models.GameLeaderboardRow, 0)
	for rows.Next() {
		var row models.GameLeaderboardRow
		var avatar sql.NullString
		if scanErr := rows.Scan(
			&row.GameID, &row.GameName, &row.PlayerID, &row.Username, &avatar, &row.Level, &row.Country,
			&row.Rating, &row.Wins, &row.Losses, &row.Draws, &row.TournamentsPlayed, &row.TournamentsWon, &row.Rank,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan game leaderboard row: %w", scanErr)
		}
		row.Avatar = avatar.String
		board = append(board, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during game leaderboard rows iteration: %w", err)
	}
	return board, nil
}

func (r *postgresLeaderboardRepository) TournamentLeaderboard(ctx context.Context, tournamentID string) ([]models.TournamentLeaderboardRow, error) {
	query := `
		SELECT tournament_id, tournament_name, game_name, player_id, username, avatar_url,
		       level, wins, losses, draws, current_stage, status, rank
		FROM tournament_leaderboards
		WHERE tournament_id = $1
		ORDER BY rank ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournament leaderboard %s: %w", tournamentID, err)
	}
	defer rows.Close()

	board := make([]models.TournamentLeaderboardRow, 0)
	for rows.Next() {
		var row models.TournamentLeaderboardRow
		var avatar sql.NullString
		if scanErr := rows.Scan(
			&row.TournamentID, &row.TournamentName, &row.GameName, &row.PlayerID, &row.Username, &avatar,
			&row.Level, &row.Wins, &row.Losses, &row.Draws, &row.CurrentStage, &row.Status, &row.Rank,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament leaderboard row: %w", scanErr)
		}
		row.Avatar = avatar.String
		board = append(board, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament leaderboard rows iteration: %w", err)
	}
	return board, nil
}

func (r *postgresLeaderboardRepository) LiveGames(ctx context.Context) ([]models.LiveGame, error) {
	query := `
		SELECT id, tournament_id, tournament_name, game_name, game_slug,
		       player1_id, player1_username, player1_avatar, player1_level,
		       player2_id, player2_username, player2_avatar, player2_level,
		       scheduled_date, status
		FROM live_games`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query live games: %w", err)
	}
	defer rows.Close()

	games := make([]models.LiveGame, 0)
	for rows.Next() {
		var g models.LiveGame
		var p1Avatar, p2Avatar sql.NullString
		var scheduled sql.NullTime
		if scanErr := rows.Scan(
			&g.ID, &g.TournamentID, &g.Tournament, &g.Game, &g.GameSlug,
			&g.Player1.ID, &g.Player1.Username, &p1Avatar, &g.Player1.Level,
			&g.Player2.ID, &g.Player2.Username, &p2Avatar, &g.Player2.Level,
			&scheduled, &g.Status,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan live game row: %w", scanErr)
		}
		g.Player1.Avatar = p1Avatar.String
		g.Player2.Avatar = p2Avatar.String
		if scheduled.Valid {
			g.StartTime = scheduled.Time
		} else {
			g.StartTime = time.Now()
		}
		games = append(games, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during live game rows iteration: %w", err)
	}
	return games, nil
}

func (r *postgresLeaderboardRepository) AdvancingPlayers(ctx context.Context) ([]models.AdvancingPlayer, error) {
	query := `
		SELECT id, player_id, username, avatar_url, level,
		       tournament_id, tournament_name, game_name, game_slug,
		       current_stage, current_stage_name, advanced_at
		FROM advancing_players
		ORDER BY advanced_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query advancing players: %w", err)
	}
	defer rows.Close()

	players := make([]models.AdvancingPlayer, 0)
	for rows.Next() {
		var p models.AdvancingPlayer
		var avatar sql.NullString
		if scanErr := rows.Scan(
			&p.ID, &p.PlayerID, &p.Username, &avatar, &p.Level,
			&p.TournamentID, &p.Tournament, &p.Game, &p.GameSlug,
			&p.CurrentStage, &p.NextStage, &p.AdvancedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan advancing player row: %w", scanErr)
		}
		p.Avatar = avatar.String
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during advancing player rows iteration: %w", err)
	}
	return players, nil
}
