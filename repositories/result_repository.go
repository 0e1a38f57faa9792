package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/playgrid/arena-system/models"
)

var (
	ErrResultNotFound     = errors.New("match result not found")
	ErrResultNotPending   = errors.New("match result is not pending")
	ErrResultInvalidMatch = errors.New("invalid match reference")
)

type ResultRepository interface {
	Create(ctx context.Context, exec SQLExecutor, result *models.MatchResult) error
	GetByID(ctx context.Context, id string) (*models.MatchResult, error)
	ListPending(ctx context.Context) ([]models.PendingResult, error)
	// Review переводит pending-результат в терминальный статус. Предусловие
	// status = 'pending' выполняется в самом UPDATE, поэтому гонка двух
	// админов не может перезаписать уже вынесенное решение.
	Review(ctx context.Context, id string, status models.ResultStatus, reviewerID string, reviewDate time.Time, rejectionReason *string) error
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

func (r *postgresResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresResultRepository) Create(ctx context.Context, exec SQLExecutor, res *models.MatchResult) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_results (match_id, submitted_by, result, score, notes, screenshot_key, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		res.MatchID, res.SubmittedBy, res.Result, res.Score, res.Notes, res.ScreenshotKey, res.Status,
	).Scan(&res.ID, &res.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrResultInvalidMatch
		}
		return fmt.Errorf("failed to insert match result: %w", err)
	}
	return nil
}

const resultColumns = `id, match_id, submitted_by, result, score, notes, screenshot_key,
	status, reviewed_by, review_date, rejection_reason, created_at`

func (r *postgresResultRepository) GetByID(ctx context.Context, id string) (*models.MatchResult, error) {
	query := `SELECT ` + resultColumns + ` FROM match_results WHERE id = $1`

	res := &models.MatchResult{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&res.ID, &res.MatchID, &res.SubmittedBy, &res.Result, &res.Score, &res.Notes, &res.ScreenshotKey,
		&res.Status, &res.ReviewedBy, &res.ReviewDate, &res.RejectionReason, &res.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to scan match result by id %s: %w", id, err)
	}
	return res, nil
}

// ListPending возвращает очередь модерации: pending-результаты с данными матча,
// турнира, игры и обоих игроков, старые заявки первыми.
func (r *postgresResultRepository) ListPending(ctx context.Context) ([]models.PendingResult, error) {
	query := `
		SELECT
			mr.id, mr.match_id, mr.submitted_by, mr.result, mr.score, mr.notes, mr.screenshot_key,
			mr.status, mr.reviewed_by, mr.review_date, mr.rejection_reason, mr.created_at,
			t.name, g.name,
			p1.id, p1.username, p1.avatar_key, p1.level,
			p2.id, p2.username, p2.avatar_key, p2.level
		FROM match_results mr
		JOIN matches m ON m.id = mr.match_id
		JOIN tournaments t ON t.id = m.tournament_id
		JOIN games g ON g.id = t.game_id
		JOIN profiles p1 ON p1.id = m.player1_id
		JOIN profiles p2 ON p2.id = m.player2_id
		WHERE mr.status = 'pending'
		ORDER BY mr.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending results: %w", err)
	}
	defer rows.Close()

	results := make([]models.PendingResult, 0)
	for rows.Next() {
		var pr models.PendingResult
		var p1Avatar, p2Avatar sql.NullString
		if scanErr := rows.Scan(
			&pr.ID, &pr.MatchID, &pr.SubmittedBy, &pr.Result, &pr.Score, &pr.Notes, &pr.ScreenshotKey,
			&pr.Status, &pr.ReviewedBy, &pr.ReviewDate, &pr.RejectionReason, &pr.CreatedAt,
			&pr.Tournament, &pr.Game,
			&pr.Player1.ID, &pr.Player1.Username, &p1Avatar, &pr.Player1.Level,
			&pr.Player2.ID, &pr.Player2.Username, &p2Avatar, &pr.Player2.Level,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan pending result row: %w", scanErr)
		}
		pr.Player1.Avatar = p1Avatar.String
		pr.Player2.Avatar = p2Avatar.String
		results = append(results, pr)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during pending result rows iteration: %w", err)
	}
	return results, nil
}

func (r *postgresResultRepository) Review(ctx context.Context, id string, status models.ResultStatus, reviewerID string, reviewDate time.Time, rejectionReason *string) error {
	query := `
		UPDATE match_results
		SET status = $1, reviewed_by = $2, review_date = $3, rejection_reason = $4, updated_at = now()
		WHERE id = $5 AND status = 'pending'`

	result, err := r.db.ExecContext(ctx, query, status, reviewerID, reviewDate, rejectionReason, id)
	if err != nil {
		return fmt.Errorf("failed to review match result %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		// Либо записи нет, либо она уже рассмотрена. Различаем для вызывающего.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrResultNotPending
	}
	return nil
}
