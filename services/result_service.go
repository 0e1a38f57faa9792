package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/playgrid/arena-system/models"
	"github.com/playgrid/arena-system/repositories"
	"github.com/playgrid/arena-system/storage"
)

// MaxEvidenceSize — предел размера скриншота-доказательства (5 MiB).
const MaxEvidenceSize = 5 << 20

// EvidenceFile — загружаемый скриншот результата.
type EvidenceFile struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// SubmitResultInput — заявляемый исход с точки зрения отправителя.
type SubmitResultInput struct {
	Result models.ResultOutcome `json:"result"`
	Score  *string              `json:"score,omitempty"`
	Notes  *string              `json:"notes,omitempty"`
}

// StandingsNotifier — внешний коллаборатор, которого дёргаем после решения
// по результату. Продвижение по сетке и пересчёт рейтингов выполняются
// представлениями БД; здесь только сигнал клиентам перечитать их.
type StandingsNotifier interface {
	ResultReviewed(ctx context.Context, tournamentID, resultID string, approved bool)
}

type ResultService interface {
	SubmitResult(ctx context.Context, matchID, submitterID string, input SubmitResultInput, evidence *EvidenceFile) (*models.MatchResult, error)
	ValidateResult(ctx context.Context, resultID string, approve bool, adminID string, reason string) (*models.MatchResult, error)
	ListPendingResults(ctx context.Context) ([]models.PendingResult, error)
}

type resultService struct {
	resultRepo       repositories.ResultRepository
	matchRepo        repositories.MatchRepository
	notificationRepo repositories.NotificationRepository
	uploader         storage.FileUploader
	notifier         StandingsNotifier
	logger           *slog.Logger
	now              func() time.Time
}

func NewResultService(
	resultRepo repositories.ResultRepository,
	matchRepo repositories.MatchRepository,
	notificationRepo repositories.NotificationRepository,
	uploader storage.FileUploader,
	notifier StandingsNotifier,
	logger *slog.Logger,
) ResultService {
	return &resultService{
		resultRepo:       resultRepo,
		matchRepo:        matchRepo,
		notificationRepo: notificationRepo,
		uploader:         uploader,
		notifier:         notifier,
		logger:           logger,
		now:              time.Now,
	}
}

// SubmitResult валидирует заявку, грузит скриншот и создаёт pending-запись.
// Порядок строгий: сначала загрузка, затем вставка — при падении загрузки
// записи не остаётся, осиротевший результат без доказательства невозможен.
func (s *resultService) SubmitResult(ctx context.Context, matchID, submitterID string, input SubmitResultInput, evidence *EvidenceFile) (*models.MatchResult, error) {
	switch input.Result {
	case models.ResultWin, models.ResultLoss, models.ResultDraw:
	default:
		return nil, ErrResultInvalidOutcome
	}

	if evidence == nil || evidence.Reader == nil {
		return nil, ErrEvidenceRequired
	}
	if !strings.HasPrefix(evidence.ContentType, "image/") {
		return nil, ErrEvidenceNotImage
	}
	if evidence.Size > MaxEvidenceSize {
		return nil, ErrEvidenceTooLarge
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %s: %w", matchID, err)
	}
	if !match.HasPlayer(submitterID) {
		return nil, ErrResultSubmitterNotInMatch
	}

	key := s.evidenceKey(submitterID, matchID, evidence.Filename)
	uploaded, err := s.uploader.Upload(ctx, key, evidence.ContentType, evidence.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEvidenceUploadFailed, err)
	}

	result := &models.MatchResult{
		MatchID:       matchID,
		SubmittedBy:   submitterID,
		Result:        input.Result,
		Score:         input.Score,
		Notes:         input.Notes,
		ScreenshotKey: &uploaded.Key,
		Status:        models.ResultStatusPending,
	}

	if err := s.resultRepo.Create(ctx, nil, result); err != nil {
		// Вставка не удалась — убираем уже загруженный скриншот, чтобы
		// не копить объекты без записей. Ошибку удаления только логируем.
		if delErr := s.uploader.Delete(ctx, uploaded.Key); delErr != nil {
			s.logger.Error("failed to delete orphaned evidence object",
				slog.String("key", uploaded.Key), slog.Any("error", delErr))
		}
		if errors.Is(err, repositories.ErrResultInvalidMatch) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to insert match result: %w", err)
	}

	location := uploaded.Location
	result.ScreenshotURL = &location
	return result, nil
}

// evidenceKey строит имя объекта из отправителя, матча и момента подачи,
// чтобы повторные подачи не коллидировали.
func (s *resultService) evidenceKey(submitterID, matchID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".png"
	}
	return fmt.Sprintf("screenshots/%s_%s_%d%s", submitterID, matchID, s.now().UnixNano(), ext)
}

// ValidateResult переводит pending-результат в терминальный статус.
// Повторная валидация уже рассмотренного результата отклоняется, а не
// перезаписывается: предусловие по статусу выполняется в UPDATE.
func (s *resultService) ValidateResult(ctx context.Context, resultID string, approve bool, adminID string, reason string) (*models.MatchResult, error) {
	reason = strings.TrimSpace(reason)
	if !approve && reason == "" {
		return nil, ErrResultReasonRequired
	}

	status := models.ResultStatusApproved
	var rejectionReason *string
	if !approve {
		status = models.ResultStatusRejected
		rejectionReason = &reason
	}

	err := s.resultRepo.Review(ctx, resultID, status, adminID, s.now().UTC(), rejectionReason)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrResultNotFound):
			return nil, ErrResultNotFound
		case errors.Is(err, repositories.ErrResultNotPending):
			return nil, ErrResultAlreadyReviewed
		}
		return nil, fmt.Errorf("failed to review result %s: %w", resultID, err)
	}

	reviewed, err := s.resultRepo.GetByID(ctx, resultID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload reviewed result %s: %w", resultID, err)
	}

	s.afterReview(ctx, reviewed, approve, reason)
	return reviewed, nil
}

// afterReview уведомляет отправителя и сигналит коллаборатору standings.
// Ошибки здесь не откатывают уже вынесенное решение.
func (s *resultService) afterReview(ctx context.Context, result *models.MatchResult, approved bool, reason string) {
	notification := &models.Notification{
		UserID:            result.SubmittedBy,
		RelatedEntityID:   &result.ID,
		RelatedEntityType: strPtr("match_result"),
	}
	if approved {
		notification.Title = "Result approved"
		notification.Message = "Your submitted match result has been approved."
		notification.Type = models.NotificationResultApproved
	} else {
		notification.Title = "Result rejected"
		notification.Message = "Your submitted match result was rejected: " + reason
		notification.Type = models.NotificationResultRejected
	}
	if err := s.notificationRepo.Create(ctx, nil, notification); err != nil {
		s.logger.Error("failed to create review notification",
			slog.String("result_id", result.ID), slog.Any("error", err))
	}

	if s.notifier != nil {
		match, err := s.matchRepo.GetByID(ctx, result.MatchID)
		if err != nil {
			s.logger.Error("failed to load match for standings notification",
				slog.String("match_id", result.MatchID), slog.Any("error", err))
			return
		}
		s.notifier.ResultReviewed(ctx, match.TournamentID, result.ID, approved)
	}
}

// ListPendingResults возвращает очередь модерации FIFO с публичными URL
// скриншотов и аватаров.
func (s *resultService) ListPendingResults(ctx context.Context) ([]models.PendingResult, error) {
	pending, err := s.resultRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending results: %w", err)
	}
	for i := range pending {
		if pending[i].ScreenshotKey != nil {
			url := s.uploader.GetPublicURL(*pending[i].ScreenshotKey)
			pending[i].ScreenshotURL = &url
		}
		pending[i].Player1.Avatar = s.avatarURL(pending[i].Player1.Avatar)
		pending[i].Player2.Avatar = s.avatarURL(pending[i].Player2.Avatar)
	}
	return pending, nil
}

func (s *resultService) avatarURL(key string) string {
	if key == "" {
		return placeholderAvatar
	}
	if url := s.uploader.GetPublicURL(key); url != "" {
		return url
	}
	return placeholderAvatar
}

func strPtr(s string) *string { return &s }

// ParseOutcome нормализует пользовательский ввод исхода. Невалидные значения
// не отбрасываются здесь: их отсечёт валидация сабмита.
func ParseOutcome(raw string) models.ResultOutcome {
	return models.ResultOutcome(strings.ToLower(strings.TrimSpace(raw)))
}
