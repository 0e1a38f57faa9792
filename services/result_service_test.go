package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playgrid/arena-system/models"
	"github.com/playgrid/arena-system/repositories"
	"github.com/playgrid/arena-system/storage"
)

type fakeResultRepo struct {
	results    map[string]*models.MatchResult
	pending    []models.PendingResult
	createErr  error
	reviewErr  error
	created    []*models.MatchResult
	reviewedID string
}

func (f *fakeResultRepo) Create(ctx context.Context, exec repositories.SQLExecutor, result *models.MatchResult) error {
	if f.createErr != nil {
		return f.createErr
	}
	result.ID = "result-1"
	result.CreatedAt = time.Now()
	f.created = append(f.created, result)
	if f.results == nil {
		f.results = map[string]*models.MatchResult{}
	}
	f.results[result.ID] = result
	return nil
}

func (f *fakeResultRepo) GetByID(ctx context.Context, id string) (*models.MatchResult, error) {
	result, ok := f.results[id]
	if !ok {
		return nil, repositories.ErrResultNotFound
	}
	copied := *result
	return &copied, nil
}

func (f *fakeResultRepo) ListPending(ctx context.Context) ([]models.PendingResult, error) {
	return f.pending, nil
}

func (f *fakeResultRepo) Review(ctx context.Context, id string, status models.ResultStatus, reviewerID string, reviewDate time.Time, rejectionReason *string) error {
	if f.reviewErr != nil {
		return f.reviewErr
	}
	result, ok := f.results[id]
	if !ok {
		return repositories.ErrResultNotFound
	}
	if result.Status != models.ResultStatusPending {
		return repositories.ErrResultNotPending
	}
	result.Status = status
	result.ReviewedBy = &reviewerID
	result.ReviewDate = &reviewDate
	result.RejectionReason = rejectionReason
	f.reviewedID = id
	return nil
}

type fakeMatchRepo struct {
	matches map[string]*models.Match
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, id string) (*models.Match, error) {
	match, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return match, nil
}

func (f *fakeMatchRepo) ListByTournament(ctx context.Context, tournamentID string, status *models.MatchStatus) ([]models.Match, error) {
	return nil, nil
}

type fakeNotificationRepo struct {
	created []*models.Notification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, exec repositories.SQLExecutor, notification *models.Notification) error {
	f.created = append(f.created, notification)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	return nil
}

type fakeUploader struct {
	uploadErr error
	uploaded  []string
	deleted   []string
}

func (f *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploaded = append(f.uploaded, key)
	return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	if key == "" {
		return ""
	}
	return "https://cdn.example.com/" + key
}

type fakeNotifier struct {
	tournamentID string
	resultID     string
	approved     bool
	calls        int
}

func (f *fakeNotifier) ResultReviewed(ctx context.Context, tournamentID, resultID string, approved bool) {
	f.tournamentID = tournamentID
	f.resultID = resultID
	f.approved = approved
	f.calls++
}

func newResultServiceForTest(resultRepo *fakeResultRepo, matchRepo *fakeMatchRepo, notificationRepo *fakeNotificationRepo, uploader *fakeUploader, notifier *fakeNotifier) *resultService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewResultService(resultRepo, matchRepo, notificationRepo, uploader, notifier, logger).(*resultService)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func validEvidence() *EvidenceFile {
	return &EvidenceFile{
		Filename:    "proof.png",
		ContentType: "image/png",
		Size:        1024,
		Reader:      strings.NewReader("fake image bytes"),
	}
}

func testMatch() *models.Match {
	return &models.Match{
		ID:           "match-1",
		TournamentID: "tournament-1",
		Player1ID:    "player-1",
		Player2ID:    "player-2",
		Status:       models.MatchStatusInProgress,
	}
}

func TestSubmitResultCreatesPending(t *testing.T) {
	resultRepo := &fakeResultRepo{}
	matchRepo := &fakeMatchRepo{matches: map[string]*models.Match{"match-1": testMatch()}}
	uploader := &fakeUploader{}
	svc := newResultServiceForTest(resultRepo, matchRepo, &fakeNotificationRepo{}, uploader, &fakeNotifier{})

	result, err := svc.SubmitResult(context.Background(), "match-1", "player-1", SubmitResultInput{Result: models.ResultWin}, validEvidence())
	require.NoError(t, err)

	assert.Equal(t, models.ResultStatusPending, result.Status)
	assert.Equal(t, "player-1", result.SubmittedBy)
	require.NotNil(t, result.ScreenshotURL)

	require.Len(t, uploader.uploaded, 1)
	assert.True(t, strings.HasPrefix(uploader.uploaded[0], "screenshots/player-1_match-1_"))
	assert.True(t, strings.HasSuffix(uploader.uploaded[0], ".png"))
	assert.Empty(t, uploader.deleted)
}

func TestSubmitResultRejectsInvalidOutcome(t *testing.T) {
	resultRepo := &fakeResultRepo{}
	matchRepo := &fakeMatchRepo{matches: map[string]*models.Match{"match-1": testMatch()}}
	svc := newResultServiceForTest(resultRepo, matchRepo, &fakeNotificationRepo{}, &fakeUploader{}, &fakeNotifier{})

	_, err := svc.SubmitResult(context.Background(), "match-1", "player-1", SubmitResultInput{Result: "victory"}, validEvidence())
	assert.ErrorIs(t, err, ErrResultInvalidOutcome)
	assert.Empty(t, resultRepo.created)
}

func TestSubmitResultEvidenceValidation(t *testing.T) {
	tests := []struct {
		name     string
		evidence *EvidenceFile
		wantErr  error
	}{
		{name: "missing evidence", evidence: nil, wantErr: ErrEvidenceRequired},
		{
			name: "not an image",
			evidence: &EvidenceFile{
				Filename:    "proof.pdf",
				ContentType: "application/pdf",
				Size:        1024,
				Reader:      strings.NewReader("pdf"),
			},
			wantErr: ErrEvidenceNotImage,
		},
		{
			name: "over size limit",
			evidence: &EvidenceFile{
				Filename:    "proof.png",
				ContentType: "image/png",
				Size:        MaxEvidenceSize + 1,
				Reader:      strings.NewReader("huge"),
			},
			wantErr: ErrEvidenceTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resultRepo := &fakeResultRepo{}
			matchRepo := &fakeMatchRepo{matches: map[string]*models.Match{"match-1": testMatch()}}
			uploader := &fakeUploader{}
			svc := newResultServiceForTest(resultRepo, matchRepo, &fakeNotificationRepo{}, uploader, &fakeNotifier{})

			_, err := svc.SubmitResult(context.Background(), "match-1", "player-1", SubmitResultInput{Result: models.ResultWin}, tt.evidence)
			assert.ErrorIs(t, err, tt.wantErr)
			// Валидация отрабатывает до какого-либо I/O.
			assert.Empty(t, uploader.uploaded)
			assert.Empty(t, resultRepo.created)
		})
	}
}

func TestSubmitResultRejectsOutsider(t *testing.T) {
	resultRepo := &fakeResultRepo{}
	matchRepo := &fakeMatchRepo{matches: map[string]*models.Match{"match-1": testMatch()}}
	svc := newResultServiceForTest(resultRepo, matchRepo, &fakeNotificationRepo{}, &fakeUploader{}, &fakeNotifier{})

	_, err := svc.SubmitResult(context.Background(), "match-1", "player-3", SubmitResultInput{Result: models.ResultWin}, validEvidence())
	assert.ErrorIs(t, err, ErrResultSubmitterNotInMatch)
}

func TestSubmitResultUploadFailureLeavesNoRecord(t *testing.T) {
	resultRepo := &fakeResultRepo{}
	matchRepo := &fakeMatchRepo{matches: map[string]*models.Match{"match-1": testMatch()}}
	uploader := &fakeUploader{uploadErr: errors.New("r2 unavailable")}
	svc := newResultServiceForTest(resultRepo, matchRepo, &fakeNotificationRepo{}, uploader, &fakeNotifier{})

	_, err := svc.SubmitResult(context.Background(), "match-1", "player-1", SubmitResultInput{Result: models.ResultWin}, validEvidence())
	assert.ErrorIs(t, err, ErrEvidenceUploadFailed)
	assert.Empty(t, resultRepo.created)
}

func TestSubmitResultInsertFailureDeletesUpload(t *testing.T) {
	resultRepo := &fakeResultRepo{createErr: errors.New("insert failed")}
	matchRepo := &fakeMatchRepo{matches: map[string]*models.Match{"match-1": testMatch()}}
	uploader := &fakeUploader{}
	svc := newResultServiceForTest(resultRepo, matchRepo, &fakeNotificationRepo{}, uploader, &fakeNotifier{})

	_, err := svc.SubmitResult(context.Background(), "match-1", "player-1", SubmitResultInput{Result: models.ResultWin}, validEvidence())
	require.Error(t, err)

	// Загруженный объект подчищен, осиротевших скриншотов нет.
	require.Len(t, uploader.uploaded, 1)
	require.Len(t, uploader.deleted, 1)
	assert.Equal(t, uploader.uploaded[0], uploader.deleted[0])
}

func pendingResult(id string) *models.MatchResult {
	return &models.MatchResult{
		ID:          id,
		MatchID:     "match-1",
		SubmittedBy: "player-1",
		Result:      models.ResultWin,
		Status:      models.ResultStatusPending,
		CreatedAt:   time.Now(),
	}
}

func TestValidateResultApprove(t *testing.T) {
	resultRepo := &fakeResultRepo{results: map[string]*models.MatchResult{"result-1": pendingResult("result-1")}}
	matchRepo := &fakeMatchRepo{matches: map[string]*models.Match{"match-1": testMatch()}}
	notificationRepo := &fakeNotificationRepo{}
	notifier := &fakeNotifier{}
	svc := newResultServiceForTest(resultRepo, matchRepo, notificationRepo, &fakeUploader{}, notifier)

	reviewed, err := svc.ValidateResult(context.Background(), "result-1", true, "admin-1", "")
	require.NoError(t, err)

	assert.Equal(t, models.ResultStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, "admin-1", *reviewed.ReviewedBy)
	assert.NotNil(t, reviewed.ReviewDate)
	assert.Nil(t, reviewed.RejectionReason)

	require.Len(t, notificationRepo.created, 1)
	assert.Equal(t, models.NotificationResultApproved, notificationRepo.created[0].Type)
	assert.Equal(t, "player-1", notificationRepo.created[0].UserID)

	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, "tournament-1", notifier.tournamentID)
	assert.True(t, notifier.approved)
}

func TestValidateResultRejectRequiresReason(t *testing.T) {
	resultRepo := &fakeResultRepo{results: map[string]*models.MatchResult{"result-1": pendingResult("result-1")}}
	matchRepo := &fakeMatchRepo{matches: map[string]*models.Match{"match-1": testMatch()}}
	svc := newResultServiceForTest(resultRepo, matchRepo, &fakeNotificationRepo{}, &fakeUploader{}, &fakeNotifier{})

	_, err := svc.ValidateResult(context.Background(), "result-1", false, "admin-1", "   ")
	assert.ErrorIs(t, err, ErrResultReasonRequired)

	// Ошибка валидации не трогает запись.
	assert.Empty(t, resultRepo.reviewedID)
	assert.Equal(t, models.ResultStatusPending, resultRepo.results["result-1"].Status)
}

func TestValidateResultRejectStoresReason(t *testing.T) {
	resultRepo := &fakeResultRepo{results: map[string]*models.MatchResult{"result-1": pendingResult("result-1")}}
	matchRepo := &fakeMatchRepo{matches: map[string]*models.Match{"match-1": testMatch()}}
	notificationRepo := &fakeNotificationRepo{}
	svc := newResultServiceForTest(resultRepo, matchRepo, notificationRepo, &fakeUploader{}, &fakeNotifier{})

	reviewed, err := svc.ValidateResult(context.Background(), "result-1", false, "admin-1", "screenshot is unreadable")
	require.NoError(t, err)

	assert.Equal(t, models.ResultStatusRejected, reviewed.Status)
	require.NotNil(t, reviewed.RejectionReason)
	assert.Equal(t, "screenshot is unreadable", *reviewed.RejectionReason)

	require.Len(t, notificationRepo.created, 1)
	assert.Equal(t, models.NotificationResultRejected, notificationRepo.created[0].Type)
	assert.Contains(t, notificationRepo.created[0].Message, "screenshot is unreadable")
}

func TestValidateResultAlreadyReviewed(t *testing.T) {
	reviewedAt := time.Now()
	reviewer := "admin-1"
	result := pendingResult("result-1")
	result.Status = models.ResultStatusApproved
	result.ReviewedBy = &reviewer
	result.ReviewDate = &reviewedAt

	resultRepo := &fakeResultRepo{results: map[string]*models.MatchResult{"result-1": result}}
	matchRepo := &fakeMatchRepo{matches: map[string]*models.Match{"match-1": testMatch()}}
	svc := newResultServiceForTest(resultRepo, matchRepo, &fakeNotificationRepo{}, &fakeUploader{}, &fakeNotifier{})

	_, err := svc.ValidateResult(context.Background(), "result-1", false, "admin-2", "changed my mind")
	assert.ErrorIs(t, err, ErrResultAlreadyReviewed)

	// Первое решение остаётся нетронутым.
	assert.Equal(t, models.ResultStatusApproved, result.Status)
	assert.Equal(t, "admin-1", *result.ReviewedBy)
}

func TestValidateResultNotFound(t *testing.T) {
	resultRepo := &fakeResultRepo{results: map[string]*models.MatchResult{}}
	matchRepo := &fakeMatchRepo{matches: map[string]*models.Match{}}
	svc := newResultServiceForTest(resultRepo, matchRepo, &fakeNotificationRepo{}, &fakeUploader{}, &fakeNotifier{})

	_, err := svc.ValidateResult(context.Background(), "missing", true, "admin-1", "")
	assert.ErrorIs(t, err, ErrResultNotFound)
}

func TestListPendingResultsResolvesURLs(t *testing.T) {
	key := "screenshots/player-1_match-1_123.png"
	resultRepo := &fakeResultRepo{pending: []models.PendingResult{
		{
			MatchResult: models.MatchResult{ID: "result-1", ScreenshotKey: &key, Status: models.ResultStatusPending},
			Tournament:  "Spring Cup",
			Game:        "Chess",
			Player1:     models.PlayerSummary{ID: "player-1", Username: "alice"},
			Player2:     models.PlayerSummary{ID: "player-2", Username: "bob", Avatar: "avatars/bob.png"},
		},
	}}
	svc := newResultServiceForTest(resultRepo, &fakeMatchRepo{}, &fakeNotificationRepo{}, &fakeUploader{}, &fakeNotifier{})

	pending, err := svc.ListPendingResults(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NotNil(t, pending[0].ScreenshotURL)
	assert.Equal(t, "https://cdn.example.com/"+key, *pending[0].ScreenshotURL)
	assert.Equal(t, "/placeholder.svg?height=40&width=40", pending[0].Player1.Avatar)
	assert.Equal(t, "https://cdn.example.com/avatars/bob.png", pending[0].Player2.Avatar)
}

func TestParseOutcome(t *testing.T) {
	assert.Equal(t, models.ResultWin, ParseOutcome(" WIN "))
	assert.Equal(t, models.ResultLoss, ParseOutcome("loss"))
	assert.Equal(t, models.ResultDraw, ParseOutcome("Draw"))
	assert.Equal(t, models.ResultOutcome("victory"), ParseOutcome("victory"))
}

func TestOpposingOutcome(t *testing.T) {
	assert.Equal(t, models.ResultLoss, models.ResultWin.OpposingOutcome())
	assert.Equal(t, models.ResultWin, models.ResultLoss.OpposingOutcome())
	assert.Equal(t, models.ResultDraw, models.ResultDraw.OpposingOutcome())
}
