package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playgrid/arena-system/models"
	"github.com/playgrid/arena-system/services"
)

const testSecret = "test-secret"

type fakeSession struct {
	users map[string]*models.CurrentUser
}

func (f *fakeSession) Resolve(ctx context.Context, userID string) (*models.CurrentUser, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, services.ErrProfileNotFound
	}
	return user, nil
}

func (f *fakeSession) Project(profile *models.Profile) *models.CurrentUser {
	return &models.CurrentUser{ID: profile.ID, Username: profile.Username}
}

func signToken(t *testing.T, userID string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    "player",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func echoUserHandler(t *testing.T, gotUser **models.CurrentUser) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := CurrentUserFromContext(r.Context()); ok {
			*gotUser = user
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticatePassesUser(t *testing.T) {
	session := &fakeSession{users: map[string]*models.CurrentUser{
		"user-1": {ID: "user-1", Username: "alice"},
	}}
	auth := NewAuth(testSecret, session)

	var gotUser *models.CurrentUser
	handler := auth.Authenticate(echoUserHandler(t, &gotUser))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotUser)
	assert.Equal(t, "alice", gotUser.Username)
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	auth := NewAuth(testSecret, &fakeSession{users: map[string]*models.CurrentUser{}})
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Валидный токен без строки профиля равнозначен отсутствию сессии.
func TestAuthenticateRejectsTokenWithoutProfile(t *testing.T) {
	auth := NewAuth(testSecret, &fakeSession{users: map[string]*models.CurrentUser{}})
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "ghost-user"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsForgedToken(t *testing.T) {
	session := &fakeSession{users: map[string]*models.CurrentUser{
		"user-1": {ID: "user-1"},
	}}
	auth := NewAuth(testSecret, session)
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	claims := jwt.MapClaims{"user_id": "user-1", "exp": time.Now().Add(time.Hour).Unix()}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuthenticateAllowsAnonymous(t *testing.T) {
	auth := NewAuth(testSecret, &fakeSession{users: map[string]*models.CurrentUser{}})

	var gotUser *models.CurrentUser
	handler := auth.OptionalAuthenticate(echoUserHandler(t, &gotUser))

	req := httptest.NewRequest(http.MethodGet, "/tournaments", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotUser)
	assert.Empty(t, CurrentUserID(req.Context()))
}

func TestOptionalAuthenticateResolvesUser(t *testing.T) {
	session := &fakeSession{users: map[string]*models.CurrentUser{
		"user-1": {ID: "user-1", Username: "alice"},
	}}
	auth := NewAuth(testSecret, session)

	var gotUser *models.CurrentUser
	handler := auth.OptionalAuthenticate(echoUserHandler(t, &gotUser))

	req := httptest.NewRequest(http.MethodGet, "/tournaments", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotUser)
	assert.Equal(t, "user-1", gotUser.ID)
}

func TestRequireAdmin(t *testing.T) {
	session := &fakeSession{users: map[string]*models.CurrentUser{
		"admin-1":  {ID: "admin-1", IsAdmin: true},
		"player-1": {ID: "player-1"},
	}}
	auth := NewAuth(testSecret, session)

	reached := false
	handler := auth.Authenticate(auth.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})))

	req := httptest.NewRequest(http.MethodGet, "/admin/results/pending", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "player-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)

	req = httptest.NewRequest(http.MethodGet, "/admin/results/pending", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "admin-1"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}
