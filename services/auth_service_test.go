package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playgrid/arena-system/models"
)

const testJWTSecret = "test-secret"

func newAuthServiceForTest(repo *fakeProfileRepo) AuthService {
	session := NewSessionService(repo, &fakeUploader{})
	return NewAuthService(repo, session, testJWTSecret)
}

func TestRegisterIssuesToken(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*models.Profile{}}
	svc := newAuthServiceForTest(repo)

	token, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.NotNil(t, token.User)
	assert.Equal(t, "alice", token.User.Username)
	assert.Equal(t, "alice@example.com", token.User.Email)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, token.User.ID, claims["user_id"])
	assert.Equal(t, "player", claims["role"])
}

func TestRegisterValidation(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*models.Profile{}}
	svc := newAuthServiceForTest(repo)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "longenough"})
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = svc.Register(context.Background(), RegisterInput{Username: "alice", Email: "a@b.c", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*models.Profile{}}
	svc := newAuthServiceForTest(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), models.Credentials{
		Email:    "alice@example.com",
		Password: "wrong horse",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthServiceForTest(&fakeProfileRepo{profiles: map[string]*models.Profile{}})

	_, err := svc.Login(context.Background(), models.Credentials{
		Email:    "nobody@example.com",
		Password: "whatever1",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRoundTrip(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*models.Profile{}}
	svc := newAuthServiceForTest(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), models.Credentials{
		Email:    "ALICE@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", token.User.Username)
}
