package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playgrid/arena-system/models"
	"github.com/playgrid/arena-system/repositories"
)

type fakeProfileRepo struct {
	profiles map[string]*models.Profile
}

func (f *fakeProfileRepo) Create(ctx context.Context, profile *models.Profile) error {
	profile.ID = "profile-new"
	f.profiles[profile.ID] = profile
	return nil
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	return profile, nil
}

func (f *fakeProfileRepo) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	for _, profile := range f.profiles {
		if profile.Email == email {
			return profile, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

func (f *fakeProfileRepo) UpdateAvatarKey(ctx context.Context, id string, avatarKey *string) error {
	return nil
}

func (f *fakeProfileRepo) ListGameRatings(ctx context.Context, playerID string) (map[string]int, error) {
	return nil, nil
}

func TestSessionResolveMissingProfile(t *testing.T) {
	svc := NewSessionService(&fakeProfileRepo{profiles: map[string]*models.Profile{}}, &fakeUploader{})

	// Валидный токен без строки профиля — не сессия.
	_, err := svc.Resolve(context.Background(), "ghost-user")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestSessionResolveProjectsUser(t *testing.T) {
	avatarKey := "avatars/alice.png"
	repo := &fakeProfileRepo{profiles: map[string]*models.Profile{
		"user-1": {
			ID:        "user-1",
			Username:  "alice",
			Email:     "alice@example.com",
			Level:     7,
			AvatarKey: &avatarKey,
			IsAdmin:   true,
		},
	}}
	svc := NewSessionService(repo, &fakeUploader{})

	user, err := svc.Resolve(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, "https://cdn.example.com/avatars/alice.png", user.Avatar)
	assert.True(t, user.IsAdmin)
}

func TestSessionProjectPlaceholderAvatar(t *testing.T) {
	svc := NewSessionService(&fakeProfileRepo{profiles: map[string]*models.Profile{}}, &fakeUploader{})

	user := svc.Project(&models.Profile{ID: "user-1", Username: "bob", Level: 1})
	assert.Equal(t, models.RolePlayer, user.Role)
	assert.Equal(t, "/placeholder.svg?height=40&width=40", user.Avatar)
}
