package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/playgrid/arena-system/models"
	"github.com/playgrid/arena-system/repositories"
)

const (
	bcryptCost        = 12
	minPasswordLength = 8
	tokenTTL          = 24 * time.Hour
)

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthToken — выданный JWT вместе с проекцией пользователя.
type AuthToken struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expires_at"`
	User      *models.CurrentUser `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthToken, error)
	Login(ctx context.Context, credentials models.Credentials) (*AuthToken, error)
}

type authService struct {
	profileRepo repositories.ProfileRepository
	session     SessionService
	jwtSecret   []byte
}

func NewAuthService(profileRepo repositories.ProfileRepository, session SessionService, jwtSecret string) AuthService {
	return &authService{
		profileRepo: profileRepo,
		session:     session,
		jwtSecret:   []byte(jwtSecret),
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*AuthToken, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.Profile{
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
		Level:        1,
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		switch {
		case errors.Is(err, repositories.ErrProfileEmailConflict):
			return nil, ErrEmailConflict
		case errors.Is(err, repositories.ErrProfileUsernameConflict):
			return nil, ErrUsernameConflict
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return s.issueToken(profile)
}

func (s *authService) Login(ctx context.Context, credentials models.Credentials) (*AuthToken, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(credentials.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load profile by email: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(credentials.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(profile)
}

func (s *authService) issueToken(profile *models.Profile) (*AuthToken, error) {
	expiresAt := time.Now().Add(tokenTTL)
	claims := jwt.MapClaims{
		"user_id": profile.ID,
		"role":    string(roleOf(profile)),
		"exp":     expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &AuthToken{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      s.session.Project(profile),
	}, nil
}

func roleOf(profile *models.Profile) models.UserRole {
	if profile.IsAdmin {
		return models.RoleAdmin
	}
	return models.RolePlayer
}
