package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/playgrid/arena-system/models"
	"github.com/playgrid/arena-system/services"
)

type contextKey string

const currentUserContextKey contextKey = "current_user"

const (
	jwtClaimUserID = "user_id"
	jwtClaimRole   = "role"
)

type Auth struct {
	jwtSecret []byte
	session   services.SessionService
}

func NewAuth(jwtSecret string, session services.SessionService) *Auth {
	return &Auth{
		jwtSecret: []byte(jwtSecret),
		session:   session,
	}
}

// Authenticate требует валидный bearer-токен И существующую строку профиля.
// Токен без профиля равнозначен отсутствию сессии: дальше запрос не проходит.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.resolveRequestUser(r)
		if err != nil || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(withCurrentUser(r.Context(), user)))
	})
}

// OptionalAuthenticate разрешает анонимный доступ, но кладёт пользователя в
// контекст, если токен валиден. Используется листингами с аннотацией
// is_registered.
func (a *Auth) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := a.resolveRequestUser(r); err == nil && user != nil {
			r = r.WithContext(withCurrentUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin пускает дальше только профили с установленным is_admin.
// Ставится после Authenticate.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUserFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !user.IsAdmin {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Auth) resolveRequestUser(r *http.Request) (*models.CurrentUser, error) {
	tokenString := bearerToken(r)
	if tokenString == "" {
		return nil, nil
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	userID, ok := claims[jwtClaimUserID].(string)
	if !ok || userID == "" {
		return nil, errors.New("missing user_id claim in token")
	}

	user, err := a.session.Resolve(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			// Сессия есть, профиля нет — считаем запрос анонимным.
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func withCurrentUser(ctx context.Context, user *models.CurrentUser) context.Context {
	return context.WithValue(ctx, currentUserContextKey, user)
}

// CurrentUserFromContext возвращает пользователя запроса, если он есть.
func CurrentUserFromContext(ctx context.Context) (*models.CurrentUser, bool) {
	user, ok := ctx.Value(currentUserContextKey).(*models.CurrentUser)
	return user, ok && user != nil
}

// CurrentUserID возвращает id пользователя либо пустую строку для анонима.
func CurrentUserID(ctx context.Context) string {
	if user, ok := CurrentUserFromContext(ctx); ok {
		return user.ID
	}
	return ""
}
