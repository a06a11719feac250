package authmiddleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/ecoswap/ecoswap/internal/domain/models"
	"github.com/ecoswap/ecoswap/internal/lib/api"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const UserKey contextKey = "authUser"

// UserProvider - доступ к пользователям для проверки существования и активности.
type UserProvider interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// New создаёт middleware для проверки JWT, секрет берётся из переменной окружения.
// После проверки подписи пользователь загружается из БД: токен недействителен,
// если пользователь удалён или деактивирован (isActive - единственный механизм отзыва).
func New(log *slog.Logger, users UserProvider) func(http.Handler) http.Handler {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET is not set")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization (формат: "Bearer <token>")
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				api.Error(w, http.StatusUnauthorized, "missing token")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				api.Error(w, http.StatusUnauthorized, "invalid token format")
				return
			}
			tokenStr := parts[1]

			token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				api.Error(w, http.StatusUnauthorized, "invalid token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				api.Error(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			sub, ok := claims["sub"].(string)
			if !ok {
				api.Error(w, http.StatusUnauthorized, "invalid token claims: sub not found")
				return
			}

			userID, err := strconv.ParseInt(sub, 10, 64)
			if err != nil {
				api.Error(w, http.StatusUnauthorized, "invalid token claims: invalid user id")
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				log.Warn("token for unknown user", slog.Int64("userID", userID))
				api.Error(w, http.StatusUnauthorized, "invalid token")
				return
			}
			if !user.IsActive {
				api.Error(w, http.StatusForbidden, "account is deactivated")
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUserType пропускает только пользователей из allow-list ролей.
// Вешается после New, иначе в контексте нет пользователя.
func RequireUserType(userTypes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := FromContext(r.Context())
			if !ok {
				api.Error(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			for _, t := range userTypes {
				if user.UserType == t {
					next.ServeHTTP(w, r)
					return
				}
			}
			api.Error(w, http.StatusForbidden, "access denied")
		})
	}
}

// FromContext извлекает пользователя из контекста.
func FromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok
}
