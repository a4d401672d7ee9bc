// auth.go проверяет сессию и роль на защищённых маршрутах.
// RequireSession кладёт *model.AuthUser в контекст,
// RequireRole проверяет роль пользователя из контекста.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/bigkaa/vouemprovas/internal/api/errors"
	"github.com/bigkaa/vouemprovas/internal/auth"
	"github.com/bigkaa/vouemprovas/internal/domain/model"
	"github.com/bigkaa/vouemprovas/internal/domain/rbac"
)

// contextKey отделяет ключи пакета от чужих ключей контекста.
type contextKey string

// ContextKeyUser хранит *model.AuthUser в контексте запроса.
const ContextKeyUser contextKey = "auth_user"

// SessionValidator проверяет session token и возвращает пользователя.
type SessionValidator interface {
	Validate(token string) (*model.AuthUser, error)
}

// RequireSession возвращает middleware, требующий валидную сессию.
// Токен берётся из cookie auth_token или заголовка Authorization: Bearer.
// Если токена нет или он невалиден, ответ 401 и обработчик не вызывается.
func RequireSession(sessions SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	log := logger.With(slog.String("component", "session_auth"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.TokenFromRequest(r)
			if token == "" {
				apierrors.Unauthorized(w, "Требуется вход в систему")
				return
			}

			user, err := sessions.Validate(token)
			if err != nil {
				log.Debug("Сессия отклонена",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				apierrors.Unauthorized(w, "Сессия недействительна или истекла")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireRole возвращает middleware, пропускающий только перечисленные роли.
// Без пользователя в контексте ответ 401. Если роль не из списка, ответ 403.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				apierrors.Unauthorized(w, "Отсутствует пользователь в контексте")
				return
			}

			if !rbac.HasAnyRole(user.Role, roles...) {
				apierrors.Forbidden(w, fmt.Sprintf("Недостаточно прав: требуется роль %s", strings.Join(roles, " или ")))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithUser возвращает контекст с пользователем.
func WithUser(ctx context.Context, user *model.AuthUser) context.Context {
	return context.WithValue(ctx, ContextKeyUser, user)
}

// UserFromContext извлекает пользователя из контекста.
// Возвращает nil, если запрос не прошёл RequireSession.
func UserFromContext(ctx context.Context) *model.AuthUser {
	user, _ := ctx.Value(ContextKeyUser).(*model.AuthUser)
	return user
}
