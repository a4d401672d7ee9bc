// auth.go обслуживает вход через Google, выход и текущего пользователя.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/bigkaa/vouemprovas/internal/api/errors"
	"github.com/bigkaa/vouemprovas/internal/api/middleware"
	"github.com/bigkaa/vouemprovas/internal/auth"
	"github.com/bigkaa/vouemprovas/internal/domain/model"
)

// maxLoginBody ограничивает тело запроса входа.
const maxLoginBody = 64 << 10

// googleLoginRequest описывает тело POST /api/auth/google.
type googleLoginRequest struct {
	IDToken string `json:"idToken"`
}

// GoogleLogin обменивает Google ID token на сессию.
// POST /api/auth/google
func (h *APIHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBody)).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса")
		return
	}
	idToken := strings.TrimSpace(req.IDToken)
	if idToken == "" {
		apierrors.ValidationError(w, "Отсутствует idToken")
		return
	}

	identity, err := h.verifier.Verify(r.Context(), idToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidIdentityToken) {
			apierrors.Unauthorized(w, "Не удалось подтвердить Google ID token")
			return
		}
		h.logger.Error("Ошибка проверки Google ID token", slog.String("error", err.Error()))
		apierrors.Unauthorized(w, "Ошибка аутентификации")
		return
	}

	user := &model.AuthUser{
		Email: identity.Email,
		Name:  identity.Name,
		Role:  h.roles.Resolve(identity.Email),
	}

	token, err := h.sessions.Issue(user)
	if err != nil {
		h.logger.Error("Не удалось выпустить сессию", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Не удалось создать сессию")
		return
	}

	h.sessions.SetCookie(w, token)
	h.logger.Info("Пользователь вошёл",
		slog.String("email", user.Email),
		slog.String("role", user.Role),
	)
	writeJSON(w, http.StatusOK, user)
}

// Logout очищает session cookie. Сессия на сервере не хранится.
// POST /api/auth/logout
func (h *APIHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.sessions.ClearCookie(w)
	writeSuccess(w)
}

// Me возвращает пользователя текущей сессии.
// GET /api/auth/me
func (h *APIHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		apierrors.Unauthorized(w, "Требуется вход в систему")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
