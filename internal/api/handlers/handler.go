// handler.go собирает обработчики API в один тип.
// Объединяет доменные обработчики и делегирует запросы в сервисный слой.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/vouemprovas/internal/api/errors"
	"github.com/bigkaa/vouemprovas/internal/auth"
	"github.com/bigkaa/vouemprovas/internal/domain/model"
	"github.com/bigkaa/vouemprovas/internal/service"
)

// IdentityVerifier проверяет Google ID token.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*auth.Identity, error)
}

// SessionIssuer выпускает session token и управляет cookie.
type SessionIssuer interface {
	Issue(user *model.AuthUser) (string, error)
	SetCookie(w http.ResponseWriter, token string)
	ClearCookie(w http.ResponseWriter)
}

// RoleResolver сопоставляет email роли.
type RoleResolver interface {
	Resolve(email string) string
}

// APIHandler объединяет все обработчики API.
type APIHandler struct {
	health   *HealthHandler
	verifier IdentityVerifier
	sessions SessionIssuer
	roles    RoleResolver
	events   *service.EventService
	files    *service.FileService
	status   *service.StatusService
	logger   *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	verifier IdentityVerifier,
	sessions SessionIssuer,
	roles RoleResolver,
	events *service.EventService,
	files *service.FileService,
	status *service.StatusService,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:   health,
		verifier: verifier,
		sessions: sessions,
		roles:    roles,
		events:   events,
		files:    files,
		status:   status,
		logger:   logger.With(slog.String("component", "api_handler")),
	}
}

// HealthLive делегирует в HealthHandler.
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// SheetsHealth делегирует в HealthHandler.
func (h *APIHandler) SheetsHealth(w http.ResponseWriter, r *http.Request) {
	h.health.SheetsHealth(w, r)
}

// GetMetrics делегирует в HealthHandler.
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// successResponse возвращают мутации, которым нечего отдавать.
type successResponse struct {
	Success bool `json:"success"`
}

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeSuccess записывает {"success": true}.
func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// nonNil гарантирует, что пустой список сериализуется как [], а не null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// handleServiceError преобразует ошибку сервисного слоя в HTTP-ответ.
// Ошибки Sheets API отдаются как 500 UPSTREAM_ERROR с исходным сообщением.
func (h *APIHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, err.Error())
	case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrInvalidBucket):
		apierrors.ValidationError(w, err.Error())
	default:
		h.logger.Error("Ошибка обращения к таблице",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		apierrors.UpstreamError(w, err.Error())
	}
}
