// files.go обслуживает список файлов и учёт просмотров.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/vouemprovas/internal/api/errors"
	"github.com/bigkaa/vouemprovas/internal/api/middleware"
)

// ListFiles отдаёт все файлы всех событий.
// GET /api/arquivos
func (h *APIHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.files.ListFiles(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(files))
}

// RecordView увеличивает счётчик просмотров файла и пишет журнал.
// В журнал попадает email из сессии.
// POST /api/arquivos/{id}/view
func (h *APIHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		apierrors.Unauthorized(w, "Требуется вход в систему")
		return
	}

	if err := h.files.IncrementViewCount(r.Context(), chi.URLParam(r, "id"), user.Email); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeSuccess(w)
}
