// events.go обслуживает список событий, карточку события и смену статуса.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/vouemprovas/internal/api/errors"
	"github.com/bigkaa/vouemprovas/internal/domain/model"
	"github.com/bigkaa/vouemprovas/internal/service"
)

// maxStatusBody ограничивает тело запроса смены статуса.
const maxStatusBody = 4 << 10

// eventDetailResponse описывает ответ GET /api/eventos/{id}.
type eventDetailResponse struct {
	Event  *model.Event   `json:"evento"`
	Files  []*model.File  `json:"arquivos"`
	Photos []*model.Photo `json:"fotos"`
}

// updateStatusRequest описывает тело PATCH /api/eventos/{id}/status.
type updateStatusRequest struct {
	Status string `json:"status"`
}

// ListEvents отдаёт события с фильтрами when и query.
// GET /api/eventos
func (h *APIHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	events, err := h.events.ListEvents(r.Context(), service.EventFilter{
		When:  q.Get("when"),
		Query: q.Get("query"),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(events))
}

// GetEvent отдаёт событие с файлами и фото.
// GET /api/eventos/{id}
func (h *APIHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	detail, err := h.events.GetEventDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, eventDetailResponse{
		Event:  detail.Event,
		Files:  nonNil(detail.Files),
		Photos: nonNil(detail.Photos),
	})
}

// UpdateEventStatus меняет статус события. Доступно admin и editor.
// PATCH /api/eventos/{id}/status
func (h *APIHandler) UpdateEventStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxStatusBody)).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса")
		return
	}
	if req.Status == "" {
		apierrors.ValidationError(w, "Отсутствует status")
		return
	}

	if err := h.events.UpdateEventStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeSuccess(w)
}
