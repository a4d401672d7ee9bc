package handlers

import (
	"net/http"

	"github.com/bigkaa/vouemprovas/internal/domain/model"
)

// statusResponse описывает ответ GET /api/status.
type statusResponse struct {
	TotalEvents   int               `json:"totalEventos"`
	TotalFiles    int               `json:"totalArquivos"`
	TotalViews    int               `json:"totalViews"`
	VideoCount    int               `json:"videoCount"`
	MiniGameCount int               `json:"miniGameCount"`
	RecentLogs    []model.RecentLog `json:"recentLogs"`
}

// GetStatus отдаёт сводку для дашборда администратора.
// GET /api/status
func (h *APIHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	summary, err := h.status.StatusSummary(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		TotalEvents:   summary.TotalEvents,
		TotalFiles:    summary.TotalFiles,
		TotalViews:    summary.TotalViews,
		VideoCount:    summary.VideoCount,
		MiniGameCount: summary.MiniGameCount,
		RecentLogs:    nonNil(summary.RecentLogs),
	})
}
