// health.go содержит обработчики health endpoints:
//   - /health/live отвечает, пока процесс жив
//   - /api/health проверяет связь с Google Sheets и считает события
//   - /metrics отдаёт Prometheus метрики
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigkaa/vouemprovas/internal/config"
)

// serviceName возвращается в ответах health.
const serviceName = "vouemprovas"

// SheetsChecker читает таблицу и возвращает число событий.
type SheetsChecker interface {
	Health(ctx context.Context) (int, error)
}

// DependencyReporter отдаёт последнее известное состояние внешних зависимостей.
type DependencyReporter interface {
	Health() map[string]bool
}

// HealthHandler обслуживает health endpoints.
type HealthHandler struct {
	sheets      SheetsChecker
	deps        DependencyReporter
	promHandler http.Handler
	now         func() time.Time
}

// NewHealthHandler создаёт обработчик health endpoints.
// deps может быть nil, если мониторинг зависимостей выключен.
func NewHealthHandler(sheets SheetsChecker, deps DependencyReporter) *HealthHandler {
	return &HealthHandler{
		sheets:      sheets,
		deps:        deps,
		promHandler: promhttp.Handler(),
		now:         time.Now,
	}
}

// healthLiveResponse описывает ответ /health/live.
type healthLiveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

// sheetsHealthResponse описывает ответ /api/health.
type sheetsHealthResponse struct {
	Status           string          `json:"status"`
	Timestamp        string          `json:"timestamp"`
	SheetsConnection string          `json:"sheetsConnection"`
	EventsCount      *int            `json:"eventosCount,omitempty"`
	Error            string          `json:"error,omitempty"`
	Dependencies     map[string]bool `json:"dependencies,omitempty"`
}

// HealthLive всегда отвечает 200, пока процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthLiveResponse{
		Status:    "ok",
		Timestamp: h.timestamp(),
		Version:   config.Version,
		Service:   serviceName,
	})
}

// SheetsHealth читает лист событий и при ошибке Sheets API отвечает 500 unhealthy.
// Состояние зависимостей из фонового мониторинга добавляется к ответу,
// но на код ответа не влияет.
func (h *HealthHandler) SheetsHealth(w http.ResponseWriter, r *http.Request) {
	count, err := h.sheets.Health(r.Context())
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "unknown"
		}
		writeJSON(w, http.StatusInternalServerError, sheetsHealthResponse{
			Status:           "unhealthy",
			Timestamp:        h.timestamp(),
			SheetsConnection: "failed",
			Error:            msg,
			Dependencies:     h.dependencies(),
		})
		return
	}

	writeJSON(w, http.StatusOK, sheetsHealthResponse{
		Status:           "healthy",
		Timestamp:        h.timestamp(),
		SheetsConnection: "ok",
		EventsCount:      &count,
		Dependencies:     h.dependencies(),
	})
}

// GetMetrics отдаёт Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}

func (h *HealthHandler) dependencies() map[string]bool {
	if h.deps == nil {
		return nil
	}
	return h.deps.Health()
}

func (h *HealthHandler) timestamp() string {
	return h.now().UTC().Format(time.RFC3339Nano)
}
