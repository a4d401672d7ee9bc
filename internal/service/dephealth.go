// dephealth.go подключает topologymetrics SDK для мониторинга зависимостей.
//
// Сервис мониторит:
//   - Google JWKS, ключи для проверки ID token (HTTP GET, critical)
//   - Google Sheets API, единственное хранилище данных (HTTP GET discovery, critical)
//
// Метрики доступны на /metrics вместе с остальными Prometheus-метриками:
//   - app_dependency_health, состояние зависимости (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds, задержка проверки
//   - app_dependency_status, категория статуса
//   - app_dependency_status_detail, детальный статус
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // регистрация HTTP checker factory
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultSheetsProbeURL указывает на discovery-документ Sheets API.
// Он отвечает 200 без авторизации.
const DefaultSheetsProbeURL = "https://sheets.googleapis.com/$discovery/rest?version=v4"

// DephealthService мониторит зависимости через topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService создаёт сервис мониторинга зависимостей.
// Метрики регистрируются в глобальном Prometheus registry.
//
// Параметры:
//   - serviceID, имя вершины графа текущего приложения ("vouemprovas")
//   - group, имя группы в метриках (VEP_DEPHEALTH_GROUP)
//   - jwksURL, URL Google JWKS (VEP_GOOGLE_JWKS_URL)
//   - sheetsProbeURL, URL, по которому проверяется доступность Sheets API
//   - checkInterval, интервал проверки (VEP_DEPHEALTH_CHECK_INTERVAL)
func NewDephealthService(
	serviceID string,
	group string,
	jwksURL string,
	sheetsProbeURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, jwksURL, sheetsProbeURL, checkInterval, logger)
}

// NewDephealthServiceWithRegisterer создаёт сервис с указанным Prometheus registerer.
// Используется в тестах для изоляции метрик.
func NewDephealthServiceWithRegisterer(
	serviceID string,
	group string,
	jwksURL string,
	sheetsProbeURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, jwksURL, sheetsProbeURL, checkInterval,
		logger, dephealth.WithRegisterer(registerer))
}

func newDephealthService(
	serviceID string,
	group string,
	jwksURL string,
	sheetsProbeURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	extraOpts ...dephealth.Option,
) (*DephealthService, error) {
	jwksOpts, err := httpDependencyOptions(jwksURL, checkInterval)
	if err != nil {
		return nil, fmt.Errorf("google-jwks: %w", err)
	}
	sheetsOpts, err := httpDependencyOptions(sheetsProbeURL, checkInterval)
	if err != nil {
		return nil, fmt.Errorf("google-sheets: %w", err)
	}

	opts := make([]dephealth.Option, 0, 3+len(extraOpts))
	opts = append(opts,
		dephealth.WithLogger(logger),
		dephealth.HTTP("google-jwks", jwksOpts...),
		dephealth.HTTP("google-sheets", sheetsOpts...),
	)
	opts = append(opts, extraOpts...)

	dh, err := dephealth.New(serviceID, group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// httpDependencyOptions разделяет URL на адрес зависимости и путь проверки.
func httpDependencyOptions(rawURL string, checkInterval time.Duration) ([]dephealth.DependencyOption, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("некорректный URL %q", rawURL)
	}

	healthPath := parsed.EscapedPath()
	if healthPath == "" {
		healthPath = "/"
	}
	if parsed.RawQuery != "" {
		healthPath += "?" + parsed.RawQuery
	}

	opts := []dephealth.DependencyOption{
		dephealth.FromURL(parsed.Scheme + "://" + parsed.Host),
		dephealth.WithHTTPHealthPath(healthPath),
		dephealth.CheckInterval(checkInterval),
		dephealth.Critical(true),
	}
	if parsed.Scheme == "https" {
		opts = append(opts, dephealth.WithHTTPTLSSkipVerify(false))
	}
	return opts, nil
}

// Start запускает периодическую проверку зависимостей.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг зависимостей запущен (Google JWKS + Sheets API)")
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг зависимостей.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг зависимостей остановлен")
}

// Health возвращает текущее состояние зависимостей.
// Ключом служит имя зависимости. Значение true, если проверка успешна.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}
