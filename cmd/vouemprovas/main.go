// main.go запускает API дашборда Vou Em Provas.
// Порядок: .env → конфигурация → логгер → Sheets → сервисы → auth → HTTP.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	// База часовых поясов внутри бинарника: в distroless-образе нет /usr/share/zoneinfo
	_ "time/tzdata"

	"github.com/bigkaa/vouemprovas/internal/api/handlers"
	"github.com/bigkaa/vouemprovas/internal/api/middleware"
	"github.com/bigkaa/vouemprovas/internal/auth"
	"github.com/bigkaa/vouemprovas/internal/config"
	"github.com/bigkaa/vouemprovas/internal/domain/rbac"
	"github.com/bigkaa/vouemprovas/internal/repository"
	"github.com/bigkaa/vouemprovas/internal/server"
	"github.com/bigkaa/vouemprovas/internal/service"
	"github.com/bigkaa/vouemprovas/internal/sheets"
)

func main() {
	// 1. .env для локального запуска; в кластере переменные задаются окружением
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Ошибка чтения .env: %v", err)
	}

	// 2. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// 3. Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("Vou Em Provas API запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("timezone", cfg.Timezone),
	)

	ctx := context.Background()

	// 4. Google Sheets (авторизация service account при первом запросе)
	sheetsClient := sheets.NewGoogleClient(cfg.SheetID, cfg.ServiceAccountEmail, cfg.ServiceAccountPrivateKey, logger)
	loc := service.LoadLocation(cfg.Timezone, logger)

	// 5. Репозитории поверх листов таблицы
	eventRepo := repository.NewEventRepository(sheetsClient, loc)
	fileRepo := repository.NewFileRepository(sheetsClient)
	photoRepo := repository.NewPhotoRepository(sheetsClient)
	logRepo := repository.NewLogRepository(sheetsClient)

	// 6. Сервисы
	eventSvc := service.NewEventService(eventRepo, fileRepo, photoRepo, loc, logger)
	fileSvc := service.NewFileService(fileRepo, logRepo, logger)
	statusSvc := service.NewStatusService(eventRepo, fileRepo, logRepo, cfg.RecentLogs, logger)

	// 7. Auth: роли, Google JWKS, сессии
	roles := rbac.ParseRoleMap(cfg.RoleMap, logger)
	logger.Info("Карта ролей загружена", slog.Int("entries", roles.Len()))

	verifier, err := auth.NewGoogleVerifier(cfg.GoogleJWKSURL, cfg.GoogleClientIDs, cfg.JWKSRefreshInterval, logger)
	if err != nil {
		logger.Error("Ошибка инициализации Google verifier", slog.String("error", err.Error()))
		os.Exit(1)
	}
	sessions, err := auth.NewSessionManager(cfg.SessionSecret, cfg.CookieSecure)
	if err != nil {
		logger.Error("Ошибка инициализации сессий", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 8. topologymetrics: мониторинг зависимостей (Google JWKS + Sheets API)
	var dephealthSvc *service.DephealthService
	if cfg.DephealthEnabled {
		dephealthSvc = startDephealth(ctx, cfg, logger)
	}

	// 9. Rate limiting по IP клиента
	var limiter *middleware.RateLimiter
	if cfg.RateLimitRequests > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, logger)
	}

	// 10. HTTP
	var deps handlers.DependencyReporter
	if dephealthSvc != nil {
		deps = dephealthSvc
	}
	apiHandler := handlers.NewAPIHandler(
		handlers.NewHealthHandler(statusSvc, deps),
		verifier,
		sessions,
		roles,
		eventSvc,
		fileSvc,
		statusSvc,
		logger,
	)
	srv := server.New(cfg, logger, apiHandler, sessions, limiter)

	// 11. Запуск сервера (блокирующий вызов с graceful shutdown)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}
	logger.Info("Vou Em Provas API остановлен")
}

// startDephealth запускает мониторинг зависимостей.
// Ошибки не фатальны: сервис работает и без topologymetrics.
func startDephealth(ctx context.Context, cfg *config.Config, logger *slog.Logger) *service.DephealthService {
	svc, err := service.NewDephealthService(
		"vouemprovas",
		cfg.DephealthGroup,
		cfg.GoogleJWKSURL,
		service.DefaultSheetsProbeURL,
		cfg.DephealthCheckInterval,
		logger,
	)
	if err != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", err.Error()),
		)
		return nil
	}

	if err := svc.Start(ctx); err != nil {
		logger.Warn("Ошибка запуска topologymetrics", slog.String("error", err.Error()))
		return nil
	}

	logger.Info("topologymetrics запущен",
		slog.String("group", cfg.DephealthGroup),
		slog.String("check_interval", cfg.DephealthCheckInterval.String()),
	)
	return svc
}
