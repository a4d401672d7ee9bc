// Пакет server поднимает HTTP-сервер с маршрутами API и graceful shutdown.
// TLS не терминируется, это делает балансировщик перед сервисом.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	apierrors "github.com/bigkaa/vouemprovas/internal/api/errors"
	"github.com/bigkaa/vouemprovas/internal/api/handlers"
	"github.com/bigkaa/vouemprovas/internal/api/middleware"
	"github.com/bigkaa/vouemprovas/internal/config"
	"github.com/bigkaa/vouemprovas/internal/domain/rbac"
)

// Server оборачивает http.Server API.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными маршрутами и middleware.
// limiter может быть nil, тогда ограничение частоты выключено.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	handler *handlers.APIHandler,
	sessions middleware.SessionValidator,
	limiter *middleware.RateLimiter,
) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(logger, handler, sessions, limiter, cfg.TrustProxyHeaders),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает chi-роутер со всеми маршрутами.
//
// Без сессии доступны /health/live, /metrics, /api/health, вход и выход.
// Остальным маршрутам /api нужна сессия. Смена статуса открыта admin и editor,
// дашборд только admin.
//
// При trustProxy адрес клиента берётся из X-Forwarded-For/X-Real-IP,
// иначе из соединения. Без доверенного прокси эти заголовки подделываются.
func NewRouter(
	logger *slog.Logger,
	handler *handlers.APIHandler,
	sessions middleware.SessionValidator,
	limiter *middleware.RateLimiter,
	trustProxy bool,
) http.Handler {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(chimw.RequestID)
	if trustProxy {
		router.Use(chimw.RealIP)
	}
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Recoverer(logger))

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		apierrors.NotFound(w, "Маршрут не найден")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		apierrors.WriteError(w, http.StatusMethodNotAllowed, apierrors.CodeValidationError, "Метод не поддерживается")
	})

	// Kubernetes probes и Prometheus, без auth и без rate limit
	router.Get("/health/live", handler.HealthLive)
	router.Get("/metrics", handler.GetMetrics)

	router.Route("/api", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware())
		}

		r.Get("/health", handler.SheetsHealth)
		r.Post("/auth/google", handler.GoogleLogin)
		r.Post("/auth/logout", handler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(sessions, logger))

			r.Get("/auth/me", handler.Me)

			r.Get("/eventos", handler.ListEvents)
			r.Get("/eventos/{id}", handler.GetEvent)
			r.With(middleware.RequireRole(rbac.RoleAdmin, rbac.RoleEditor)).
				Patch("/eventos/{id}/status", handler.UpdateEventStatus)

			r.Get("/arquivos", handler.ListFiles)
			r.Post("/arquivos/{id}/view", handler.RecordView)

			r.With(middleware.RequireRole(rbac.RoleAdmin)).
				Get("/status", handler.GetStatus)
		})
	})

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
