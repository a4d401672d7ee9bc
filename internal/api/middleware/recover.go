package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	apierrors "github.com/bigkaa/vouemprovas/internal/api/errors"
)

// Recoverer перехватывает panic в обработчике и отвечает 500 INTERNAL_ERROR.
// http.ErrAbortHandler пробрасывается дальше, как это делает net/http.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	log := logger.With(slog.String("component", "recoverer"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Error("Panic в обработчике",
					slog.Any("panic", rec),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)
				apierrors.InternalError(w, "Внутренняя ошибка сервера")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
