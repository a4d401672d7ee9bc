// ratelimit.go ограничивает частоту запросов по IP клиента.
// У каждого клиента свой token bucket. Реестр хранится в LRU с TTL,
// поэтому память не растёт с числом адресов.
package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	apierrors "github.com/bigkaa/vouemprovas/internal/api/errors"
)

// rateLimiterCapacity ограничивает число одновременно отслеживаемых клиентов.
const rateLimiterCapacity = 10000

// RateLimiter хранит token bucket для каждого ключа клиента.
type RateLimiter struct {
	// mu делает поиск и создание bucket одной операцией
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
	window   time.Duration
	logger   *slog.Logger
}

// NewRateLimiter создаёт ограничитель: requests запросов за window на клиента.
// Неиспользуемый ограничитель вытесняется через window.
func NewRateLimiter(requests int, window time.Duration, logger *slog.Logger) *RateLimiter {
	requests = max(requests, 1)
	return &RateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](rateLimiterCapacity, nil, window),
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
		window:   window,
		logger:   logger.With(slog.String("component", "rate_limiter")),
	}
}

// Allow сообщает, можно ли обслужить ещё один запрос клиента key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.limiterFor(key).Allow()
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters.Add(key, limiter)
	}
	return limiter
}

// Middleware возвращает HTTP middleware, отвечающий 429 при превышении лимита.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(max(int(rl.window.Seconds()), 1))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			if !rl.Allow(key) {
				rl.logger.Warn("Превышен лимит запросов",
					slog.String("client", key),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", retryAfter)
				apierrors.RateLimited(w, "Слишком много запросов, повторите позже")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey возвращает IP клиента без порта.
// За доверенным прокси RemoteAddr уже переписан middleware RealIP.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
