package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour, testLogger())
	h := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/eventos", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := do("10.0.0.1:1234"); rec.Code != http.StatusOK {
			t.Fatalf("запрос %d: статус = %d, ожидается 200", i+1, rec.Code)
		}
	}

	// другой порт того же IP, тот же клиент
	rec := do("10.0.0.1:5555")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("статус = %d, ожидается 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("ожидался заголовок Retry-After")
	}

	if rec := do("10.0.0.2:1234"); rec.Code != http.StatusOK {
		t.Errorf("другой клиент: статус = %d, ожидается 200", rec.Code)
	}
}

func TestRateLimiter_ConcurrentFirstRequests(t *testing.T) {
	const burst = 5
	rl := NewRateLimiter(burst, time.Hour, testLogger())

	var allowed atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if rl.Allow("10.0.0.1") {
				allowed.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	// Все горутины делят один bucket
	if got := allowed.Load(); got != burst {
		t.Errorf("пропущено %d запросов, ожидается %d", got, burst)
	}
}

func TestRoutePattern(t *testing.T) {
	var pattern string
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			pattern = routePattern(r)
		})
	})
	router.Get("/api/eventos/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/eventos/abc-123", nil))
	if pattern != "/api/eventos/{id}" {
		t.Errorf("routePattern = %q, ожидается /api/eventos/{id}", pattern)
	}

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	if pattern != unmatchedRoute {
		t.Errorf("routePattern = %q, ожидается %q", pattern, unmatchedRoute)
	}
}

func TestResponseWriter_CapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)
	rw.WriteHeader(http.StatusNotFound)
	_, _ = rw.Write([]byte("abc"))

	if rw.statusCode != http.StatusNotFound {
		t.Errorf("statusCode = %d, ожидается 404", rw.statusCode)
	}
	if rw.written != 3 {
		t.Errorf("written = %d, ожидается 3", rw.written)
	}
}
