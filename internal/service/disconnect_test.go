package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"

	"github.com/bigkaa/vouemprovas/internal/domain/model"
	"github.com/bigkaa/vouemprovas/internal/repository"
	"github.com/bigkaa/vouemprovas/internal/sheets"
)

// sheetsAPICall хранит запрос, дошедший до фейкового Sheets API.
type sheetsAPICall struct {
	method string
	path   string
	body   string
}

// disconnectingAPI имитирует REST Sheets API v4 и вызывает cancel
// при обработке запроса, для которого cancelOn вернул true.
type disconnectingAPI struct {
	mu     sync.Mutex
	calls  []sheetsAPICall
	values map[string][][]any
}

func (a *disconnectingAPI) recorded(method string) []sheetsAPICall {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []sheetsAPICall
	for _, c := range a.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

// newDisconnectingClient поднимает httptest-сервер и настоящий GoogleClient к нему.
// cancelOn решает, на каком запросе "отключается" клиент.
func newDisconnectingClient(t *testing.T, api *disconnectingAPI, cancel context.CancelFunc, cancelOn func(r *http.Request) bool) *sheets.GoogleClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		api.mu.Lock()
		api.calls = append(api.calls, sheetsAPICall{method: r.Method, path: r.URL.Path, body: string(data)})
		api.mu.Unlock()

		if cancelOn(r) {
			cancel()
		}

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{}
		if r.Method == http.MethodGet {
			for rng, rows := range api.values {
				if strings.HasSuffix(r.URL.Path, "/values/"+rng) {
					resp = map[string]any{"range": rng, "values": rows}
				}
			}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	return sheets.NewGoogleClientWithOptions("sheet-1", testLogger(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
		option.WithoutAuthentication(),
	)
}

func TestIncrementViewCount_ClientDisconnectAfterWrite(t *testing.T) {
	api := &disconnectingAPI{values: map[string][][]any{
		repository.FilesRange: {
			repository.FileToRow(&model.File{ID: "f0", EventID: "e1", ViewCount: 1}),
			repository.FileToRow(&model.File{ID: "f1", EventID: "e1", ViewCount: 5}),
		},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client := newDisconnectingClient(t, api, cancel, func(r *http.Request) bool {
		return r.Method == http.MethodPut
	})

	svc := NewFileService(repository.NewFileRepository(client), repository.NewLogRepository(client), testLogger()).
		WithClock(fixedClock(testNow))

	if err := svc.IncrementViewCount(ctx, "f1", "ana@example.com"); err != nil {
		t.Fatalf("IncrementViewCount() ошибка после отключения клиента: %v", err)
	}
	if ctx.Err() == nil {
		t.Fatal("контекст вызывающего должен быть отменён")
	}

	puts := api.recorded(http.MethodPut)
	if len(puts) != 1 || !strings.Contains(puts[0].body, "6") {
		t.Fatalf("запись счётчика = %+v, ожидалась одна запись значения 6", puts)
	}
	appends := api.recorded(http.MethodPost)
	if len(appends) != 1 {
		t.Fatalf("строк журнала = %d, ожидалась 1", len(appends))
	}
	if !strings.HasSuffix(appends[0].path, ":append") || !strings.Contains(appends[0].body, "ana@example.com") {
		t.Errorf("append = %+v, ожидалась строка журнала с email", appends[0])
	}
}

func TestUpdateEventStatus_ClientDisconnectAfterLookup(t *testing.T) {
	api := &disconnectingAPI{values: map[string][][]any{
		repository.EventsRange: {
			eventRow("e1", "Prova", "10/03/2025", ""),
		},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client := newDisconnectingClient(t, api, cancel, func(r *http.Request) bool {
		return r.Method == http.MethodGet
	})

	events := repository.NewEventRepository(client, testLoc)
	svc := NewEventService(events, repository.NewFileRepository(client), repository.NewPhotoRepository(client), testLoc, testLogger()).
		WithClock(fixedClock(testNow))

	if err := svc.UpdateEventStatus(ctx, "e1", model.StatusAprovado); err != nil {
		t.Fatalf("UpdateEventStatus() ошибка после отключения клиента: %v", err)
	}

	puts := api.recorded(http.MethodPut)
	if len(puts) != 1 {
		t.Fatalf("записей статуса = %d, ожидалась 1", len(puts))
	}
	if !strings.Contains(puts[0].path, repository.EventStatusCell(2)) || !strings.Contains(puts[0].body, model.StatusAprovado) {
		t.Errorf("запись = %+v, ожидался %s в %s", puts[0], model.StatusAprovado, repository.EventStatusCell(2))
	}
}
