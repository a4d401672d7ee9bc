// Пакет sheets читает и перезаписывает диапазоны Google Sheets
// и дописывает в них строки.
// Авторизация через service account, сервис создаётся лениво при первом вызове.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// С valueInputOption значения интерпретируются так, как если бы их ввели в UI.
const valueInputOption = "USER_ENTERED"

// Операции для метрик.
const (
	opRead   = "read"
	opWrite  = "write"
	opAppend = "append"
)

// Prometheus-метрики обращений к Sheets API.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vep_sheets_requests_total",
		Help: "Количество запросов к Google Sheets API.",
	}, []string{"operation", "result"})
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vep_sheets_request_duration_seconds",
		Help:    "Длительность запросов к Google Sheets API.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

// Client описывает примитивы доступа к таблице.
// Диапазоны задаются в A1-нотации ("Eventos!A2:M", "Arquivos!H7").
type Client interface {
	// ReadRange возвращает строки диапазона; строки могут быть короче запрошенной ширины.
	// Пустой диапазон даёт пустой срез без ошибки.
	ReadRange(ctx context.Context, rng string) ([][]any, error)
	// WriteRange перезаписывает значения диапазона на месте.
	WriteRange(ctx context.Context, rng string, values [][]any) error
	// AppendRows дописывает строки после последней заполненной строки диапазона.
	AppendRows(ctx context.Context, rng string, rows [][]any) error
}

// serviceFactory создаёт *gsheets.Service.
type serviceFactory func(ctx context.Context) (*gsheets.Service, error)

// GoogleClient реализует Client поверх google.golang.org/api/sheets/v4.
type GoogleClient struct {
	spreadsheetID string
	factory       serviceFactory
	logger        *slog.Logger

	// Ленивая инициализация: сервис сохраняется только при успехе,
	// неудачная попытка повторяется при следующем вызове.
	mu  sync.Mutex
	srv *gsheets.Service
}

// NewGoogleClient создаёт клиент с авторизацией service account.
// privateKey передаётся в PEM с уже нормализованными переводами строки.
func NewGoogleClient(spreadsheetID, email, privateKey string, logger *slog.Logger) *GoogleClient {
	jwtCfg := &jwt.Config{
		Email:      email,
		PrivateKey: []byte(privateKey),
		Scopes:     []string{gsheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	factory := func(ctx context.Context) (*gsheets.Service, error) {
		// Token source живёт дольше запроса, поэтому без отмены родительского ctx
		ts := jwtCfg.TokenSource(context.WithoutCancel(ctx))
		return gsheets.NewService(context.WithoutCancel(ctx), option.WithTokenSource(ts))
	}
	return newGoogleClient(spreadsheetID, factory, logger)
}

// NewGoogleClientWithOptions создаёт клиент с произвольными опциями API
// (endpoint, HTTP-клиент, учётные данные). Используется в тестах.
func NewGoogleClientWithOptions(spreadsheetID string, logger *slog.Logger, opts ...option.ClientOption) *GoogleClient {
	factory := func(ctx context.Context) (*gsheets.Service, error) {
		return gsheets.NewService(context.WithoutCancel(ctx), opts...)
	}
	return newGoogleClient(spreadsheetID, factory, logger)
}

func newGoogleClient(spreadsheetID string, factory serviceFactory, logger *slog.Logger) *GoogleClient {
	return &GoogleClient{
		spreadsheetID: spreadsheetID,
		factory:       factory,
		logger:        logger.With(slog.String("component", "sheets_client")),
	}
}

// service возвращает сервис Sheets, создавая его при первом обращении.
func (c *GoogleClient) service(ctx context.Context) (*gsheets.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.srv != nil {
		return c.srv, nil
	}

	srv, err := c.factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("инициализация Sheets API: %w", err)
	}
	c.srv = srv
	c.logger.Info("Клиент Google Sheets инициализирован",
		slog.String("spreadsheet_id", c.spreadsheetID),
	)
	return srv, nil
}

// ReadRange читает значения диапазона rng.
func (c *GoogleClient) ReadRange(ctx context.Context, rng string) (rows [][]any, err error) {
	defer c.observe(opRead, rng, time.Now(), &err)

	srv, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := srv.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("чтение диапазона %s: %w", rng, err)
	}
	if len(resp.Values) == 0 {
		return [][]any{}, nil
	}
	return resp.Values, nil
}

// WriteRange перезаписывает диапазон rng значениями values.
func (c *GoogleClient) WriteRange(ctx context.Context, rng string, values [][]any) (err error) {
	defer c.observe(opWrite, rng, time.Now(), &err)

	srv, err := c.service(ctx)
	if err != nil {
		return err
	}

	vr := &gsheets.ValueRange{Values: values}
	_, err = srv.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("запись диапазона %s: %w", rng, err)
	}
	return nil
}

// AppendRows дописывает rows в конец таблицы диапазона rng.
func (c *GoogleClient) AppendRows(ctx context.Context, rng string, rows [][]any) (err error) {
	defer c.observe(opAppend, rng, time.Now(), &err)

	srv, err := c.service(ctx)
	if err != nil {
		return err
	}

	vr := &gsheets.ValueRange{Values: rows}
	_, err = srv.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("добавление строк в %s: %w", rng, err)
	}
	return nil
}

// observe обновляет метрики и пишет debug-лог по завершении операции.
func (c *GoogleClient) observe(op, rng string, start time.Time, errp *error) {
	duration := time.Since(start)
	result := "ok"
	if *errp != nil {
		result = "error"
	}
	requestsTotal.WithLabelValues(op, result).Inc()
	requestDuration.WithLabelValues(op).Observe(duration.Seconds())

	c.logger.Debug("Запрос к Sheets API",
		slog.String("operation", op),
		slog.String("range", rng),
		slog.String("result", result),
		slog.Duration("duration", duration),
	)
}
