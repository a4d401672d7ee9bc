// events.go содержит сервис событий: список с фильтрами, карточку события
// и смену статуса.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/vouemprovas/internal/domain/model"
	"github.com/bigkaa/vouemprovas/internal/repository"
)

// Корзины фильтра when.
const (
	BucketToday  = "hoje"
	BucketBefore = "antes"
	BucketAfter  = "depois"
)

// Prometheus-метрики смены статуса.
var statusUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "vep_status_updates_total",
	Help: "Количество запросов на смену статуса события по результату.",
}, []string{"result"})

// EventFilter задаёт параметры списка событий. Пустые поля не фильтруют.
type EventFilter struct {
	// Одно из hoje, antes, depois
	When string
	// Подстрока без учёта регистра по nome, descricao, local, tipo и genero
	Query string
}

// EventDetail содержит событие вместе с его файлами и фото.
type EventDetail struct {
	Event  *model.Event
	Files  []*model.File
	Photos []*model.Photo
}

// EventService выполняет операции над событиями.
type EventService struct {
	events repository.EventRepository
	files  repository.FileRepository
	photos repository.PhotoRepository
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

// NewEventService создаёт сервис событий.
// "Сегодня" определяется в часовом поясе loc.
func NewEventService(
	events repository.EventRepository,
	files repository.FileRepository,
	photos repository.PhotoRepository,
	loc *time.Location,
	logger *slog.Logger,
) *EventService {
	return &EventService{
		events: events,
		files:  files,
		photos: photos,
		loc:    loc,
		now:    time.Now,
		logger: logger.With(slog.String("component", "event_service")),
	}
}

// WithClock подменяет источник текущего времени.
func (s *EventService) WithClock(now func() time.Time) *EventService {
	s.now = now
	return s
}

// ListEvents возвращает события, отфильтрованные по корзине даты и строке поиска.
// Фильтры объединяются по AND. Событие без определимой даты не попадает
// ни в одну корзину.
func (s *EventService) ListEvents(ctx context.Context, filter EventFilter) ([]*model.Event, error) {
	match, err := bucketMatcher(filter.When)
	if err != nil {
		return nil, err
	}

	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("список событий: %w", err)
	}

	today := model.DayOf(s.now().In(s.loc))
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	result := make([]*model.Event, 0, len(events))
	for _, e := range events {
		if match != nil {
			if !e.Date.Known() || !match(e.Date.Day.Compare(today)) {
				continue
			}
		}
		if query != "" && !matchesQuery(e, query) {
			continue
		}
		result = append(result, e)
	}

	s.logger.Debug("Список событий",
		slog.String("when", filter.When),
		slog.String("query", filter.Query),
		slog.Int("total", len(events)),
		slog.Int("returned", len(result)),
	)
	return result, nil
}

// bucketMatcher возвращает предикат над результатом сравнения даты с сегодняшней.
// Если фильтр по дате не задан, предикат nil.
func bucketMatcher(when string) (func(cmp int) bool, error) {
	switch when {
	case "":
		return nil, nil
	case BucketToday:
		return func(cmp int) bool { return cmp == 0 }, nil
	case BucketBefore:
		return func(cmp int) bool { return cmp < 0 }, nil
	case BucketAfter:
		return func(cmp int) bool { return cmp > 0 }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidBucket, when)
	}
}

// matchesQuery ищет query хотя бы в одном поле поиска. query уже в нижнем регистре.
func matchesQuery(e *model.Event, query string) bool {
	fields := [...]string{e.Name, e.Description, e.Place, e.Type, e.Genre}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// GetEventDetail возвращает событие с его файлами и фото.
// Либо всё вместе, либо ошибка: частичного результата нет.
func (s *EventService) GetEventDetail(ctx context.Context, id string) (*EventDetail, error) {
	event, _, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("событие %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("поиск события: %w", err)
	}

	files, err := s.files.ListByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("файлы события: %w", err)
	}

	photos, err := s.photos.ListByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("фото события: %w", err)
	}

	return &EventDetail{Event: event, Files: files, Photos: photos}, nil
}

// UpdateEventStatus меняет статус события.
// Порядок: проверка значения, поиск строки, запись одной ячейки.
// Недопустимый статус отклоняется до любого обращения к таблице.
// После проверки поиск и запись доводятся до конца даже при отключении клиента.
func (s *EventService) UpdateEventStatus(ctx context.Context, id, status string) error {
	if !model.IsValidStatus(status) {
		statusUpdatesTotal.WithLabelValues("invalid").Inc()
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	ctx, cancel := detach(ctx)
	defer cancel()

	_, row, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			statusUpdatesTotal.WithLabelValues("not_found").Inc()
			return fmt.Errorf("событие %q: %w", id, ErrNotFound)
		}
		statusUpdatesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("поиск события: %w", err)
	}

	if err := s.events.UpdateStatus(ctx, row, status); err != nil {
		statusUpdatesTotal.WithLabelValues("error").Inc()
		return err
	}

	statusUpdatesTotal.WithLabelValues("ok").Inc()
	s.logger.Info("Статус события обновлён",
		slog.String("event_id", id),
		slog.String("status", status),
		slog.Int("row", row),
	)
	return nil
}
