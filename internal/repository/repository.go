// Пакет repository реализует доступ к данным поверх Google Sheets.
// Каждый лист таблицы, отдельный репозиторий; строки маппятся
// функциями из rows.go. Транзакций нет: чтение и запись, отдельные
// вызовы Sheets API.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bigkaa/vouemprovas/internal/domain/model"
	"github.com/bigkaa/vouemprovas/internal/sheets"
)

// Ошибки слоя репозиториев.
var (
	// ErrNotFound возвращается, если записи нет.
	ErrNotFound = errors.New("запись не найдена")
)

// EventRepository работает с листом Eventos.
type EventRepository interface {
	// List возвращает все события, пустые строки отброшены.
	List(ctx context.Context) ([]*model.Event, error)
	// FindByID ищет первое событие с заданным ID и возвращает номер его строки листа.
	FindByID(ctx context.Context, id string) (*model.Event, int, error)
	// UpdateStatus перезаписывает ячейку Status в строке row.
	UpdateStatus(ctx context.Context, row int, status string) error
}

// FileRepository работает с листом Arquivos.
type FileRepository interface {
	List(ctx context.Context) ([]*model.File, error)
	ListByEvent(ctx context.Context, eventID string) ([]*model.File, error)
	FindByID(ctx context.Context, id string) (*model.File, int, error)
	// UpdateViewCount перезаписывает ячейку ViewCount в строке row.
	UpdateViewCount(ctx context.Context, row int, count int) error
}

// PhotoRepository читает лист Fotos.
type PhotoRepository interface {
	ListByEvent(ctx context.Context, eventID string) ([]*model.Photo, error)
}

// LogRepository читает лист Logs и дописывает в него строки.
type LogRepository interface {
	// List возвращает записи в порядке добавления.
	List(ctx context.Context) ([]*model.LogEntry, error)
	Append(ctx context.Context, entry *model.LogEntry) error
}

// --- Eventos ---

type eventRepo struct {
	client sheets.Client
	loc    *time.Location
}

// NewEventRepository создаёт репозиторий событий.
// Даты с зоной переводятся в loc.
func NewEventRepository(client sheets.Client, loc *time.Location) EventRepository {
	return &eventRepo{client: client, loc: loc}
}

func (r *eventRepo) List(ctx context.Context) ([]*model.Event, error) {
	rows, err := r.client.ReadRange(ctx, EventsRange)
	if err != nil {
		return nil, fmt.Errorf("чтение событий: %w", err)
	}
	events := make([]*model.Event, 0, len(rows))
	for _, row := range rows {
		if e, ok := RowToEvent(row, r.loc); ok {
			events = append(events, e)
		}
	}
	return events, nil
}

func (r *eventRepo) FindByID(ctx context.Context, id string) (*model.Event, int, error) {
	rows, err := r.client.ReadRange(ctx, EventsRange)
	if err != nil {
		return nil, 0, fmt.Errorf("чтение событий: %w", err)
	}
	// Индекс считается по сырым строкам, иначе номер строки листа съедет
	for i, row := range rows {
		if e, ok := RowToEvent(row, r.loc); ok && e.ID == id {
			return e, AbsoluteRow(i), nil
		}
	}
	return nil, 0, ErrNotFound
}

func (r *eventRepo) UpdateStatus(ctx context.Context, row int, status string) error {
	rng := EventStatusCell(row)
	if err := r.client.WriteRange(ctx, rng, [][]any{{status}}); err != nil {
		return fmt.Errorf("обновление статуса события: %w", err)
	}
	return nil
}

// --- Arquivos ---

type fileRepo struct {
	client sheets.Client
}

// NewFileRepository создаёт репозиторий файлов.
func NewFileRepository(client sheets.Client) FileRepository {
	return &fileRepo{client: client}
}

func (r *fileRepo) List(ctx context.Context) ([]*model.File, error) {
	return r.list(ctx, func(*model.File) bool { return true })
}

func (r *fileRepo) ListByEvent(ctx context.Context, eventID string) ([]*model.File, error) {
	return r.list(ctx, func(f *model.File) bool { return f.EventID == eventID })
}

func (r *fileRepo) list(ctx context.Context, keep func(*model.File) bool) ([]*model.File, error) {
	rows, err := r.client.ReadRange(ctx, FilesRange)
	if err != nil {
		return nil, fmt.Errorf("чтение файлов: %w", err)
	}
	files := make([]*model.File, 0, len(rows))
	for _, row := range rows {
		if f, ok := RowToFile(row); ok && keep(f) {
			files = append(files, f)
		}
	}
	return files, nil
}

func (r *fileRepo) FindByID(ctx context.Context, id string) (*model.File, int, error) {
	rows, err := r.client.ReadRange(ctx, FilesRange)
	if err != nil {
		return nil, 0, fmt.Errorf("чтение файлов: %w", err)
	}
	for i, row := range rows {
		if f, ok := RowToFile(row); ok && f.ID == id {
			return f, AbsoluteRow(i), nil
		}
	}
	return nil, 0, ErrNotFound
}

func (r *fileRepo) UpdateViewCount(ctx context.Context, row int, count int) error {
	rng := FileViewCountCell(row)
	if err := r.client.WriteRange(ctx, rng, [][]any{{count}}); err != nil {
		return fmt.Errorf("обновление счётчика просмотров: %w", err)
	}
	return nil
}

// --- Fotos ---

type photoRepo struct {
	client sheets.Client
}

// NewPhotoRepository создаёт репозиторий фото.
func NewPhotoRepository(client sheets.Client) PhotoRepository {
	return &photoRepo{client: client}
}

func (r *photoRepo) ListByEvent(ctx context.Context, eventID string) ([]*model.Photo, error) {
	rows, err := r.client.ReadRange(ctx, PhotosRange)
	if err != nil {
		return nil, fmt.Errorf("чтение фото: %w", err)
	}
	photos := make([]*model.Photo, 0)
	for _, row := range rows {
		if p, ok := RowToPhoto(row); ok && p.EventID == eventID {
			photos = append(photos, p)
		}
	}
	return photos, nil
}

// --- Logs ---

type logRepo struct {
	client sheets.Client
}

// NewLogRepository создаёт репозиторий журнала просмотров.
func NewLogRepository(client sheets.Client) LogRepository {
	return &logRepo{client: client}
}

func (r *logRepo) List(ctx context.Context) ([]*model.LogEntry, error) {
	rows, err := r.client.ReadRange(ctx, LogsRange)
	if err != nil {
		return nil, fmt.Errorf("чтение журнала: %w", err)
	}
	logs := make([]*model.LogEntry, 0, len(rows))
	for _, row := range rows {
		if l, ok := RowToLog(row); ok {
			logs = append(logs, l)
		}
	}
	return logs, nil
}

func (r *logRepo) Append(ctx context.Context, entry *model.LogEntry) error {
	if err := r.client.AppendRows(ctx, LogsAppendRange, [][]any{LogToRow(entry)}); err != nil {
		return fmt.Errorf("запись в журнал: %w", err)
	}
	return nil
}
