// files.go содержит сервис файлов: список и учёт просмотров.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/vouemprovas/internal/domain/model"
	"github.com/bigkaa/vouemprovas/internal/repository"
)

// viewedAtLayout соответствует RFC 3339 с миллисекундами, как пишет веб-клиент.
const viewedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// mutationTimeout ограничивает цепочку запросов мутации, отвязанную от клиента.
const mutationTimeout = 30 * time.Second

// detach отвязывает ctx от отмены вызывающего и ставит собственный дедлайн.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), mutationTimeout)
}

// Prometheus-метрики просмотров.
var fileViewsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "vep_file_views_total",
	Help: "Количество учтённых просмотров файлов.",
})

// FileService выполняет операции над файлами.
type FileService struct {
	files  repository.FileRepository
	logs   repository.LogRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewFileService создаёт сервис файлов.
func NewFileService(
	files repository.FileRepository,
	logs repository.LogRepository,
	logger *slog.Logger,
) *FileService {
	return &FileService{
		files:  files,
		logs:   logs,
		now:    time.Now,
		logger: logger.With(slog.String("component", "file_service")),
	}
}

// WithClock подменяет источник текущего времени.
func (s *FileService) WithClock(now func() time.Time) *FileService {
	s.now = now
	return s
}

// ListFiles возвращает все файлы.
func (s *FileService) ListFiles(ctx context.Context) ([]*model.File, error) {
	files, err := s.files.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("список файлов: %w", err)
	}
	return files, nil
}

// IncrementViewCount учитывает просмотр файла: записывает count+1 в ячейку
// счётчика и дописывает строку в журнал.
//
// Операция не атомарна: два параллельных просмотра одного файла читают
// одно и то же значение, и один инкремент теряется. Блокировки нет.
// Если файл не найден, ничего не записывается.
//
// Чтение, запись и строка журнала доводятся до конца и после отключения клиента.
func (s *FileService) IncrementViewCount(ctx context.Context, fileID, userEmail string) error {
	ctx, cancel := detach(ctx)
	defer cancel()

	file, row, err := s.files.FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("файл %q: %w", fileID, ErrNotFound)
		}
		return fmt.Errorf("поиск файла: %w", err)
	}

	newCount := file.ViewCount + 1
	if err := s.files.UpdateViewCount(ctx, row, newCount); err != nil {
		return err
	}

	entry := &model.LogEntry{
		FileID:    file.ID,
		EventID:   file.EventID,
		UserEmail: userEmail,
		Timestamp: s.now().UTC().Format(viewedAtLayout),
		Action:    model.ActionView,
	}
	if err := s.logs.Append(ctx, entry); err != nil {
		// Счётчик уже увеличен, откатить его нечем
		s.logger.Error("Просмотр учтён без записи в журнал",
			slog.String("file_id", fileID),
			slog.String("error", err.Error()),
		)
		return err
	}

	fileViewsTotal.Inc()
	s.logger.Info("Просмотр файла учтён",
		slog.String("file_id", fileID),
		slog.String("event_id", file.EventID),
		slog.Int("view_count", newCount),
	)
	return nil
}
