// status.go считает сводку для дашборда администратора и проверяет связь с таблицей.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bigkaa/vouemprovas/internal/domain/model"
	"github.com/bigkaa/vouemprovas/internal/repository"
)

// DefaultRecentLogs задаёт, сколько последних записей журнала показывать.
const DefaultRecentLogs = 10

// missingEventName подставляется, если событие записи журнала не найдено.
const missingEventName = "—"

// StatusSummary содержит агрегированные показатели.
type StatusSummary struct {
	TotalEvents   int
	TotalFiles    int
	TotalViews    int
	VideoCount    int
	MiniGameCount int
	// Последние добавленные записи, от новых к старым
	RecentLogs []model.RecentLog
}

// StatusService обслуживает дашборд и health check.
type StatusService struct {
	events     repository.EventRepository
	files      repository.FileRepository
	logs       repository.LogRepository
	recentLogs int
	logger     *slog.Logger
}

// NewStatusService создаёт сервис дашборда.
// recentLogs <= 0 заменяется на DefaultRecentLogs.
func NewStatusService(
	events repository.EventRepository,
	files repository.FileRepository,
	logs repository.LogRepository,
	recentLogs int,
	logger *slog.Logger,
) *StatusService {
	if recentLogs <= 0 {
		recentLogs = DefaultRecentLogs
	}
	return &StatusService{
		events:     events,
		files:      files,
		logs:       logs,
		recentLogs: recentLogs,
		logger:     logger.With(slog.String("component", "status_service")),
	}
}

// StatusSummary считает сводку по событиям, файлам и журналу.
// Журнал не отсортирован по времени. Последними считается хвост в порядке
// добавления, развёрнутый для отображения.
func (s *StatusService) StatusSummary(ctx context.Context) (*StatusSummary, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("сводка: %w", err)
	}
	files, err := s.files.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("сводка: %w", err)
	}
	logs, err := s.logs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("сводка: %w", err)
	}

	summary := &StatusSummary{
		TotalEvents: len(events),
		TotalFiles:  len(files),
	}
	for _, f := range files {
		summary.TotalViews += f.ViewCount
		switch f.Kind {
		case model.DocKindVideo:
			summary.VideoCount++
		case model.DocKindMiniGame:
			summary.MiniGameCount++
		}
	}

	// Первое событие с данным ID побеждает
	names := make(map[string]string, len(events))
	for _, e := range events {
		if _, ok := names[e.ID]; !ok {
			names[e.ID] = e.Name
		}
	}

	start := max(len(logs)-s.recentLogs, 0)
	summary.RecentLogs = make([]model.RecentLog, 0, len(logs)-start)
	for i := len(logs) - 1; i >= start; i-- {
		name, ok := names[logs[i].EventID]
		if !ok || name == "" {
			name = missingEventName
		}
		summary.RecentLogs = append(summary.RecentLogs, model.RecentLog{
			LogEntry:  *logs[i],
			EventName: name,
		})
	}

	return summary, nil
}

// Health читает лист событий и возвращает их число.
// Любая ошибка Sheets API возвращается как есть.
func (s *StatusService) Health(ctx context.Context) (int, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(events), nil
}
