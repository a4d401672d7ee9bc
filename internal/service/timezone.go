package service

import (
	"log/slog"
	"time"
)

// saoPauloOffset равен смещению America/Sao_Paulo без летнего времени (с 2019 года).
const saoPauloOffset = -3 * 60 * 60

// LoadLocation загружает часовой пояс для корзин hoje/antes/depois.
// Если база tzdata недоступна, используется фиксированное смещение UTC-3.
func LoadLocation(name string, logger *slog.Logger) *time.Location {
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc
	}
	logger.Warn("Часовой пояс не загружен, используется UTC-3",
		slog.String("timezone", name),
		slog.String("error", err.Error()),
	)
	return time.FixedZone("UTC-3", saoPauloOffset)
}
