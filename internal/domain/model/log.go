package model

// ActionView помечает запись о просмотре файла.
const ActionView = "view"

// LogEntry описывает запись аудита (строку листа Logs). Записи только дописываются.
type LogEntry struct {
	// LogID. Сервис пишет пустое значение
	ID        string `json:"id"`
	FileID    string `json:"arquivoId"`
	EventID   string `json:"eventoId"`
	UserEmail string `json:"userEmail"`
	// Время просмотра в RFC 3339 (UTC)
	Timestamp string `json:"timestamp"`
	// Для просмотров всегда "view"
	Action string `json:"action"`
}

// RecentLog дополняет запись журнала названием события для дашборда.
type RecentLog struct {
	LogEntry
	// EventName содержит название события или "—", если событие не найдено
	EventName string `json:"eventoNome"`
}
