package model

import "strings"

// DocKind задаёт категорию документа, выведенную из свободного текста TipoDocumento.
type DocKind string

const (
	DocKindVideo     DocKind = "Video"
	DocKindMiniGame  DocKind = "MiniGame"
	DocKindDocumento DocKind = "Documento"
	DocKindOutro     DocKind = "Outro"
)

// ClassifyDocKind определяет категорию по подстроке без учёта регистра.
// Старые строки содержат вариации вроде "Resumo Em Video" или "mini game".
// Пустое значение считается документом.
func ClassifyDocKind(raw string) DocKind {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return DocKindDocumento
	}
	compact := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
	switch {
	case strings.Contains(compact, "minigame"):
		return DocKindMiniGame
	case strings.Contains(s, "video"), strings.Contains(s, "vídeo"):
		return DocKindVideo
	case strings.Contains(s, "document"), strings.Contains(s, "pdf"):
		return DocKindDocumento
	default:
		return DocKindOutro
	}
}

// File описывает файл, прикреплённый к событию (строку листа Arquivos).
type File struct {
	ID      string `json:"id"`
	EventID string `json:"eventoId"`
	// В текущей схеме колонки нет, поле оставлено для клиента
	Name string `json:"nome"`
	// Исходный текст TipoDocumento, "Documento" если пусто
	Type string `json:"tipo"`
	// Категория, выведенная из Type
	Kind      DocKind `json:"categoria"`
	ViewURL   string  `json:"viewUrl"`
	ViewCount int     `json:"viewCount"`
	Version   string  `json:"versao"`
	DriveID   string  `json:"driveId"`
	Origin    string  `json:"origem"`
	UpdatedAt string  `json:"atualizadoEm"`
}
