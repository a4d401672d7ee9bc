// Пакет model описывает доменные модели Vou Em Provas.
// Записи живут в листах Google Sheets; JSON-имена полей совпадают
// с тем, что ожидает веб-клиент.
package model

// Статусы события. Хранятся в колонке Status листа Eventos как есть.
const (
	StatusEmAndamento        = "Em Andamento"
	StatusElaborandoProposta = "Elaborando Proposta"
	StatusEmAnaliseDiretoria = "Em Análise (Diretoria de Provas)"
	StatusAceitoDiretoria    = "Aceito (Diretoria de Provas)"
	StatusDeAcordoDiretor    = "De Acordo (Diretor Geral)"
	StatusAguardandoFeedback = "Aguardando Feedback (Cliente)"
	StatusAprovado           = "Aprovado"
	StatusRecusado           = "Recusado"
)

// DefaultStatus подставляется, если ячейка Status пустая.
const DefaultStatus = StatusEmAndamento

// validStatuses перечисляет допустимые статусы в порядке воркфлоу.
var validStatuses = []string{
	StatusEmAndamento,
	StatusElaborandoProposta,
	StatusEmAnaliseDiretoria,
	StatusAceitoDiretoria,
	StatusDeAcordoDiretor,
	StatusAguardandoFeedback,
	StatusAprovado,
	StatusRecusado,
}

// IsValidStatus проверяет, входит ли значение в перечень статусов.
// Сравнение точное, с учётом регистра и диакритики.
func IsValidStatus(status string) bool {
	for _, s := range validStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ValidStatuses возвращает копию перечня допустимых статусов.
func ValidStatuses() []string {
	out := make([]string, len(validStatuses))
	copy(out, validStatuses)
	return out
}

// Event описывает событие (строку листа Eventos).
type Event struct {
	// Уникален по соглашению
	ID   string `json:"id"`
	Name string `json:"nome"`
	// Дата DD/MM/AAAA из колонки Data
	LegacyDate string `json:"data"`
	// В текущей схеме колонки нет, всегда пусто
	Description string `json:"descricao"`
	// Одно из значений перечня, по умолчанию DefaultStatus
	Status string `json:"status"`
	Type   string `json:"tipo"`
	Place  string `json:"local"`
	Genre  string `json:"genero"`
	// Свободный текст для отображения
	DisplayDate        string `json:"dataExibicao"`
	DescriptiveVersion string `json:"versaoDescritivo"`
	CreatedAt          string `json:"criadoEm"`
	UpdatedAt          string `json:"atualizadoEm"`
	CreationNotes      string `json:"anotacoesDaCriacao"`
	// Дата yyyy-mm-dd, приоритетная для фильтрации
	ISODate string `json:"dataISO"`

	// Разрешается один раз при маппинге строки.
	Date DateSource `json:"-"`
}
