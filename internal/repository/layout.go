package repository

import "fmt"

// Листы таблицы.
const (
	SheetEvents = "Eventos"
	SheetFiles  = "Arquivos"
	SheetPhotos = "Fotos"
	SheetLogs   = "Logs"
)

// Диапазоны чтения. Первая строка каждого листа, заголовок.
const (
	EventsRange = SheetEvents + "!A2:M"
	FilesRange  = SheetFiles + "!A2:I"
	PhotosRange = SheetPhotos + "!A2:J"
	LogsRange   = SheetLogs + "!A2:F"
	// Для append API сам находит конец таблицы
	LogsAppendRange = SheetLogs + "!A:F"
)

// firstDataRow соответствует индексу 0 в ответе API.
const firstDataRow = 2

// Eventos: A ID, B Nome, C Data, D Tipo, E Genero, F DataExibicao,
// G VersaoDescritivo, H CriadoEm, I AtualizadoEm, J Local,
// K AnotacoesDaCriacao, L Status, M DataISO.
const (
	evColID = iota
	evColName
	evColLegacyDate
	evColType
	evColGenre
	evColDisplayDate
	evColDescriptiveVersion
	evColCreatedAt
	evColUpdatedAt
	evColPlace
	evColCreationNotes
	evColStatus
	evColISODate
	eventWidth
)

// Arquivos: A FileID, B EventID, C TipoDocumento, D Versao, E ViewURL,
// F DriveId, G Origem, H ViewCount, I AtualizadoEm.
const (
	fileColID = iota
	fileColEventID
	fileColType
	fileColVersion
	fileColViewURL
	fileColDriveID
	fileColOrigin
	fileColViewCount
	fileColUpdatedAt
	fileWidth
)

// Fotos: A FotoID, B EventID, C DriveId, D Ordem, E Imagem, F Descricao,
// G CriadoEm, H AtualizadoEm, I Ativo, J Credito.
const (
	photoColID = iota
	photoColEventID
	photoColDriveID
	photoColOrder
	photoColURL
	photoColCaption
	photoColCreatedAt
	photoColUpdatedAt
	photoColActive
	photoColCredit
	photoWidth
)

// Logs: A LogID, B FileID, C EventID, D UserEmail, E ViewedAt, F ViewSource.
const (
	logColID = iota
	logColFileID
	logColEventID
	logColUserEmail
	logColTimestamp
	logColAction
	logWidth
)

// Колонки, которые сервис перезаписывает.
const (
	eventStatusColumn   = "L"
	fileViewCountColumn = "H"
)

// AbsoluteRow переводит индекс строки ответа (с нуля) в номер строки листа.
// Индекс считается по сырым строкам, до отбрасывания пустых.
func AbsoluteRow(index int) int {
	return index + firstDataRow
}

// cellRange формирует A1-ссылку на одну ячейку, например "Eventos!L7".
func cellRange(sheet, column string, row int) string {
	return fmt.Sprintf("%s!%s%d", sheet, column, row)
}

// EventStatusCell возвращает ячейку статуса события в строке row.
func EventStatusCell(row int) string {
	return cellRange(SheetEvents, eventStatusColumn, row)
}

// FileViewCountCell возвращает ячейку счётчика просмотров в строке row.
func FileViewCountCell(row int) string {
	return cellRange(SheetFiles, fileViewCountColumn, row)
}
