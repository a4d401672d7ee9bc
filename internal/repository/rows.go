package repository

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bigkaa/vouemprovas/internal/domain/model"
)

// Маппинг строк листа в доменные записи и обратно.
// Функции чистые и тотальные: короткая строка дополняется пустыми
// значениями, строка без идентифицирующей пары считается отсутствующей.

// cell возвращает значение колонки i строкой; отсутствующая колонка или nil дают "".
// Sheets API отдаёт строки, но в ответе могут встретиться числа и bool.
func cell(row []any, i int) string {
	if i < 0 || i >= len(row) || row[i] == nil {
		return ""
	}
	switch v := row[i].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// idCell возвращает cell без пробелов по краям. Нужна для идентификаторов и перечислений.
func idCell(row []any, i int) string {
	return strings.TrimSpace(cell(row, i))
}

// groupedCount совпадает с целым, отформатированным разделителем разрядов
// по локали таблицы: "1.234", "1,234,567".
var groupedCount = regexp.MustCompile(`^\d{1,3}([.,]\d{3})+$`)

// countSpaces убирает пробелы разрядов, включая неразрывные.
var countSpaces = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "")

// parseCount читает счётчик просмотров. Пустое, нечисловое или
// отрицательное значение даёт 0, дробное округляется вниз.
// Разделители разрядов снимаются, поэтому "1.234" читается как 1234.
// Одиночная запятая считается десятичной: "7,5" даёт 7.
func parseCount(s string) int {
	s = countSpaces.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	if groupedCount.MatchString(s) {
		s = strings.NewReplacer(".", "", ",", "").Replace(s)
	} else if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	if n, err := strconv.Atoi(s); err == nil {
		return max(n, 0)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f < 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// RowToEvent преобразует строку листа Eventos.
// Строка без ID и названия даёт false.
func RowToEvent(row []any, loc *time.Location) (*model.Event, bool) {
	id := idCell(row, evColID)
	name := cell(row, evColName)
	if id == "" && strings.TrimSpace(name) == "" {
		return nil, false
	}

	status := idCell(row, evColStatus)
	if status == "" {
		status = model.DefaultStatus
	}

	e := &model.Event{
		ID:                 id,
		Name:               name,
		LegacyDate:         cell(row, evColLegacyDate),
		Status:             status,
		Type:               cell(row, evColType),
		Place:              cell(row, evColPlace),
		Genre:              cell(row, evColGenre),
		DisplayDate:        cell(row, evColDisplayDate),
		DescriptiveVersion: cell(row, evColDescriptiveVersion),
		CreatedAt:          cell(row, evColCreatedAt),
		UpdatedAt:          cell(row, evColUpdatedAt),
		CreationNotes:      cell(row, evColCreationNotes),
		ISODate:            cell(row, evColISODate),
	}
	e.Date = ResolveDate(e.ISODate, e.LegacyDate, loc)
	return e, true
}

// RowToFile преобразует строку листа Arquivos.
// Строка без FileID и EventID даёт false.
func RowToFile(row []any) (*model.File, bool) {
	id := idCell(row, fileColID)
	eventID := idCell(row, fileColEventID)
	if id == "" && eventID == "" {
		return nil, false
	}

	tipo := cell(row, fileColType)
	if strings.TrimSpace(tipo) == "" {
		tipo = string(model.DocKindDocumento)
	}

	return &model.File{
		ID:        id,
		EventID:   eventID,
		Type:      tipo,
		Kind:      model.ClassifyDocKind(tipo),
		ViewURL:   idCell(row, fileColViewURL),
		ViewCount: parseCount(cell(row, fileColViewCount)),
		Version:   cell(row, fileColVersion),
		DriveID:   idCell(row, fileColDriveID),
		Origin:    cell(row, fileColOrigin),
		UpdatedAt: cell(row, fileColUpdatedAt),
	}, true
}

// RowToPhoto преобразует строку листа Fotos.
// Строка без FotoID и EventID даёт false.
func RowToPhoto(row []any) (*model.Photo, bool) {
	id := idCell(row, photoColID)
	eventID := idCell(row, photoColEventID)
	if id == "" && eventID == "" {
		return nil, false
	}

	return &model.Photo{
		ID:        id,
		EventID:   eventID,
		URL:       idCell(row, photoColURL),
		Caption:   cell(row, photoColCaption),
		DriveID:   idCell(row, photoColDriveID),
		Order:     cell(row, photoColOrder),
		CreatedAt: cell(row, photoColCreatedAt),
		UpdatedAt: cell(row, photoColUpdatedAt),
		Active:    cell(row, photoColActive),
		Credit:    cell(row, photoColCredit),
	}, true
}

// RowToLog преобразует строку листа Logs.
// LogID обычно пуст, поэтому строка отсутствует, только если пусты
// все три идентификатора: LogID, FileID и EventID.
func RowToLog(row []any) (*model.LogEntry, bool) {
	id := idCell(row, logColID)
	fileID := idCell(row, logColFileID)
	eventID := idCell(row, logColEventID)
	if id == "" && fileID == "" && eventID == "" {
		return nil, false
	}

	return &model.LogEntry{
		ID:        id,
		FileID:    fileID,
		EventID:   eventID,
		UserEmail: idCell(row, logColUserEmail),
		Timestamp: idCell(row, logColTimestamp),
		Action:    idCell(row, logColAction),
	}, true
}

// EventToRow раскладывает событие по колонкам A..M.
func EventToRow(e *model.Event) []any {
	row := make([]any, eventWidth)
	row[evColID] = e.ID
	row[evColName] = e.Name
	row[evColLegacyDate] = e.LegacyDate
	row[evColType] = e.Type
	row[evColGenre] = e.Genre
	row[evColDisplayDate] = e.DisplayDate
	row[evColDescriptiveVersion] = e.DescriptiveVersion
	row[evColCreatedAt] = e.CreatedAt
	row[evColUpdatedAt] = e.UpdatedAt
	row[evColPlace] = e.Place
	row[evColCreationNotes] = e.CreationNotes
	row[evColStatus] = e.Status
	row[evColISODate] = e.ISODate
	return row
}

// FileToRow раскладывает файл по колонкам A..I.
func FileToRow(f *model.File) []any {
	row := make([]any, fileWidth)
	row[fileColID] = f.ID
	row[fileColEventID] = f.EventID
	row[fileColType] = f.Type
	row[fileColVersion] = f.Version
	row[fileColViewURL] = f.ViewURL
	row[fileColDriveID] = f.DriveID
	row[fileColOrigin] = f.Origin
	row[fileColViewCount] = strconv.Itoa(f.ViewCount)
	row[fileColUpdatedAt] = f.UpdatedAt
	return row
}

// PhotoToRow раскладывает фото по колонкам A..J.
func PhotoToRow(p *model.Photo) []any {
	row := make([]any, photoWidth)
	row[photoColID] = p.ID
	row[photoColEventID] = p.EventID
	row[photoColDriveID] = p.DriveID
	row[photoColOrder] = p.Order
	row[photoColURL] = p.URL
	row[photoColCaption] = p.Caption
	row[photoColCreatedAt] = p.CreatedAt
	row[photoColUpdatedAt] = p.UpdatedAt
	row[photoColActive] = p.Active
	row[photoColCredit] = p.Credit
	return row
}

// LogToRow раскладывает запись лога по колонкам A..F.
func LogToRow(l *model.LogEntry) []any {
	row := make([]any, logWidth)
	row[logColID] = l.ID
	row[logColFileID] = l.FileID
	row[logColEventID] = l.EventID
	row[logColUserEmail] = l.UserEmail
	row[logColTimestamp] = l.Timestamp
	row[logColAction] = l.Action
	return row
}
