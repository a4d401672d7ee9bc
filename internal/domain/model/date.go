package model

import "time"

// DateOrigin указывает, откуда взята дата записи.
type DateOrigin int

const (
	// Дату определить не удалось
	DateUndetermined DateOrigin = iota
	// Из колонки DataISO
	DateISO
	// Из колонки Data (DD/MM/AAAA)
	DateLegacy
)

// String возвращает имя источника для логов.
func (o DateOrigin) String() string {
	switch o {
	case DateISO:
		return "iso"
	case DateLegacy:
		return "legacy"
	default:
		return "undetermined"
	}
}

// Day хранит календарную дату без времени и часового пояса.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf возвращает календарную дату момента t в его часовом поясе.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// Compare сравнивает две даты: -1, 0 или 1.
func (d Day) Compare(other Day) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

// String форматирует дату как yyyy-mm-dd.
func (d Day) String() string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(time.DateOnly)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// DateSource хранит дату записи вместе с её источником.
// Разрешается один раз при маппинге: ISO приоритетнее legacy.
type DateSource struct {
	Origin DateOrigin
	// Day заполнен, только если Origin != DateUndetermined
	Day Day
}

// Known сообщает, определена ли дата.
func (s DateSource) Known() bool {
	return s.Origin != DateUndetermined
}
