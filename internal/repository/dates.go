package repository

import (
	"strconv"
	"strings"
	"time"

	"github.com/bigkaa/vouemprovas/internal/domain/model"
)

// isoLayouts перечисляет форматы DataISO с зоной. Они переводятся
// в часовой пояс сервиса до взятия календарной даты.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

// В форматах isoLocalLayouts зоны нет, и дата берётся как записана.
var isoLocalLayouts = []string{
	time.DateOnly,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateTime,
}

// ParseISODate разбирает yyyy-mm-dd или полную метку RFC 3339.
// Некорректная или календарно невозможная дата даёт false.
func ParseISODate(s string, loc *time.Location) (model.Day, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Day{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.DayOf(t.In(loc)), true
		}
	}
	for _, layout := range isoLocalLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.DayOf(t), true
		}
	}
	return model.Day{}, false
}

// ParseLegacyDate разбирает дату DD/MM/AAAA.
// Допускаются однозначные день и месяц ("5/3/2025").
func ParseLegacyDate(s string) (model.Day, bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return model.Day{}, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			return model.Day{}, false
		}
		nums[i] = n
	}
	day, month, year := nums[0], nums[1], nums[2]
	if month > 12 || day > 31 {
		return model.Day{}, false
	}

	// time.Date нормализует 31/02 в 03/03: такую дату считаем невалидной
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return model.Day{}, false
	}
	return model.DayOf(t), true
}

// ResolveDate выбирает дату записи: ISO, если разбирается, иначе legacy.
func ResolveDate(iso, legacy string, loc *time.Location) model.DateSource {
	if d, ok := ParseISODate(iso, loc); ok {
		return model.DateSource{Origin: model.DateISO, Day: d}
	}
	if d, ok := ParseLegacyDate(legacy); ok {
		return model.DateSource{Origin: model.DateLegacy, Day: d}
	}
	return model.DateSource{Origin: model.DateUndetermined}
}
