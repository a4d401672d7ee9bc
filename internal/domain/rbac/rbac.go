// Пакет rbac определяет роль пользователя по статической карте email→роль.
// Карта загружается один раз при старте и дальше не меняется.
// Правила: точное совпадение email → запись "*" → viewer.
package rbac

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// Роли в порядке возрастания привилегий.
const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// DefaultRole назначается, если email не найден и wildcard не задан.
const DefaultRole = RoleViewer

// wildcardKey задаёт роль для всех email, которых нет в карте.
const wildcardKey = "*"

var validRoles = map[string]struct{}{
	RoleViewer: {},
	RoleEditor: {},
	RoleAdmin:  {},
}

// IsValidRole проверяет, является ли строка допустимой ролью.
func IsValidRole(role string) bool {
	_, ok := validRoles[role]
	return ok
}

// HasAnyRole проверяет, входит ли role в набор allowed.
func HasAnyRole(role string, allowed ...string) bool {
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}

// RoleMap хранит неизменяемую карту email→роль.
type RoleMap struct {
	roles map[string]string
}

// ParseRoleMap разбирает JSON вида {"email":"role","*":"role"}.
// Ключи приводятся к нижнему регистру и очищаются от пробелов.
// Записи с неизвестной ролью отбрасываются, некорректный JSON даёт пустую
// карту. В обоих случаях пишется предупреждение, старт не прерывается.
func ParseRoleMap(raw string, logger *slog.Logger) *RoleMap {
	rm := &RoleMap{roles: make(map[string]string)}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return rm
	}

	var parsed map[string]string
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		logger.Warn("Некорректная карта ролей, используется пустая",
			slog.String("error", err.Error()),
		)
		return rm
	}

	for email, role := range parsed {
		key := normalizeEmail(email)
		role = strings.ToLower(strings.TrimSpace(role))
		if key == "" || !IsValidRole(role) {
			logger.Warn("Запись карты ролей пропущена",
				slog.String("email", email),
				slog.String("role", role),
			)
			continue
		}
		rm.roles[key] = role
	}
	return rm
}

// Resolve возвращает роль для email: точное совпадение, затем "*", затем viewer.
func (m *RoleMap) Resolve(email string) string {
	if m == nil {
		return DefaultRole
	}
	if role, ok := m.roles[normalizeEmail(email)]; ok {
		return role
	}
	if role, ok := m.roles[wildcardKey]; ok {
		return role
	}
	return DefaultRole
}

// Len возвращает число записей карты.
func (m *RoleMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.roles)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
