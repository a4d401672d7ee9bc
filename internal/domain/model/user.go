package model

// AuthUser описывает пользователя из session token.
// Отдельно не хранится.
type AuthUser struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}
