package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bigkaa/vouemprovas/internal/domain/model"
	"github.com/bigkaa/vouemprovas/internal/domain/rbac"
)

// Имя cookie с session token.
const SessionCookieName = "auth_token"

// SessionTTL задаёт срок действия сессии (7 дней).
const SessionTTL = 7 * 24 * time.Hour

// sessionIssuer пишется в iss собственных токенов.
const sessionIssuer = "vouemprovas"

// ErrInvalidSession означает, что токена сессии нет либо он подделан или просрочен.
var ErrInvalidSession = errors.New("невалидная или просроченная сессия")

// sessionClaims содержит claims session token.
type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

// SessionManager выпускает и проверяет session token (HS256).
// Состояние сессий на сервере не хранится.
type SessionManager struct {
	secret []byte
	// Secure flag для cookie, true за HTTPS
	secure bool
	now    func() time.Time
}

// NewSessionManager создаёт менеджер сессий с симметричным секретом.
func NewSessionManager(secret string, secure bool) (*SessionManager, error) {
	if secret == "" {
		return nil, errors.New("секрет сессии не задан")
	}
	return &SessionManager{
		secret: []byte(secret),
		secure: secure,
		now:    time.Now,
	}, nil
}

// WithClock подменяет источник текущего времени.
func (sm *SessionManager) WithClock(now func() time.Time) *SessionManager {
	sm.now = now
	return sm
}

// Issue подписывает токен с email, name и role пользователя.
func (sm *SessionManager) Issue(user *model.AuthUser) (string, error) {
	now := sm.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    sessionIssuer,
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sm.secret)
	if err != nil {
		return "", fmt.Errorf("подпись session token: %w", err)
	}
	return token, nil
}

// Validate проверяет подпись и срок действия токена.
// Любая ошибка сводится к ErrInvalidSession.
func (sm *SessionManager) Validate(tokenString string) (*model.AuthUser, error) {
	if tokenString == "" {
		return nil, ErrInvalidSession
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return sm.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(sm.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	if claims.Email == "" || !rbac.IsValidRole(claims.Role) {
		return nil, ErrInvalidSession
	}

	return &model.AuthUser{Email: claims.Email, Name: claims.Name, Role: claims.Role}, nil
}

// SetCookie устанавливает session cookie в ответ.
func (sm *SessionManager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie удаляет session cookie (logout).
func (sm *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest извлекает token из cookie, затем из Authorization: Bearer.
// Пустая строка: токена нет.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
