// Пакет auth проверяет Google ID token и выпускает собственные session token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidIdentityToken возвращается при любом отказе в проверке ID token.
// Конкретная причина пишется только в debug-лог.
var ErrInvalidIdentityToken = errors.New("невалидный Google ID token")

// googleIssuers перечисляет допустимые значения iss для Google ID token.
var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// googleLeeway задаёт допустимое отклонение часов при проверке exp/iat.
const googleLeeway = 30 * time.Second

// Identity описывает пользователя, подтверждённого Google.
type Identity struct {
	Email string
	Name  string
}

// googleClaims содержит claims Google ID token.
type googleClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	// В старых токенах приходит строкой "true"/"false"
	EmailVerified any    `json:"email_verified,omitempty"`
	Name          string `json:"name,omitempty"`
}

// emailVerified возвращает false, только если claim явно ложный.
func (c *googleClaims) emailVerified() bool {
	switch v := c.EmailVerified.(type) {
	case bool:
		return v
	case string:
		return !strings.EqualFold(v, "false")
	default:
		return true
	}
}

// GoogleVerifier проверяет ID token, выданный Google Sign-In.
type GoogleVerifier struct {
	jwks      keyfunc.Keyfunc
	audiences []string
	logger    *slog.Logger
}

// NewGoogleVerifier создаёт верификатор с JWKS Google.
// audiences перечисляет допустимые OAuth client ID, их может быть несколько.
// Ключи обновляются в фоне раз в refreshInterval.
func NewGoogleVerifier(
	jwksURL string,
	audiences []string,
	refreshInterval time.Duration,
	logger *slog.Logger,
) (*GoogleVerifier, error) {
	// Стартуем, даже если JWKS пока недоступен
	storage, err := jwkset.NewStorageFromHTTP(jwksURL, jwkset.HTTPClientStorageOptions{
		Client:                    &http.Client{Timeout: 10 * time.Second},
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           refreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("Ошибка обновления Google JWKS",
				slog.String("error", err.Error()),
				slog.String("url", jwksURL),
			)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("создание JWKS storage: %w", err)
	}

	k, err := keyfunc.New(keyfunc.Options{
		Storage: storage,
	})
	if err != nil {
		return nil, fmt.Errorf("создание keyfunc: %w", err)
	}

	return NewGoogleVerifierWithKeyfunc(k, audiences, logger), nil
}

// NewGoogleVerifierWithKeyfunc создаёт верификатор с готовым keyfunc.
// Используется в тестах с локальным JWKS.
func NewGoogleVerifierWithKeyfunc(kf keyfunc.Keyfunc, audiences []string, logger *slog.Logger) *GoogleVerifier {
	return &GoogleVerifier{
		jwks:      kf,
		audiences: audiences,
		logger:    logger.With(slog.String("component", "google_verifier")),
	}
}

// Verify проверяет подпись RS256, срок действия, issuer, audience и email.
// Любая ошибка сводится к ErrInvalidIdentityToken.
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	identity, err := v.verify(ctx, idToken)
	if err != nil {
		v.logger.Debug("Google ID token отклонён", slog.String("reason", err.Error()))
		return nil, ErrInvalidIdentityToken
	}
	return identity, nil
}

func (v *GoogleVerifier) verify(ctx context.Context, idToken string) (*Identity, error) {
	if idToken == "" {
		return nil, errors.New("пустой токен")
	}

	claims := &googleClaims{}
	token, err := jwt.ParseWithClaims(idToken, claims, v.jwks.KeyfuncCtx(ctx),
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(googleLeeway),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("токен невалиден")
	}

	if !containsString(googleIssuers, claims.Issuer) {
		return nil, fmt.Errorf("неожиданный issuer %q", claims.Issuer)
	}
	if !v.audienceAllowed(claims.Audience) {
		return nil, fmt.Errorf("неожиданный audience %v", claims.Audience)
	}

	email := strings.TrimSpace(claims.Email)
	if email == "" {
		return nil, errors.New("нет email в токене")
	}
	if !claims.emailVerified() {
		return nil, errors.New("email не подтверждён")
	}

	return &Identity{Email: email, Name: claims.Name}, nil
}

// audienceAllowed проверяет, что хотя бы один aud из токена входит в список client ID.
func (v *GoogleVerifier) audienceAllowed(aud jwt.ClaimStrings) bool {
	for _, a := range aud {
		if containsString(v.audiences, a) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
