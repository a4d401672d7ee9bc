// Пакет config загружает и проверяет конфигурацию Vou Em Provas API
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// DefaultGoogleJWKSURL указывает на JWKS Google для проверки подписи ID token.
const DefaultGoogleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

// Config содержит все параметры конфигурации сервиса.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- HTTP Server Timeouts ---

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// Таймаут graceful shutdown (по умолчанию 5s)
	ShutdownTimeout time.Duration

	// --- Google Sheets ---

	// ID таблицы, которая служит хранилищем
	SheetID string
	// Email service account
	ServiceAccountEmail string
	// Приватный ключ service account (PEM, \n уже нормализованы)
	ServiceAccountPrivateKey string

	// --- Google Sign-In ---

	// Допустимые audience (OAuth client ID), одновременно может быть несколько
	GoogleClientIDs []string
	// URL JWKS Google
	GoogleJWKSURL string
	// Интервал обновления JWKS-ключей
	JWKSRefreshInterval time.Duration

	// --- Сессии ---

	// Секрет HS256 для session token
	SessionSecret string
	// Secure flag для cookie (true за HTTPS)
	CookieSecure bool
	// Сырой JSON email→роль, разбирается в rbac.ParseRoleMap
	RoleMap string

	// --- Бизнес-параметры ---

	// Часовой пояс для корзин hoje/antes/depois
	Timezone string
	// Сколько последних логов показывать на странице статуса
	RecentLogs int

	// --- Rate limiting ---

	// Запросов на IP за окно. При 0 ограничение выключено
	RateLimitRequests int
	RateLimitWindow   time.Duration
	// Брать IP клиента из X-Forwarded-For/X-Real-IP. Включать только
	// за доверенным балансировщиком, который перезаписывает эти заголовки
	TrustProxyHeaders bool

	// --- topologymetrics ---

	DephealthEnabled       bool
	DephealthGroup         string
	DephealthCheckInterval time.Duration
}

// Load загружает конфигурацию из переменных окружения.
// Возвращает ошибку, если обязательные переменные не заданы
// или значения некорректны.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// Порт HTTP-сервера, по умолчанию 8080
	cfg.Port, err = getEnvInt("VEP_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("VEP_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("VEP_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	cfg.LogLevel, err = parseLogLevel(getEnvDefault("VEP_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("VEP_LOG_LEVEL: %w", err)
	}

	cfg.LogFormat = getEnvDefault("VEP_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("VEP_LOG_FORMAT: недопустимый формат %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- HTTP Server Timeouts ---

	cfg.HTTPReadTimeout, err = getEnvDuration("VEP_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("VEP_HTTP_READ_TIMEOUT: %w", err)
	}
	cfg.HTTPWriteTimeout, err = getEnvDuration("VEP_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("VEP_HTTP_WRITE_TIMEOUT: %w", err)
	}
	cfg.HTTPIdleTimeout, err = getEnvDuration("VEP_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("VEP_HTTP_IDLE_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout, err = getEnvDuration("VEP_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("VEP_SHUTDOWN_TIMEOUT: %w", err)
	}

	// --- Google Sheets ---

	cfg.SheetID, err = getEnvRequired("VEP_GOOGLE_SHEET_ID")
	if err != nil {
		return nil, err
	}
	cfg.ServiceAccountEmail, err = getEnvRequired("VEP_GOOGLE_SERVICE_ACCOUNT_EMAIL")
	if err != nil {
		return nil, err
	}
	rawKey, err := getEnvRequired("VEP_GOOGLE_SERVICE_ACCOUNT_PRIVATE_KEY")
	if err != nil {
		return nil, err
	}
	// В секретах перевод строки часто приходит как литерал \n
	cfg.ServiceAccountPrivateKey = NormalizePrivateKey(rawKey)

	// --- Google Sign-In ---

	clientIDs, err := getEnvRequired("VEP_GOOGLE_CLIENT_IDS")
	if err != nil {
		return nil, err
	}
	cfg.GoogleClientIDs = parseCSV(clientIDs)
	if len(cfg.GoogleClientIDs) == 0 {
		return nil, fmt.Errorf("VEP_GOOGLE_CLIENT_IDS: нужен хотя бы один client ID")
	}

	cfg.GoogleJWKSURL = getEnvDefault("VEP_GOOGLE_JWKS_URL", DefaultGoogleJWKSURL)
	cfg.JWKSRefreshInterval, err = getEnvDuration("VEP_JWKS_REFRESH_INTERVAL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("VEP_JWKS_REFRESH_INTERVAL: %w", err)
	}

	// --- Сессии ---

	cfg.SessionSecret, err = getEnvRequired("VEP_SESSION_SECRET")
	if err != nil {
		return nil, err
	}
	if len(cfg.SessionSecret) < 16 {
		return nil, fmt.Errorf("VEP_SESSION_SECRET: минимальная длина 16 символов")
	}

	cfg.CookieSecure, err = getEnvBool("VEP_COOKIE_SECURE", true)
	if err != nil {
		return nil, fmt.Errorf("VEP_COOKIE_SECURE: %w", err)
	}

	// JSON {"email":"role"}. Ошибки разбора не фатальны
	cfg.RoleMap = getEnvDefault("VEP_ROLE_MAP", "{}")

	// --- Бизнес-параметры ---

	cfg.Timezone = getEnvDefault("VEP_TIMEZONE", "America/Sao_Paulo")
	if _, err := time.LoadLocation(cfg.Timezone); err != nil && cfg.Timezone != "America/Sao_Paulo" {
		return nil, fmt.Errorf("VEP_TIMEZONE: неизвестный часовой пояс %q", cfg.Timezone)
	}

	cfg.RecentLogs, err = getEnvInt("VEP_RECENT_LOGS", 10)
	if err != nil {
		return nil, fmt.Errorf("VEP_RECENT_LOGS: %w", err)
	}
	if cfg.RecentLogs < 1 {
		return nil, fmt.Errorf("VEP_RECENT_LOGS: значение должно быть > 0")
	}

	// --- Rate limiting ---

	cfg.RateLimitRequests, err = getEnvInt("VEP_RATE_LIMIT_REQUESTS", 120)
	if err != nil {
		return nil, fmt.Errorf("VEP_RATE_LIMIT_REQUESTS: %w", err)
	}
	if cfg.RateLimitRequests < 0 {
		return nil, fmt.Errorf("VEP_RATE_LIMIT_REQUESTS: значение должно быть >= 0")
	}
	cfg.RateLimitWindow, err = getEnvDurationFallback("VEP_RATE_LIMIT_WINDOW", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("VEP_RATE_LIMIT_WINDOW: %w", err)
	}
	cfg.TrustProxyHeaders, err = getEnvBool("VEP_TRUST_PROXY_HEADERS", false)
	if err != nil {
		return nil, fmt.Errorf("VEP_TRUST_PROXY_HEADERS: %w", err)
	}

	// --- topologymetrics ---

	cfg.DephealthEnabled, err = getEnvBool("VEP_DEPHEALTH_ENABLED", true)
	if err != nil {
		return nil, fmt.Errorf("VEP_DEPHEALTH_ENABLED: %w", err)
	}
	cfg.DephealthGroup = getEnvDefault("VEP_DEPHEALTH_GROUP", "vouemprovas")
	cfg.DephealthCheckInterval, err = getEnvDurationFallback("VEP_DEPHEALTH_CHECK_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("VEP_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	return cfg, nil
}

// NormalizePrivateKey заменяет экранированные \n на настоящие переводы строки.
func NormalizePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// getEnvDurationFallback работает как getEnvDuration, но требует значение > 0.
func getEnvDurationFallback(key string, fallbackVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallbackVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	if d <= 0 {
		return 0, fmt.Errorf("значение должно быть > 0")
	}
	return d, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q (допустимые: true, false, 1, 0)", val)
	}
	return b, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// parseCSV разбирает строку, разделённую запятыми, на срез строк.
// Пробелы вокруг элементов убираются, пустые элементы игнорируются.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
