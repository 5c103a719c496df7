package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Logging  LoggingConfig
	Finance  FinanceConfig
	Screener ScreenerConfig
	LLM      LLMConfig
	Session  SessionConfig
	Limits   LimitsConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	Host           string
	Addr           string // Combined host:port for convenience
	InternalAPIKey string
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path             string
	LogRetentionDays int
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig selects the zap level and encoder ("json" or "console").
type LoggingConfig struct {
	Level  string
	Format string
}

// FinanceConfig holds the settings for the RapidAPI Yahoo Finance proxy.
// Key and Host are the static credential pair sent with every request.
type FinanceConfig struct {
	BaseURL   string
	Key       string
	Host      string
	RateLimit float64 // requests per second
	RateBurst int
	CacheTTL  time.Duration
	Timeout   time.Duration
}

// ScreenerConfig holds the admissibility thresholds applied to screener quotes.
type ScreenerConfig struct {
	MinVolume           int64
	MinPrice            int64
	MinMarketCap        int64
	MaxAbsChangePercent float64
}

// LLMConfig selects the chat-completion provider.
type LLMConfig struct {
	Provider string // openai, anthropic or gemini
	Model    string
	APIKey   string
	BaseURL  string // only used by the openai provider
	Timeout  time.Duration
}

// SessionConfig holds the session token settings.
type SessionConfig struct {
	Key string // base64 fernet key; generated at startup when empty
	TTL time.Duration
}

// LimitsConfig holds per-user and per-request limits.
type LimitsConfig struct {
	FreeQuestionLimit int // 0 disables the cap
	MaxUploadBytes    int64
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	var errs []string
	intVal := func(key string, def int) int {
		v, err := getEnvInt(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}
	int64Val := func(key string, def int64) int64 {
		v, err := getEnvInt64(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}
	floatVal := func(key string, def float64) float64 {
		v, err := getEnvFloat(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}
	durationVal := func(key string, def time.Duration) time.Duration {
		v, err := getEnvDuration(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "5001"),
			Host:           getEnv("SERVER_HOST", "localhost"),
			InternalAPIKey: getEnv("INTERNAL_API_KEY", ""),
		},
		Database: DatabaseConfig{
			Path:             getEnv("DB_PATH", "./data/stock_research.db"),
			LogRetentionDays: intVal("LOG_RETENTION_DAYS", 90),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Finance: FinanceConfig{
			BaseURL:   getEnv("FINANCE_API_BASE_URL", "https://apidojo-yahoo-finance-v1.p.rapidapi.com"),
			Key:       getEnv("FINANCE_API_KEY", ""),
			Host:      getEnv("FINANCE_API_HOST", "apidojo-yahoo-finance-v1.p.rapidapi.com"),
			RateLimit: floatVal("FINANCE_RATE_LIMIT", 5),
			RateBurst: intVal("FINANCE_RATE_BURST", 5),
			CacheTTL:  durationVal("QUOTE_CACHE_TTL", 30*time.Second),
			Timeout:   durationVal("HTTP_CLIENT_TIMEOUT", 15*time.Second),
		},
		Screener: ScreenerConfig{
			MinVolume:           int64Val("SCREENER_MIN_VOLUME", 100000),
			MinPrice:            int64Val("SCREENER_MIN_PRICE", 1),
			MinMarketCap:        int64Val("SCREENER_MIN_MARKET_CAP", 50000000),
			MaxAbsChangePercent: floatVal("SCREENER_MAX_ABS_CHANGE_PERCENT", 50),
		},
		LLM: LLMConfig{
			Provider: strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
			Model:    getEnv("LLM_MODEL", "gpt-4o-mini"),
			APIKey:   getEnv("LLM_API_KEY", ""),
			BaseURL:  getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
			Timeout:  durationVal("LLM_TIMEOUT", 60*time.Second),
		},
		Session: SessionConfig{
			Key: getEnv("SESSION_KEY", ""),
			TTL: durationVal("SESSION_TTL", 24*time.Hour),
		},
		Limits: LimitsConfig{
			FreeQuestionLimit: intVal("FREE_QUESTION_LIMIT", 0),
			MaxUploadBytes:    int64Val("MAX_UPLOAD_BYTES", 5<<20),
		},
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}

	if config.Screener.MinVolume < 0 || config.Screener.MinPrice < 0 || config.Screener.MinMarketCap < 0 {
		return nil, fmt.Errorf("invalid configuration: screener thresholds must be non-negative")
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be a number", key)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be a duration", key)
	}
	return v, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
