package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	RequestTimeout     time.Duration
	BackendBaseURL     string
	BackendTimeout     time.Duration
	SessionCookie      string
	SessionIdleTTL     time.Duration
	CORSOrigins        []string
	RateLimitRPM       int
	ExportRateLimitRPM int
	PageSize           int
	AlertTTL           time.Duration
	AlertQueueSize     int
	ExportMaxRows      int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		ServerReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		ServerWriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		ServerIdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 30*time.Second),
		BackendBaseURL:     strings.TrimSpace(os.Getenv("BACKEND_BASE_URL")),
		BackendTimeout:     getDuration("BACKEND_TIMEOUT", 30*time.Second),
		SessionCookie:      getEnv("SESSION_COOKIE", "dealer_session"),
		SessionIdleTTL:     getDuration("SESSION_IDLE_TTL", 30*time.Minute),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:       getInt("RATE_LIMIT_RPM", 300),
		ExportRateLimitRPM: getInt("EXPORT_RATE_LIMIT_RPM", 10),
		PageSize:           getInt("PAGE_SIZE", 10),
		AlertTTL:           getDuration("ALERT_TTL", 5*time.Second),
		AlertQueueSize:     getInt("ALERT_QUEUE_SIZE", 4),
		ExportMaxRows:      getInt("EXPORT_MAX_ROWS", 50000),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.BackendBaseURL == "" {
		return fmt.Errorf("BACKEND_BASE_URL is required")
	}

	parsed, err := url.Parse(c.BackendBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("BACKEND_BASE_URL must be an absolute URL")
	}

	if strings.TrimSpace(c.SessionCookie) == "" {
		return fmt.Errorf("SESSION_COOKIE cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.BackendTimeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}

	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive")
	}

	if c.AlertQueueSize <= 0 {
		return fmt.Errorf("ALERT_QUEUE_SIZE must be positive")
	}

	if c.AlertTTL <= 0 {
		return fmt.Errorf("ALERT_TTL must be positive")
	}

	if c.ExportMaxRows <= 0 {
		return fmt.Errorf("EXPORT_MAX_ROWS must be positive")
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
