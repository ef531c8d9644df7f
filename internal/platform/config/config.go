package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
)

type Config struct {
	Addr                   string
	Environment            string
	BackendURL             string
	BackendTimeout         time.Duration
	PortalSecret           string
	SessionStore           string
	SessionTTL             time.Duration
	DatabaseURL            string
	RedisURL               string
	RunMigrations          bool
	MaxBodyBytes           int64
	MaxUploadBytes         int64
	AuthRateLimitPerMinute int
	CORSOrigins            []string
	MetricsEnabled         bool
	WorkspaceIdleTimeout   time.Duration
	PayrollDisplayRate     float64
	PayrollDisplayCurrency string

	// malformed names the keys Load found set but could not parse.
	malformed []string
}

func Load() Config {
	_ = godotenv.Load()

	env := &envReader{}
	cfg := Config{
		Addr:                   getEnv("APP_ADDR", ":8080"),
		Environment:            getEnv("APP_ENV", "development"),
		BackendURL:             strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8001"), "/"),
		BackendTimeout:         env.duration("BACKEND_TIMEOUT", 15*time.Second),
		PortalSecret:           getEnv("PORTAL_SECRET", ""),
		SessionStore:           strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
		SessionTTL:             env.duration("SESSION_TTL", 7*24*time.Hour),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		RedisURL:               getEnv("REDIS_URL", ""),
		RunMigrations:          env.boolean("RUN_MIGRATIONS", true),
		MaxBodyBytes:           int64(env.integer("MAX_BODY_BYTES", 1048576)),
		MaxUploadBytes:         int64(env.integer("MAX_UPLOAD_BYTES", 5*1048576)),
		AuthRateLimitPerMinute: env.integer("AUTH_RATE_LIMIT_PER_MINUTE", 20),
		CORSOrigins:            splitCSV(getEnv("CORS_ORIGINS", "")),
		MetricsEnabled:         env.boolean("METRICS_ENABLED", true),
		WorkspaceIdleTimeout:   env.duration("WORKSPACE_IDLE_TIMEOUT", 30*time.Minute),
		PayrollDisplayRate:     env.number("PAYROLL_DISPLAY_RATE", 1),
		PayrollDisplayCurrency: getEnv("PAYROLL_DISPLAY_CURRENCY", "USD"),
	}
	cfg.malformed = env.malformed
	return cfg
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

// envReader parses typed keys and remembers the ones that were set but unparseable.
type envReader struct {
	malformed []string
}

func (e *envReader) lookup(key string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	return value, value != ""
}

func (e *envReader) boolean(key string, fallback bool) bool {
	value, ok := e.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		e.malformed = append(e.malformed, key)
		return fallback
	}
	return parsed
}

func (e *envReader) integer(key string, fallback int) int {
	value, ok := e.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		e.malformed = append(e.malformed, key)
		return fallback
	}
	return parsed
}

func (e *envReader) number(key string, fallback float64) float64 {
	value, ok := e.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		e.malformed = append(e.malformed, key)
		return fallback
	}
	return parsed
}

func (e *envReader) duration(key string, fallback time.Duration) time.Duration {
	value, ok := e.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		e.malformed = append(e.malformed, key)
		return fallback
	}
	return parsed
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (c Config) Validate() error {
	if len(c.malformed) > 0 {
		return fmt.Errorf("unparseable values for %s", strings.Join(c.malformed, ", "))
	}
	if strings.TrimSpace(c.BackendURL) == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if len(strings.TrimSpace(c.PortalSecret)) < 16 {
		return fmt.Errorf("PORTAL_SECRET must be at least 16 characters")
	}
	switch c.SessionStore {
	case SessionStoreMemory:
		if c.IsProduction() {
			return fmt.Errorf("SESSION_STORE=memory does not survive restarts; use postgres or redis in production")
		}
	case SessionStorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when SESSION_STORE=postgres")
		}
	case SessionStoreRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("REDIS_URL is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be one of memory, postgres, redis")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.BackendTimeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.MaxUploadBytes < 1024 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be at least 1024")
	}
	if c.AuthRateLimitPerMinute <= 0 {
		return fmt.Errorf("AUTH_RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.PayrollDisplayRate <= 0 {
		return fmt.Errorf("PAYROLL_DISPLAY_RATE must be positive")
	}
	if strings.TrimSpace(c.PayrollDisplayCurrency) == "" {
		return fmt.Errorf("PAYROLL_DISPLAY_CURRENCY is required")
	}
	return nil
}
