package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Addr:                   ":8080",
		Environment:            "development",
		BackendURL:             "http://backend.local",
		BackendTimeout:         5 * time.Second,
		PortalSecret:           "0123456789abcdef0123",
		SessionStore:           SessionStoreMemory,
		SessionTTL:             time.Hour,
		MaxBodyBytes:           1048576,
		MaxUploadBytes:         1048576,
		AuthRateLimitPerMinute: 10,
		PayrollDisplayRate:     1,
		PayrollDisplayCurrency: "USD",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "short secret", mutate: func(c *Config) { c.PortalSecret = "short" }, wantErr: true},
		{name: "memory store in production", mutate: func(c *Config) { c.Environment = "production" }, wantErr: true},
		{name: "postgres without url", mutate: func(c *Config) { c.SessionStore = SessionStorePostgres }, wantErr: true},
		{name: "postgres with url", mutate: func(c *Config) {
			c.SessionStore = SessionStorePostgres
			c.DatabaseURL = "postgres://localhost/portal"
		}},
		{name: "redis without url", mutate: func(c *Config) { c.SessionStore = SessionStoreRedis }, wantErr: true},
		{name: "unknown store", mutate: func(c *Config) { c.SessionStore = "disk" }, wantErr: true},
		{name: "zero display rate", mutate: func(c *Config) { c.PayrollDisplayRate = 0 }, wantErr: true},
		{name: "tiny body limit", mutate: func(c *Config) { c.MaxBodyBytes = 10 }, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://hr-backend:8001/")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("PAYROLL_DISPLAY_RATE", "82.5")
	t.Setenv("PAYROLL_DISPLAY_CURRENCY", "INR")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PORTAL_SECRET", "0123456789abcdef0123")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg := Load()

	require.Equal(t, "http://hr-backend:8001", cfg.BackendURL)
	require.Equal(t, SessionStoreRedis, cfg.SessionStore)
	require.Equal(t, 82.5, cfg.PayrollDisplayRate)
	require.Equal(t, "INR", cfg.PayrollDisplayCurrency)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	require.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnparseableValues(t *testing.T) {
	t.Setenv("PORTAL_SECRET", "0123456789abcdef0123")
	t.Setenv("PAYROLL_DISPLAY_RATE", "82,5")
	t.Setenv("SESSION_TTL", "a week")

	cfg := Load()
	require.Equal(t, 1.0, cfg.PayrollDisplayRate)

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "PAYROLL_DISPLAY_RATE")
	require.Contains(t, err.Error(), "SESSION_TTL")
}
