package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "SESSION_TIMEOUT", "AUDIT_RETENTION_DAYS", "RATE_LIMIT_REQUESTS",
		"DB_NAME", "DB_HOST", "DB_PORT", "DB_SSL_MODE", "UPLOAD_DIR", "STORAGE_BACKEND", "CRON_ENABLED", "COOKIE_SECURE"} {
		t.Setenv(key, "")
	}

	cfg, err := Get()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.PORT)
	assert.Equal(t, time.Hour, cfg.SESSION_TIMEOUT)
	assert.Equal(t, 90, cfg.AUDIT_RETENTION_DAYS)
	assert.Equal(t, 120, cfg.RATE_LIMIT_REQUESTS)
	assert.Equal(t, "edupool", cfg.DB_NAME)
	assert.Equal(t, "./uploads", cfg.UPLOAD_DIR)
	assert.Equal(t, "local", cfg.STORAGE_BACKEND)
	assert.True(t, cfg.CRON_ENABLED)
	assert.False(t, cfg.COOKIE_SECURE)
}

func TestGet_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_TIMEOUT", "30m")
	t.Setenv("CRON_ENABLED", "false")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("AUDIT_RETENTION_DAYS", "-4")

	cfg, err := Get()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.PORT)
	assert.Equal(t, 30*time.Minute, cfg.SESSION_TIMEOUT)
	assert.False(t, cfg.CRON_ENABLED)
	assert.True(t, cfg.COOKIE_SECURE)
	assert.Equal(t, 90, cfg.AUDIT_RETENTION_DAYS)
}

func TestDSN(t *testing.T) {
	cfg := &EnvironmentVariable{DB_HOST: "db", DB_USER_NAME: "edu", DB_PASSWORD: "pw", DB_NAME: "edupool", DB_PORT: "5432", DB_SSL_MODE: "disable"}

	assert.Equal(t, "host=db user=edu password=pw dbname=edupool port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
	assert.Contains(t, cfg.MaintenanceDSN(), "dbname=postgres ")
}
