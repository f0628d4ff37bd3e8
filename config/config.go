package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadENV loads the environment variables from .env when GO_ENV is unset or "development".
// A missing .env file is not an error.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return nil
}

type EnvironmentVariable struct {
	GO_ENV       string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	PORT         int
	// Session & remember-me
	SESSION_SECRET  string
	SESSION_TIMEOUT time.Duration
	JWT_ISSUER      string
	COOKIE_SECURE   bool
	// Redis
	REDIS_URL string
	// Uploads
	UPLOAD_DIR      string
	STORAGE_BACKEND string // "local" or "spaces"
	// DigitalOcean Spaces
	DO_SPACES_KEY      string
	DO_SPACES_SECRET   string
	DO_SPACES_BUCKET   string
	DO_SPACES_REGION   string
	DO_SPACES_ENDPOINT string
	DO_SPACES_CDN_URL  string
	// Activity log
	ACTIVITY_LOG_PATH string
	// Background jobs
	CRON_ENABLED         bool
	AUDIT_RETENTION_DAYS int
	// Security
	ALLOWED_ORIGINS     string
	RATE_LIMIT_REQUESTS int
}

func Get() (*EnvironmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	sessionTimeout, err := time.ParseDuration(os.Getenv("SESSION_TIMEOUT"))
	if err != nil || sessionTimeout <= 0 {
		sessionTimeout = time.Hour
	}

	retentionDays, err := strconv.Atoi(os.Getenv("AUDIT_RETENTION_DAYS"))
	if err != nil || retentionDays <= 0 {
		retentionDays = 90
	}

	rateLimit, err := strconv.Atoi(os.Getenv("RATE_LIMIT_REQUESTS"))
	if err != nil {
		rateLimit = 120
	}

	envVariables := &EnvironmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      getOrDefault("DB_NAME", "edupool"),
		DB_HOST:      getOrDefault("DB_HOST", "localhost"),
		DB_PORT:      getOrDefault("DB_PORT", "5432"),
		DB_SSL_MODE:  getOrDefault("DB_SSL_MODE", "disable"),
		PORT:         port,

		SESSION_SECRET:  os.Getenv("SESSION_SECRET"),
		SESSION_TIMEOUT: sessionTimeout,
		JWT_ISSUER:      getOrDefault("JWT_ISSUER", "edupool"),
		COOKIE_SECURE:   os.Getenv("COOKIE_SECURE") == "true",

		REDIS_URL: os.Getenv("REDIS_URL"),

		UPLOAD_DIR:      getOrDefault("UPLOAD_DIR", "./uploads"),
		STORAGE_BACKEND: getOrDefault("STORAGE_BACKEND", "local"),

		DO_SPACES_KEY:      os.Getenv("DO_SPACES_KEY"),
		DO_SPACES_SECRET:   os.Getenv("DO_SPACES_SECRET"),
		DO_SPACES_BUCKET:   os.Getenv("DO_SPACES_BUCKET"),
		DO_SPACES_REGION:   getOrDefault("DO_SPACES_REGION", "blr1"),
		DO_SPACES_ENDPOINT: os.Getenv("DO_SPACES_ENDPOINT"),
		DO_SPACES_CDN_URL:  os.Getenv("DO_SPACES_CDN_URL"),

		ACTIVITY_LOG_PATH: getOrDefault("ACTIVITY_LOG_PATH", "logs/activity.log"),

		CRON_ENABLED:         os.Getenv("CRON_ENABLED") != "false", // Default to enabled
		AUDIT_RETENTION_DAYS: retentionDays,

		ALLOWED_ORIGINS:     getOrDefault("ALLOWED_ORIGINS", "http://localhost:8080"),
		RATE_LIMIT_REQUESTS: rateLimit,
	}

	return envVariables, nil
}

// DSN builds the PostgreSQL connection string for GORM and lib/pq
func (e *EnvironmentVariable) DSN() string {
	return e.dsnFor(e.DB_NAME)
}

func (e *EnvironmentVariable) dsnFor(dbName string) string {
	return "host=" + e.DB_HOST +
		" user=" + e.DB_USER_NAME +
		" password=" + e.DB_PASSWORD +
		" dbname=" + dbName +
		" port=" + e.DB_PORT +
		" sslmode=" + e.DB_SSL_MODE +
		" TimeZone=UTC"
}

// MaintenanceDSN points at the "postgres" database, used to create the application database
func (e *EnvironmentVariable) MaintenanceDSN() string {
	return e.dsnFor("postgres")
}

func getOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
