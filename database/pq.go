package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq"
	"github.com/sahilchouksey/edupool/config"
	"gorm.io/gorm"
)

// Storage defines the interface that the application database must satisfy
type Storage interface {
	// Lifecycle methods
	Init() error
	Close() error
	HealthCheck() error

	GetDB() *gorm.DB
}

// PostgreSQLStore is a plain database/sql connection used for maintenance tasks
// that sit outside GORM (creating the database, inspecting constraints).
type PostgreSQLStore struct {
	db *sql.DB
}

func Start(dsn string) (*PostgreSQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		fmt.Println("Unable to Start PostgresSQL Database.")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &PostgreSQLStore{
		db: db,
	}, nil
}

func (s *PostgreSQLStore) Close() error {
	return s.db.Close()
}

// HealthCheck verifies the database connection is alive
func (s *PostgreSQLStore) HealthCheck() error {
	return s.db.Ping()
}

// EnsureDatabase creates the configured database when it does not exist yet
func EnsureDatabase(cfg *config.EnvironmentVariable) error {
	store, err := Start(cfg.MaintenanceDSN())
	if err != nil {
		return fmt.Errorf("connect to maintenance database: %w", err)
	}
	defer store.Close()

	var exists bool
	err = store.db.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DB_NAME).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check database %s: %w", cfg.DB_NAME, err)
	}
	if exists {
		return nil
	}

	log.Printf("Creating database %s", cfg.DB_NAME)
	if _, err := store.db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(cfg.DB_NAME)); err != nil {
		var pqErr *pq.Error
		// 42P04: duplicate_database, another process won the race
		if errors.As(err, &pqErr) && pqErr.Code == "42P04" {
			return nil
		}
		return fmt.Errorf("create database %s: %w", cfg.DB_NAME, err)
	}
	return nil
}
