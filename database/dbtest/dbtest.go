// Package dbtest opens a migrated PostgreSQL database for integration tests.
package dbtest

import (
	"os"
	"testing"

	"github.com/sahilchouksey/edupool/database"
	"gorm.io/gorm"
)

// tables in truncation order
var tables = []string{
	"admin_audit_logs",
	"cron_job_logs",
	"course_syllabus_items",
	"course_syllabus_groups",
	"college_courses",
	"university_courses",
	"colleges",
	"courses",
	"universities",
	"users",
	"admins",
}

// Open returns a clean database, or skips the test when integration tests are disabled.
// Set RUN_INTEGRATION_TESTS=true and TEST_DATABASE_DSN to enable.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run.")
	}
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	store, err := database.OpenGORM(dsn, "test")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	db := store.GetDB()
	for _, table := range tables {
		if err := db.Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE").Error; err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}

	t.Cleanup(func() { store.Close() })
	return db
}
