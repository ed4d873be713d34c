package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/xxxsen/notesrv/internal/config"
	"github.com/xxxsen/notesrv/internal/db"
)

// OpenTestDB opens a migrated SQLite database in a per-test temp dir. It is
// closed when the test finishes.
func OpenTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	return open(t, config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "notes.db"),
	})
}

// OpenPostgresTestDB is skipped unless TEST_PG_DSN is set.
func OpenPostgresTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN not set, skipping postgres test")
	}
	conn := open(t, config.DatabaseConfig{Driver: config.DriverPostgres, DSN: dsn})
	if _, err := conn.Exec("TRUNCATE notes RESTART IDENTITY"); err != nil {
		t.Fatalf("truncate notes: %v", err)
	}
	return conn
}

func open(t *testing.T, cfg config.DatabaseConfig) *sqlx.DB {
	t.Helper()
	conn, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	if err := db.ApplyMigrations(context.Background(), conn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return conn
}
