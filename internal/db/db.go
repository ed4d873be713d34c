package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/xxxsen/notesrv/internal/config"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

const sqliteBusyTimeoutMs = 5000

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about.
	sqlx.BindDriver(config.DriverSQLite, sqlx.QUESTION)
}

func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}
	conn, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, err
	}
	switch {
	case cfg.Driver == config.DriverSQLite:
		// single writer; sessions queue on the pool instead of failing with SQLITE_BUSY
		conn.SetMaxOpenConns(1)
	case cfg.MaxOpenConns > 0:
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

func buildDSN(cfg config.DatabaseConfig) (string, error) {
	if cfg.Driver != config.DriverSQLite {
		if cfg.DSN == "" {
			return "", fmt.Errorf("dsn is required for driver %s", cfg.Driver)
		}
		return cfg.DSN, nil
	}
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create db dir: %w", err)
		}
	}
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)", filepath.Clean(cfg.Path), sqliteBusyTimeoutMs), nil
}

// ApplyMigrations creates the schema if absent. Every statement is idempotent,
// so it is safe to run on each start.
func ApplyMigrations(ctx context.Context, conn *sqlx.DB) error {
	dir := path.Join("migrations", conn.DriverName())
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("no migrations for driver %s: %w", conn.DriverName(), err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	for _, file := range files {
		content, err := fs.ReadFile(migrationsFS, path.Join(dir, file))
		if err != nil {
			return err
		}
		queries := strings.Split(string(content), ";")
		for _, q := range queries {
			q = strings.TrimSpace(q)
			if q == "" {
				continue
			}
			if _, err := conn.ExecContext(ctx, q); err != nil {
				return fmt.Errorf("execute query in %s: %w", file, err)
			}
		}
		logutil.GetLogger(ctx).Debug("migration applied", zap.String("driver", conn.DriverName()), zap.String("file", file))
	}
	return nil
}
