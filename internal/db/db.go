package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goran-ethernal/EventCache/pkg/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

const (
	sqliteDriver   = "sqlite3"
	postgresDriver = "pgx"

	postgresMaxIdleTime = 5 * time.Minute
)

// sqliteDSN builds a go-sqlite3 connection string. Transactions take the write lock on BEGIN
// and foreign keys are always on, so cached entries cascade with their progress record.
func sqliteDSN(path, journalMode string, busyTimeoutMs int) string {
	return fmt.Sprintf("file:%s?_txlock=immediate&_foreign_keys=on&_journal_mode=%s&_busy_timeout=%d",
		path, journalMode, busyTimeoutMs)
}

// NewSQLiteDB opens a SQLite database in WAL mode with stock settings.
func NewSQLiteDB(dbPath string) (*sql.DB, error) {
	return sql.Open(sqliteDriver, sqliteDSN(dbPath, "WAL", 30000)) //nolint:mnd
}

// NewSQLiteDBFromConfig opens a SQLite database tuned by cfg.
func NewSQLiteDBFromConfig(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriver, sqliteDSN(cfg.Path, cfg.JournalMode, cfg.BusyTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)

	for _, pragma := range []string{
		"PRAGMA synchronous = " + cfg.Synchronous,
		fmt.Sprintf("PRAGMA cache_size = %d", cfg.CacheSize),
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	return db, nil
}

// NewPostgresDB opens a Postgres database through the pgx database/sql driver and pings it.
func NewPostgresDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(postgresDriver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxIdleTime(postgresMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return db, nil
}

// Open opens the database selected by cfg.Driver and returns it with its dialect.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, Dialect, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := NewPostgresDB(ctx, cfg)
		return db, Postgres, err
	case config.DriverSQLite, "":
		db, err := NewSQLiteDBFromConfig(cfg)
		return db, SQLite, err
	default:
		return nil, Dialect{}, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}
