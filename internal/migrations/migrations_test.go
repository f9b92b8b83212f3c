package migrations

import (
	"path/filepath"
	"testing"

	"github.com/goran-ethernal/EventCache/internal/db"
	"github.com/goran-ethernal/EventCache/internal/logger"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	for _, dialect := range []db.Dialect{db.SQLite, db.Postgres} {
		migs, err := Load(dialect)
		require.NoError(t, err)
		require.Len(t, migs, 1)
		require.Equal(t, "001_cache.sql", migs[0].ID)
		require.Contains(t, migs[0].SQL, db.UpDownSeparator)
	}
}

func TestRun_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.sqlite")
	require.NoError(t, RunMigrations(dbPath))

	sqlDB, err := db.NewSQLiteDB(dbPath)
	require.NoError(t, err)
	defer sqlDB.Close()

	// idempotent
	require.NoError(t, Run(logger.NewNopLogger(), sqlDB, db.SQLite))

	for _, table := range []string{"progress_records", "cached_entries"} {
		var name string
		err := sqlDB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&name)
		require.NoError(t, err)
		require.Equal(t, table, name)
	}

	_, err = sqlDB.Exec(`INSERT INTO progress_records (address, event_name, event_descriptor, created_at, updated_at)
		VALUES ('0x01', 'Transfer', x'00', 1, 1)`)
	require.NoError(t, err)
	_, err = sqlDB.Exec(`INSERT INTO cached_entries (record_id, block_number, log_index, payload, created_at)
		VALUES (1, 10, 0, x'01', 1)`)
	require.NoError(t, err)

	// unique (record_id, block_number, log_index)
	_, err = sqlDB.Exec(`INSERT INTO cached_entries (record_id, block_number, log_index, payload, created_at)
		VALUES (1, 10, 0, x'02', 1)`)
	require.Error(t, err)

	// cascade
	_, err = sqlDB.Exec(`DELETE FROM progress_records WHERE id = 1`)
	require.NoError(t, err)
	var count int
	require.NoError(t, sqlDB.QueryRow("SELECT COUNT(*) FROM cached_entries").Scan(&count))
	require.Zero(t, count)
}

func TestRun_Down(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.sqlite")
	sqlDB, err := db.NewSQLiteDB(dbPath)
	require.NoError(t, err)
	defer sqlDB.Close()

	migs, err := Load(db.SQLite)
	require.NoError(t, err)

	log := logger.NewNopLogger()
	require.NoError(t, db.RunMigrationsDBExtended(log, sqlDB, db.SQLite, migs, migrate.Up, db.NoLimitMigrations))
	require.NoError(t, db.RunMigrationsDBExtended(log, sqlDB, db.SQLite, migs, migrate.Down, db.NoLimitMigrations))

	var count int
	require.NoError(t, sqlDB.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = 'progress_records'").Scan(&count))
	require.Zero(t, count)
}
