package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/goran-ethernal/EventCache/internal/db"
	"github.com/goran-ethernal/EventCache/internal/logger"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// Load returns the embedded migrations for the given dialect, ordered by file name.
func Load(dialect db.Dialect) ([]db.Migration, error) {
	dir := "sqlite"
	if dialect.Name == db.Postgres.Name {
		dir = "postgres"
	}

	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s migrations: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	migrations := make([]db.Migration, 0, len(names))
	for _, name := range names {
		content, err := files.ReadFile(path.Join(dir, name))
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, db.Migration{ID: name, SQL: string(content)})
	}

	return migrations, nil
}

// Run applies every pending cache migration to the database.
func Run(log *logger.Logger, sqlDB *sql.DB, dialect db.Dialect) error {
	migrations, err := Load(dialect)
	if err != nil {
		return err
	}

	return db.RunMigrationsDB(log, sqlDB, dialect, migrations)
}

// RunMigrations applies the SQLite cache migrations to the database at dbPath.
func RunMigrations(dbPath string) error {
	migrations, err := Load(db.SQLite)
	if err != nil {
		return err
	}

	return db.RunMigrations(dbPath, migrations)
}
