package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/goran-ethernal/EventCache/internal/logger"
	migrate "github.com/rubenv/sql-migrate"
)

const (
	UpDownSeparator   = "-- +migrate Up"
	downMarker        = "-- +migrate Down"
	NoLimitMigrations = 0
)

// Migration is a single embedded SQL file. Its Down section precedes the Up separator.
type Migration struct {
	ID  string
	SQL string
}

// RunMigrations opens the SQLite database at dbPath and applies all pending migrations.
func RunMigrations(dbPath string, migrations []Migration) error {
	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	return RunMigrationsDB(logger.GetDefaultLogger(), db, SQLite, migrations)
}

// RunMigrationsDB applies all pending migrations.
func RunMigrationsDB(log *logger.Logger, db *sql.DB, dialect Dialect, migrations []Migration) error {
	return RunMigrationsDBExtended(log, db, dialect, migrations, migrate.Up, NoLimitMigrations)
}

// RunMigrationsDBExtended applies at most maxMigrations migrations (0 for all) in direction dir.
func RunMigrationsDBExtended(
	log *logger.Logger,
	db *sql.DB,
	dialect Dialect,
	migrations []Migration,
	dir migrate.MigrationDirection,
	maxMigrations int,
) error {
	source := &migrate.MemoryMigrationSource{}
	ids := make([]string, 0, len(migrations))

	for _, m := range migrations {
		parsed, err := parseMigration(m)
		if err != nil {
			return err
		}
		source.Migrations = append(source.Migrations, parsed)
		ids = append(ids, m.ID)
	}

	log.Debugf("applying %s migrations %v (limit %d)", dialect.Name, ids, maxMigrations)

	set := migrate.MigrationSet{IgnoreUnknown: maxMigrations != NoLimitMigrations}
	applied, err := set.ExecMax(db, dialect.Name, source, dir, maxMigrations)
	if err != nil {
		return fmt.Errorf("failed to apply %s migrations %v: %w", dialect.Name, ids, err)
	}

	log.Infof("applied %d %s migrations", applied, dialect.Name)
	return nil
}

func parseMigration(m Migration) (*migrate.Migration, error) {
	down, up, found := strings.Cut(m.SQL, UpDownSeparator)
	if !found {
		return nil, fmt.Errorf("migration %s missing '%s' separator", m.ID, UpDownSeparator)
	}

	if _, after, ok := strings.Cut(down, downMarker); ok {
		down = after
	}

	return &migrate.Migration{
		Id:   m.ID,
		Up:   []string{strings.TrimSpace(up)},
		Down: []string{strings.TrimSpace(down)},
	}, nil
}
