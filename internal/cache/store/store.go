package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goran-ethernal/EventCache/internal/common"
	"github.com/goran-ethernal/EventCache/internal/db"
	"github.com/goran-ethernal/EventCache/internal/logger"
	"github.com/goran-ethernal/EventCache/internal/migrations"
	"github.com/goran-ethernal/EventCache/pkg/cache"
	"github.com/goran-ethernal/EventCache/pkg/config"
)

var _ cache.TxRunner = (*Store)(nil)

// Store owns the cache database handle and hands out the key and entry stores that operate on it.
type Store struct {
	db          *sql.DB
	dialect     db.Dialect
	maintenance db.Maintenance
	log         *logger.Logger

	keys    *KeyStore
	entries *EntryStore
}

// New wraps an already migrated database.
func New(sqlDB *sql.DB, dialect db.Dialect, maintenance db.Maintenance, log *logger.Logger) *Store {
	if maintenance == nil {
		maintenance = &db.NoOpMaintenance{}
	}

	now := func() int64 { return time.Now().UTC().Unix() }

	return &Store{
		db:          sqlDB,
		dialect:     dialect,
		maintenance: maintenance,
		log:         log,
		keys:        &KeyStore{dialect: dialect, now: now},
		entries:     &EntryStore{dialect: dialect, now: now},
	}
}

// Open opens the configured database, applies migrations and, for SQLite, attaches the
// maintenance coordinator. The coordinator is not started.
func Open(ctx context.Context, cfg config.DatabaseConfig, maintenance *config.MaintenanceConfig,
	log *logger.Logger) (*Store, error) {
	log = log.WithComponent(common.ComponentCacheStore)

	sqlDB, dialect, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, &cache.StoreError{Op: "open", Kind: cache.ErrStoreUnavailable, Err: err}
	}

	if err := migrations.Run(log, sqlDB, dialect); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	var m db.Maintenance = &db.NoOpMaintenance{}
	if dialect.Name == db.SQLite.Name {
		m = db.NewMaintenanceCoordinator(cfg.Path, sqlDB, maintenance, log)
	}

	log.Infow("cache store opened", "driver", cfg.Driver, "dialect", dialect.Name)

	return New(sqlDB, dialect, m, log), nil
}

func (s *Store) Keys() *KeyStore {
	return s.keys
}

func (s *Store) Entries() *EntryStore {
	return s.entries
}

func (s *Store) Maintenance() db.Maintenance {
	return s.maintenance
}

func (s *Store) DB() *sql.DB {
	return s.db
}

// WithTx runs fn in a transaction that is committed only if fn returns nil.
// Driver errors are classified into cache.StoreError values.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	start := time.Now()
	defer func() { txDurationLog(time.Since(start), err) }()

	tx, err := s.db.BeginTx(ctx, s.dialect.TxOptions)
	if err != nil {
		return classify("begin transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.log.Errorw("failed to rollback transaction", "error", rbErr)
		}
	}()

	if err := fn(tx); err != nil {
		return classify("transaction", err)
	}

	if err := tx.Commit(); err != nil {
		return classify("commit transaction", err)
	}

	return nil
}

// ListStatus returns every tracked key with its entry count.
func (s *Store) ListStatus(ctx context.Context) ([]cache.KeyStatus, error) {
	var statuses []cache.KeyStatus

	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		records, err := s.keys.List(ctx, tx)
		if err != nil {
			return err
		}

		statuses = make([]cache.KeyStatus, 0, len(records))
		for _, rec := range records {
			n, err := s.entries.Count(ctx, tx, rec.ID)
			if err != nil {
				return err
			}
			statuses = append(statuses, cache.KeyStatus{Record: rec, Entries: n})
		}
		return nil
	})

	return statuses, err
}

// Close stops maintenance and closes the database.
func (s *Store) Close() error {
	if err := s.maintenance.Stop(); err != nil {
		s.log.Warnf("failed to stop maintenance: %v", err)
	}
	return s.db.Close()
}

func classify(op string, err error) error {
	var storeErr *cache.StoreError
	if errors.As(err, &storeErr) {
		return err
	}

	switch {
	case db.IsConflict(err):
		txConflictInc()
		return &cache.StoreError{Op: op, Kind: cache.ErrStoreConflict, Err: err}
	case db.IsUnavailable(err):
		return &cache.StoreError{Op: op, Kind: cache.ErrStoreUnavailable, Err: err}
	default:
		return err
	}
}
