package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goran-ethernal/EventCache/internal/db"
	"github.com/goran-ethernal/EventCache/pkg/cache"
)

var _ cache.EntryStore = (*EntryStore)(nil)

// EntryStore appends and reads cached entries. Entries are never updated or deleted here;
// they go away only with their progress record.
type EntryStore struct {
	dialect db.Dialect
	now     func() int64
}

func (e *EntryStore) Load(ctx context.Context, tx *sql.Tx, recordID int64) ([]*cache.CachedEntry, error) {
	query := e.dialect.Rebind(`
		SELECT id, record_id, block_number, log_index, payload, created_at
		FROM cached_entries
		WHERE record_id = ?
		ORDER BY id ASC`)

	var entries []*cache.CachedEntry
	if err := e.dialect.Meddler.QueryAll(tx, &entries, query, recordID); err != nil {
		return nil, fmt.Errorf("failed to load entries of record %d: %w", recordID, err)
	}

	return entries, nil
}

// Append inserts entries in the given order. An entry with the same (block, log index) as a stored
// one is skipped and not counted.
func (e *EntryStore) Append(ctx context.Context, tx *sql.Tx, recordID int64, entries []*cache.CachedEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	stmt, err := tx.PrepareContext(ctx, e.dialect.Rebind(`
		INSERT INTO cached_entries (record_id, block_number, log_index, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (record_id, block_number, log_index) DO NOTHING`))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer stmt.Close()

	now := e.now()
	stored := 0
	for _, entry := range entries {
		res, err := stmt.ExecContext(ctx, recordID, entry.BlockNumber, entry.LogIndex, entry.Payload, now)
		if err != nil {
			return 0, fmt.Errorf("failed to insert entry %d/%d: %w", entry.BlockNumber, entry.LogIndex, err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		stored += int(n)
	}

	return stored, nil
}

func (e *EntryStore) Count(ctx context.Context, tx *sql.Tx, recordID int64) (int64, error) {
	var n int64
	err := tx.QueryRowContext(ctx, e.dialect.Rebind("SELECT COUNT(*) FROM cached_entries WHERE record_id = ?"),
		recordID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries of record %d: %w", recordID, err)
	}
	return n, nil
}
