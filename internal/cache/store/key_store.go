package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goran-ethernal/EventCache/internal/db"
	"github.com/goran-ethernal/EventCache/pkg/cache"
)

var _ cache.KeyStore = (*KeyStore)(nil)

const recordColumns = "id, address, event_name, event_descriptor, watermark, created_at, updated_at"

// KeyStore keeps one progress record per cache key in the progress_records table.
type KeyStore struct {
	dialect db.Dialect
	now     func() int64
}

func (k *KeyStore) Get(ctx context.Context, tx *sql.Tx, key cache.CacheKey) (*cache.ProgressRecord, error) {
	query := k.dialect.Rebind(
		"SELECT " + recordColumns + " FROM progress_records WHERE address = ? AND event_name = ?")

	var rec cache.ProgressRecord
	err := k.dialect.Meddler.QueryRow(tx, &rec, query, key.Address.Hex(), key.EventName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load progress record %s: %w", key, err)
	}

	return &rec, nil
}

// Ensure never replaces the descriptor of an existing record, except to fill in one that was
// stored empty.
func (k *KeyStore) Ensure(ctx context.Context, tx *sql.Tx, key cache.CacheKey,
	descriptor []byte) (*cache.ProgressRecord, bool, error) {
	if descriptor == nil {
		descriptor = []byte{}
	}

	now := k.now()
	res, err := tx.ExecContext(ctx, k.dialect.Rebind(`
		INSERT INTO progress_records (address, event_name, event_descriptor, watermark, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)
		ON CONFLICT (address, event_name) DO NOTHING`),
		key.Address.Hex(), key.EventName, descriptor, now, now,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create progress record %s: %w", key, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	rec, err := k.Get(ctx, tx, key)
	if err != nil {
		return nil, false, err
	}
	if rec == nil {
		return nil, false, fmt.Errorf("progress record %s missing after insert", key)
	}

	if len(rec.EventDescriptor) == 0 && len(descriptor) > 0 {
		if _, err := tx.ExecContext(ctx, k.dialect.Rebind(
			`UPDATE progress_records SET event_descriptor = ?, updated_at = ? WHERE id = ?`),
			descriptor, now, rec.ID,
		); err != nil {
			return nil, false, fmt.Errorf("failed to set descriptor of %s: %w", key, err)
		}
		rec.EventDescriptor = descriptor
	}

	return rec, affected > 0, nil
}

func (k *KeyStore) AdvanceWatermark(ctx context.Context, tx *sql.Tx, recordID int64, target uint64) (uint64, error) {
	var watermark uint64
	err := tx.QueryRowContext(ctx, k.dialect.Rebind(`
		UPDATE progress_records
		SET watermark = CASE WHEN watermark < ? THEN ? ELSE watermark END, updated_at = ?
		WHERE id = ?
		RETURNING watermark`),
		target, target, k.now(), recordID,
	).Scan(&watermark)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("progress record %d does not exist", recordID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to advance watermark of record %d: %w", recordID, err)
	}

	return watermark, nil
}

func (k *KeyStore) List(ctx context.Context, tx *sql.Tx) ([]*cache.ProgressRecord, error) {
	var records []*cache.ProgressRecord
	err := k.dialect.Meddler.QueryAll(tx, &records, "SELECT "+recordColumns+" FROM progress_records ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list progress records: %w", err)
	}
	return records, nil
}
