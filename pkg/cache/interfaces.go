package cache

import (
	"context"
	"database/sql"

	"github.com/ethereum/go-ethereum/common"
)

// TxRunner runs fn inside one transaction. The transaction is committed when fn returns nil
// and rolled back on every other path.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// KeyStore persists progress records.
type KeyStore interface {
	// Get returns the record for key, or nil if the key has never been estimated.
	Get(ctx context.Context, tx *sql.Tx, key CacheKey) (*ProgressRecord, error)
	// Ensure returns the record for key, creating it with watermark 0 if absent.
	// created reports whether this call inserted it.
	Ensure(ctx context.Context, tx *sql.Tx, key CacheKey, descriptor []byte) (record *ProgressRecord, created bool, err error)
	// AdvanceWatermark raises the watermark of the record to target if it is lower and returns
	// the resulting watermark.
	AdvanceWatermark(ctx context.Context, tx *sql.Tx, recordID int64, target uint64) (uint64, error)
	// List returns every progress record ordered by id.
	List(ctx context.Context, tx *sql.Tx) ([]*ProgressRecord, error)
}

// EntryStore persists the cached entries of a progress record.
type EntryStore interface {
	// Load returns every entry of the record in insertion order.
	Load(ctx context.Context, tx *sql.Tx, recordID int64) ([]*CachedEntry, error)
	// Append stores entries, skipping ones already stored, and returns how many were new.
	Append(ctx context.Context, tx *sql.Tx, recordID int64, entries []*CachedEntry) (int, error)
	// Count returns the number of entries stored for the record.
	Count(ctx context.Context, tx *sql.Tx, recordID int64) (int64, error)
}

// RangeFetcher retrieves logs from the remote source for [start, stop).
type RangeFetcher interface {
	FetchLogs(ctx context.Context, address common.Address, descriptor []byte, start, stop uint64) ([]LogRecord, error)
}

// HeightSource reports the highest block the cache may advance to.
type HeightSource interface {
	CurrentHeight(ctx context.Context) (uint64, error)
}

// PageSizer reports how many blocks the remote source returns per request.
type PageSizer interface {
	PageSize() uint64
}
