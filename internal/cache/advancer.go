package cache

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/EventCache/internal/codec"
	"github.com/goran-ethernal/EventCache/internal/common"
	"github.com/goran-ethernal/EventCache/internal/logger"
	"github.com/goran-ethernal/EventCache/pkg/cache"
)

// Advancer is the only writer of cached entries and watermarks.
type Advancer struct {
	tx      cache.TxRunner
	keys    cache.KeyStore
	entries cache.EntryStore
	log     *logger.Logger
}

func NewAdvancer(tx cache.TxRunner, keys cache.KeyStore, entries cache.EntryStore, log *logger.Logger) *Advancer {
	return &Advancer{
		tx:      tx,
		keys:    keys,
		entries: entries,
		log:     log.WithComponent(common.ComponentAdvancer),
	}
}

// Commit stores the records of key that fall in [watermark, stop) and raises the watermark to
// stop-1 in the same transaction. Records below the watermark or at/after stop are dropped.
// The watermark never decreases, so a stale commit is harmless.
func (a *Advancer) Commit(ctx context.Context, key cache.CacheKey, records []types.Log,
	stop uint64) (cache.CommitResult, error) {
	var result cache.CommitResult

	err := a.tx.WithTx(ctx, func(tx *sql.Tx) error {
		result = cache.CommitResult{}

		rec, err := a.keys.Get(ctx, tx, key)
		if err != nil {
			return err
		}
		if rec == nil {
			return &cache.UninitializedKeyError{Key: key}
		}
		result.PreviousWatermark = rec.Watermark
		result.Watermark = rec.Watermark

		entries := make([]*cache.CachedEntry, 0, len(records))
		for _, r := range records {
			switch {
			case r.BlockNumber < rec.Watermark:
				result.Regressed++
			case r.BlockNumber >= stop:
				result.OutOfRange++
			default:
				payload, err := codec.Encode(r)
				if err != nil {
					return err
				}
				entries = append(entries, &cache.CachedEntry{
					RecordID:    rec.ID,
					BlockNumber: r.BlockNumber,
					LogIndex:    uint64(r.Index),
					Payload:     payload,
				})
			}
		}

		result.Stored, err = a.entries.Append(ctx, tx, rec.ID, entries)
		if err != nil {
			return err
		}
		result.Duplicates = len(entries) - result.Stored

		if stop > 0 {
			result.Watermark, err = a.keys.AdvanceWatermark(ctx, tx, rec.ID, stop-1)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return cache.CommitResult{}, fmt.Errorf("failed to commit %s: %w", key, err)
	}

	commitLog(result)

	// Records below the watermark are normally the cached half of a warm query handed back
	// by the manager. Records past stop are never produced by a well-behaved engine.
	if result.OutOfRange > 0 {
		a.log.Warnw("dropped records past the commit window",
			"key", key.String(),
			"out_of_range", result.OutOfRange,
			"stop", stop,
		)
	}

	a.log.Debugw("committed",
		"key", key.String(),
		"stored", result.Stored,
		"duplicates", result.Duplicates,
		"regressed", result.Regressed,
		"watermark_before", result.PreviousWatermark,
		"watermark_after", result.Watermark,
	)

	return result, nil
}
