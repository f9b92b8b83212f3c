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

// Merger answers a query from cached entries plus a remote fetch of the blocks past the watermark.
type Merger struct {
	tx      cache.TxRunner
	keys    cache.KeyStore
	entries cache.EntryStore
	fetcher cache.RangeFetcher
	log     *logger.Logger
}

func NewMerger(tx cache.TxRunner, keys cache.KeyStore, entries cache.EntryStore,
	fetcher cache.RangeFetcher, log *logger.Logger) *Merger {
	return &Merger{
		tx:      tx,
		keys:    keys,
		entries: entries,
		fetcher: fetcher,
		log:     log.WithComponent(common.ComponentMerger),
	}
}

// Fetch returns the cached logs of key in insertion order followed by the logs of
// [watermark+1, stop) from the range fetcher. The range fetcher is not called when that range
// is empty.
func (m *Merger) Fetch(ctx context.Context, key cache.CacheKey, stop uint64) ([]types.Log, error) {
	var (
		rec     *cache.ProgressRecord
		entries []*cache.CachedEntry
	)

	err := m.tx.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		rec, err = m.keys.Get(ctx, tx, key)
		if err != nil {
			return err
		}
		if rec == nil {
			return &cache.UninitializedKeyError{Key: key}
		}

		entries, err = m.entries.Load(ctx, tx, rec.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read cache for %s: %w", key, err)
	}

	logs := make([]types.Log, 0, len(entries))
	for _, entry := range entries {
		log, err := codec.Decode(entry.Payload)
		if err != nil {
			return nil, fmt.Errorf("corrupt entry %d of %s: %w", entry.ID, key, err)
		}
		logs = append(logs, log)
	}
	cachedLogsAdd(len(logs))

	start := rec.Watermark + 1
	if stop <= start {
		m.log.Debugw("served from cache",
			"key", key.String(), "cached", len(logs), "watermark", rec.Watermark, "stop", stop)
		return logs, nil
	}

	fresh, err := m.fetcher.FetchLogs(ctx, rec.Address, rec.EventDescriptor, start, stop)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch [%d, %d) for %s: %w", start, stop, key, err)
	}
	fetchedLogsAdd(len(fresh))

	m.log.Debugw("merged",
		"key", key.String(),
		"cached", len(logs),
		"fetched", len(fresh),
		"from_block", start,
		"stop_block", stop,
	)

	return append(logs, fresh...), nil
}
