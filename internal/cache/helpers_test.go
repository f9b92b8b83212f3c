package cache

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/EventCache/internal/cache/store"
	"github.com/goran-ethernal/EventCache/internal/logger"
	"github.com/goran-ethernal/EventCache/pkg/cache"
	"github.com/goran-ethernal/EventCache/pkg/config"
	"github.com/stretchr/testify/require"
)

var (
	testAddress    = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	testKey        = cache.NewCacheKey(testAddress, "Transfer")
	testDescriptor = []byte(`[{"type":"event","name":"Transfer","inputs":[],"anonymous":false}]`)
	transferTopic  = common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	cfg := config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "cache.sqlite")}
	cfg.ApplyDefaults()

	s, err := store.Open(t.Context(), cfg, nil, logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func testLog(block uint64, index uint) types.Log {
	return types.Log{
		Address:     testAddress,
		Topics:      []common.Hash{transferTopic},
		Data:        []byte{byte(block), byte(index)},
		BlockNumber: block,
		TxHash:      common.BigToHash(common.Big1),
		BlockHash:   common.BigToHash(common.Big2),
		Index:       index,

		BlockTimestamp: 1_700_000_000 + block*12,
	}
}

func logsAt(blocks ...uint64) []types.Log {
	logs := make([]types.Log, len(blocks))
	for i, b := range blocks {
		logs[i] = testLog(b, 0)
	}
	return logs
}

func blocksOf(logs []types.Log) []uint64 {
	blocks := make([]uint64, len(logs))
	for i, l := range logs {
		blocks[i] = l.BlockNumber
	}
	return blocks
}

// initKey creates the record for key and moves its watermark to w.
func initKey(t *testing.T, s *store.Store, key cache.CacheKey, w uint64) {
	t.Helper()

	require.NoError(t, s.WithTx(t.Context(), func(tx *sql.Tx) error {
		rec, _, err := s.Keys().Ensure(t.Context(), tx, key, testDescriptor)
		if err != nil {
			return err
		}
		_, err = s.Keys().AdvanceWatermark(t.Context(), tx, rec.ID, w)
		return err
	}))
}

func watermarkOf(t *testing.T, s *store.Store, key cache.CacheKey) uint64 {
	t.Helper()

	var w uint64
	require.NoError(t, s.WithTx(t.Context(), func(tx *sql.Tx) error {
		rec, err := s.Keys().Get(t.Context(), tx, key)
		require.NotNil(t, rec)
		w = rec.Watermark
		return err
	}))
	return w
}

type staticHeight uint64

func (h staticHeight) CurrentHeight(context.Context) (uint64, error) { return uint64(h), nil }

type staticPageSize uint64

func (p staticPageSize) PageSize() uint64 { return uint64(p) }

// conflictingTx fails the first n transactions with a store conflict.
type conflictingTx struct {
	inner cache.TxRunner
	n     atomic.Int32
}

func (c *conflictingTx) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if c.n.Add(-1) >= 0 {
		return &cache.StoreError{Op: "begin transaction", Kind: cache.ErrStoreConflict, Err: sql.ErrTxDone}
	}
	return c.inner.WithTx(ctx, fn)
}
