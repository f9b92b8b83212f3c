package cache

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goran-ethernal/EventCache/internal/common"
	"github.com/goran-ethernal/EventCache/internal/logger"
	"github.com/goran-ethernal/EventCache/pkg/cache"
)

// Estimator measures how much remote work a key needs, creating its progress record on first use.
type Estimator struct {
	tx   cache.TxRunner
	keys cache.KeyStore
	log  *logger.Logger
}

func NewEstimator(tx cache.TxRunner, keys cache.KeyStore, log *logger.Logger) *Estimator {
	return &Estimator{
		tx:   tx,
		keys: keys,
		log:  log.WithComponent(common.ComponentEstimator),
	}
}

// Estimate returns cache.CostPerPage * (currentHeight - watermark) / pageSize for key.
// The record is created with watermark 0 if it does not exist yet.
func (e *Estimator) Estimate(ctx context.Context, key cache.CacheKey, descriptor []byte,
	currentHeight, pageSize uint64) (uint64, error) {
	if pageSize == 0 {
		return 0, cache.ErrZeroPageSize
	}

	var rec *cache.ProgressRecord
	err := e.tx.WithTx(ctx, func(tx *sql.Tx) error {
		var (
			created bool
			err     error
		)
		rec, created, err = e.keys.Ensure(ctx, tx, key, descriptor)
		if err != nil {
			return err
		}
		if created {
			keysCreatedInc()
			e.log.Infow("tracking new cache key", "key", key.String())
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to estimate %s: %w", key, err)
	}

	cost := Cost(currentHeight, rec.Watermark, pageSize)
	e.log.Debugw("estimated",
		"key", key.String(),
		"watermark", rec.Watermark,
		"height", currentHeight,
		"page_size", pageSize,
		"cost", cost,
	)

	return cost, nil
}

// Cost is zero when the watermark has reached height and is not capped otherwise.
func Cost(height, watermark, pageSize uint64) uint64 {
	if height <= watermark || pageSize == 0 {
		return 0
	}
	return cache.CostPerPage * (height - watermark) / pageSize
}
