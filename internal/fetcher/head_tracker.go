package fetcher

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/EventCache/internal/common"
	"github.com/goran-ethernal/EventCache/internal/logger"
	"github.com/goran-ethernal/EventCache/pkg/cache"
	"github.com/goran-ethernal/EventCache/pkg/rpc"
)

var _ cache.HeightSource = (*HeadTracker)(nil)

// HeadTracker reports the highest block considered final under the configured finality mode.
type HeadTracker struct {
	getHeader    func(context.Context) (*types.Header, error)
	finality     BlockFinality
	finalizedLag uint64
	log          *logger.Logger
}

// NewHeadTracker creates a head tracker. finalizedLag only applies to FinalityLatest.
func NewHeadTracker(rpcClient rpc.HeaderSource, finality BlockFinality, finalizedLag uint64,
	log *logger.Logger) (*HeadTracker, error) {
	if !finality.IsValid() {
		return nil, fmt.Errorf("invalid finality mode: %s", finality)
	}

	return &HeadTracker{
		getHeader:    finality.headerGetter(rpcClient),
		finality:     finality,
		finalizedLag: finalizedLag,
		log:          log.WithComponent(common.ComponentHeadTracker),
	}, nil
}

// CurrentHeight returns the number of the newest block the cache may advance to.
// In latest mode the lag is subtracted from the head, bottoming out at genesis.
func (h *HeadTracker) CurrentHeight(ctx context.Context) (uint64, error) {
	header, err := h.getHeader(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get %s block header: %w", h.finality, err)
	}
	if header == nil || header.Number == nil {
		return 0, fmt.Errorf("node returned no %s block header", h.finality)
	}

	height := header.Number.Uint64()
	if h.finality == FinalityLatest {
		if height >= h.finalizedLag {
			height -= h.finalizedLag
		} else {
			height = 0
		}
	}

	h.log.Debugf("current %s height: %d", h.finality, height)
	FinalizedBlockSet(height)

	return height, nil
}
