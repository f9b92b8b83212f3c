package fetcher

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/EventCache/internal/common"
	"github.com/goran-ethernal/EventCache/internal/event"
	"github.com/goran-ethernal/EventCache/internal/logger"
	irpc "github.com/goran-ethernal/EventCache/internal/rpc"
	"github.com/goran-ethernal/EventCache/pkg/cache"
	"github.com/goran-ethernal/EventCache/pkg/rpc"
	"golang.org/x/sync/errgroup"
)

var (
	_ cache.RangeFetcher = (*RangeFetcher)(nil)
	_ cache.PageSizer    = (*RangeFetcher)(nil)
)

const (
	splitSuggested = "suggested"
	splitHalve     = "halve"
)

// RangeFetcher retrieves the logs of one contract event over a block range with eth_getLogs,
// one page of blocks per request and up to concurrency requests in flight.
type RangeFetcher struct {
	rpc         rpc.LogSource
	pageSize    uint64
	concurrency int
	log         *logger.Logger
}

// NewRangeFetcher creates a range fetcher. A concurrency below 1 fetches pages one at a time.
func NewRangeFetcher(rpcClient rpc.LogSource, pageSize uint64, concurrency int, log *logger.Logger) (*RangeFetcher, error) {
	if pageSize == 0 {
		return nil, cache.ErrZeroPageSize
	}

	return &RangeFetcher{
		rpc:         rpcClient,
		pageSize:    pageSize,
		concurrency: max(concurrency, 1),
		log:         log.WithComponent(common.ComponentRangeFetcher),
	}, nil
}

// PageSize returns the number of blocks requested per eth_getLogs call.
func (f *RangeFetcher) PageSize() uint64 {
	return f.pageSize
}

// FetchLogs returns the logs of the event described by descriptor emitted by address in
// [start, stop), ordered by block number and log index.
func (f *RangeFetcher) FetchLogs(ctx context.Context, address ethcommon.Address, descriptor []byte,
	start, stop uint64) ([]types.Log, error) {
	if stop <= start {
		return nil, nil
	}

	ev, err := event.FromDescriptor(descriptor)
	if err != nil {
		return nil, err
	}

	var topics [][]ethcommon.Hash
	if !ev.Anonymous {
		topics = [][]ethcommon.Hash{{ev.ID}}
	}

	pages, err := common.SplitRange(start, stop-1, f.pageSize)
	if err != nil {
		return nil, err
	}

	begin := time.Now()
	results := make([][]types.Log, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, page := range pages {
		g.Go(func() error {
			logs, err := f.fetchLogsWithSplit(gctx, page.From, page.To, address, topics)
			if err != nil {
				return err
			}
			results[i] = logs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, logs := range results {
		total += len(logs)
	}

	out := make([]types.Log, 0, total)
	for _, logs := range results {
		out = append(out, logs...)
	}

	fetchedLogsAdd(total)
	fetchDurationObserve(time.Since(begin))
	f.log.Debugw("fetched logs",
		"address", address.Hex(),
		"event", ev.Name,
		"from", start,
		"to", stop-1,
		"pages", len(pages),
		"logs", total,
	)

	return out, nil
}

// fetchLogsWithSplit fetches the inclusive range [fromBlock, toBlock]. When the node rejects the
// range for returning too many results, the range is split at the node's suggested end block
// (or in half) and both parts are fetched in order.
func (f *RangeFetcher) fetchLogsWithSplit(
	ctx context.Context,
	fromBlock, toBlock uint64,
	address ethcommon.Address,
	topics [][]ethcommon.Hash,
) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []ethcommon.Address{address},
		Topics:    topics,
	}

	logs, err := f.rpc.GetLogs(ctx, query)
	if err == nil {
		return logs, nil
	}

	tooMany, errData := irpc.IsTooManyResultsError(err)
	if !tooMany {
		return nil, fmt.Errorf("failed to fetch logs for blocks %d-%d: %w", fromBlock, toBlock, err)
	}
	if fromBlock == toBlock {
		return nil, fmt.Errorf("cannot split range further, single block %d has too many logs", fromBlock)
	}

	splitAt, strategy := (fromBlock+toBlock)/2, splitHalve //nolint:mnd
	if sFrom, sTo, ok := irpc.ParseSuggestedBlockRange(errData); ok &&
		sFrom == fromBlock && sTo >= fromBlock && sTo < toBlock {
		splitAt, strategy = sTo, splitSuggested
	}

	rangeSplitInc(strategy)
	f.log.Infof("too many logs in blocks %d-%d, splitting at %d (%s)", fromBlock, toBlock, splitAt, strategy)

	head, err := f.fetchLogsWithSplit(ctx, fromBlock, splitAt, address, topics)
	if err != nil {
		return nil, err
	}
	tail, err := f.fetchLogsWithSplit(ctx, splitAt+1, toBlock, address, topics)
	if err != nil {
		return nil, err
	}

	return append(head, tail...), nil
}
