package fetcher

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/EventCache/internal/logger"
	"github.com/goran-ethernal/EventCache/pkg/cache"
	"github.com/goran-ethernal/EventCache/pkg/query"
)

// EngineName is the registry name of the direct RPC engine.
const EngineName = "rpc"

// firstBlock is the first block a direct fetch covers. The cache never fetches genesis either.
const firstBlock = 1

func init() {
	query.Register(EngineName, func(deps query.Deps, log *logger.Logger) (query.Engine, error) {
		return NewEngine(deps, log)
	})
}

var _ query.Engine = (*Engine)(nil)

// Engine serves contract event queries straight from the remote source, without caching.
type Engine struct {
	fetcher cache.RangeFetcher
	heights cache.HeightSource
	pages   cache.PageSizer
	log     *logger.Logger
}

func NewEngine(deps query.Deps, log *logger.Logger) (*Engine, error) {
	if deps.Fetcher == nil || deps.Heights == nil || deps.Pages == nil {
		return nil, errors.New("rpc engine requires a range fetcher, a height source and a page sizer")
	}

	return &Engine{
		fetcher: deps.Fetcher,
		heights: deps.Heights,
		pages:   deps.Pages,
		log:     log.WithComponent(EngineName),
	}, nil
}

func (e *Engine) Name() string {
	return EngineName
}

func (e *Engine) Bind(q query.Query) (query.Plan, bool) {
	ceq, ok := query.AsContractEventQuery(q)
	if !ok || len(ceq.EventDescriptor) == 0 {
		return nil, false
	}
	return &directPlan{engine: e, query: ceq}, true
}

type directPlan struct {
	engine *Engine
	query  query.ContractEventQuery
	stop   uint64
}

// Estimate charges a full fetch of [1, stop): CostPerPage for every page of blocks below stop.
func (p *directPlan) Estimate(ctx context.Context) (uint64, error) {
	pageSize := p.engine.pages.PageSize()
	if pageSize == 0 {
		return 0, cache.ErrZeroPageSize
	}

	head, err := p.engine.heights.CurrentHeight(ctx)
	if err != nil {
		return 0, err
	}

	p.stop = cache.ResolveStop(p.query.StopBlock, head)
	return cache.CostPerPage * p.stop / pageSize, nil
}

func (p *directPlan) Perform(ctx context.Context) ([]types.Log, error) {
	if p.stop == 0 {
		return nil, errors.New("plan has not been estimated")
	}
	return p.engine.fetcher.FetchLogs(ctx, p.query.Contract, p.query.EventDescriptor, firstBlock, p.stop)
}

func (p *directPlan) UpdateCache(context.Context, []types.Log) error {
	return nil
}

func (p *directPlan) Release() {}
