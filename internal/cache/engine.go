package cache

import (
	"context"
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/EventCache/internal/common"
	"github.com/goran-ethernal/EventCache/internal/logger"
	"github.com/goran-ethernal/EventCache/pkg/cache"
	"github.com/goran-ethernal/EventCache/pkg/config"
	"github.com/goran-ethernal/EventCache/pkg/query"
)

// EngineName is the registry name of the cache engine.
const EngineName = "cache"

// ErrNotEstimated is returned by plans used before Estimate.
var ErrNotEstimated = errors.New("plan has not been estimated")

func init() {
	query.Register(EngineName, func(deps query.Deps, log *logger.Logger) (query.Engine, error) {
		return NewEngine(deps, log)
	})
}

var _ query.Engine = (*Engine)(nil)

// Engine serves contract event queries from the cache. Each bound plan holds its key's lock from
// Estimate until Release.
type Engine struct {
	estimator *Estimator
	merger    *Merger
	advancer  *Advancer
	heights   cache.HeightSource
	pages     cache.PageSizer
	locks     *KeyLocks
	retry     *config.RetryConfig
	log       *logger.Logger
}

func NewEngine(deps query.Deps, log *logger.Logger) (*Engine, error) {
	switch {
	case deps.Tx == nil || deps.Keys == nil || deps.Entries == nil:
		return nil, errors.New("cache engine requires a store")
	case deps.Fetcher == nil:
		return nil, errors.New("cache engine requires a range fetcher")
	case deps.Heights == nil || deps.Pages == nil:
		return nil, errors.New("cache engine requires a height source and a page sizer")
	}

	return &Engine{
		estimator: NewEstimator(deps.Tx, deps.Keys, log),
		merger:    NewMerger(deps.Tx, deps.Keys, deps.Entries, deps.Fetcher, log),
		advancer:  NewAdvancer(deps.Tx, deps.Keys, deps.Entries, log),
		heights:   deps.Heights,
		pages:     deps.Pages,
		locks:     NewKeyLocks(),
		retry:     deps.Config.CommitRetry,
		log:       log.WithComponent(common.ComponentCacheEngine),
	}, nil
}

func (e *Engine) Name() string {
	return EngineName
}

func (e *Engine) Bind(q query.Query) (query.Plan, bool) {
	ceq, ok := query.AsContractEventQuery(q)
	if !ok || ceq.EventName == "" || len(ceq.EventDescriptor) == 0 {
		return nil, false
	}

	return &plan{
		engine: e,
		query:  ceq,
		key:    cache.NewCacheKey(ceq.Contract, ceq.EventName),
	}, true
}

type plan struct {
	engine *Engine
	query  query.ContractEventQuery
	key    cache.CacheKey

	stop      uint64
	estimated bool

	unlock      func()
	releaseOnce sync.Once
}

func (p *plan) Estimate(ctx context.Context) (uint64, error) {
	e := p.engine

	if p.unlock == nil {
		unlock, err := e.locks.Lock(ctx, p.key)
		if err != nil {
			return 0, err
		}
		p.unlock = unlock
	}

	head, err := e.heights.CurrentHeight(ctx)
	if err != nil {
		return 0, err
	}

	p.stop = cache.ResolveStop(p.query.StopBlock, head)
	cost, err := retryOnConflict(ctx, e.retry, e.log, "estimate", func() (uint64, error) {
		return e.estimator.Estimate(ctx, p.key, p.query.EventDescriptor, p.stop-1, e.pages.PageSize())
	})
	if err != nil {
		return 0, err
	}

	p.estimated = true
	return cost, nil
}

func (p *plan) Perform(ctx context.Context) ([]types.Log, error) {
	if !p.estimated {
		return nil, ErrNotEstimated
	}

	return retryOnConflict(ctx, p.engine.retry, p.engine.log, "fetch", func() ([]types.Log, error) {
		return p.engine.merger.Fetch(ctx, p.key, p.stop)
	})
}

func (p *plan) UpdateCache(ctx context.Context, logs []types.Log) error {
	if !p.estimated {
		return ErrNotEstimated
	}

	_, err := retryOnConflict(ctx, p.engine.retry, p.engine.log, "commit", func() (cache.CommitResult, error) {
		return p.engine.advancer.Commit(ctx, p.key, logs, p.stop)
	})
	return err
}

func (p *plan) Release() {
	p.releaseOnce.Do(func() {
		if p.unlock != nil {
			p.unlock()
		}
	})
}
