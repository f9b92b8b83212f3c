package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/EventCache/internal/common"
	"github.com/goran-ethernal/EventCache/internal/logger"
	"github.com/goran-ethernal/EventCache/internal/metrics"
	"github.com/goran-ethernal/EventCache/pkg/cache"
	"github.com/goran-ethernal/EventCache/pkg/query"
)

// ErrNoEngine is returned when no configured engine can serve a query.
var ErrNoEngine = errors.New("no engine can serve the query")

// Result is the answer to one query.
type Result struct {
	// Engine is the name of the engine that performed the query
	Engine string
	// Cost is the estimate the engine won with
	Cost uint64
	// StopBlock is the exclusive stop block handed to the engines, for contract event queries
	StopBlock uint64
	Logs      []types.Log
}

type boundPlan struct {
	engine string
	plan   query.Plan
	cost   uint64
	ok     bool
}

// Manager dispatches each query to the cheapest engine able to serve it and then offers the
// result to every engine's cache.
type Manager struct {
	engines []query.Engine
	heights cache.HeightSource
	log     *logger.Logger
}

// NewManager creates a manager over engines, tried in order; ties go to the earlier engine.
// heights pins open-ended contract event queries to one stop block shared by all engines.
func NewManager(engines []query.Engine, heights cache.HeightSource, log *logger.Logger) *Manager {
	return &Manager{
		engines: engines,
		heights: heights,
		log:     log.WithComponent(common.ComponentQueryManager),
	}
}

// Engines returns the names of the managed engines in order.
func (m *Manager) Engines() []string {
	names := make([]string, len(m.engines))
	for i, e := range m.engines {
		names[i] = e.Name()
	}
	return names
}

// Run answers q. Every bound plan is released before Run returns.
func (m *Manager) Run(ctx context.Context, q query.Query) (*Result, error) {
	start := time.Now()

	q, stop, err := m.pinStop(ctx, q)
	if err != nil {
		return nil, err
	}

	plans := make([]*boundPlan, 0, len(m.engines))
	defer func() {
		for _, bp := range plans {
			bp.plan.Release()
		}
	}()

	for _, e := range m.engines {
		if plan, ok := e.Bind(q); ok {
			plans = append(plans, &boundPlan{engine: e.Name(), plan: plan})
		}
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoEngine, q.Kind())
	}

	best, err := m.estimate(ctx, plans)
	if err != nil {
		return nil, err
	}

	logs, err := best.plan.Perform(ctx)
	if err != nil {
		metrics.QueryServedInc(best.engine, metrics.OutcomePerformError)
		return nil, fmt.Errorf("engine %s failed to perform query: %w", best.engine, err)
	}

	var errs []error
	for _, bp := range plans {
		if !bp.ok {
			continue
		}
		if err := bp.plan.UpdateCache(ctx, logs); err != nil {
			errs = append(errs, fmt.Errorf("engine %s: %w", bp.engine, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		metrics.QueryServedInc(best.engine, metrics.OutcomeUpdateError)
		return nil, fmt.Errorf("failed to update caches: %w", err)
	}

	metrics.QueryServedInc(best.engine, metrics.OutcomeOK)
	metrics.QueryDurationLog(best.engine, time.Since(start))
	metrics.LogsReturnedAdd(best.engine, len(logs))

	m.log.Debugw("query served",
		"kind", q.Kind().String(),
		"engine", best.engine,
		"cost", best.cost,
		"logs", len(logs),
		"elapsed", time.Since(start),
	)

	return &Result{Engine: best.engine, Cost: best.cost, StopBlock: stop, Logs: logs}, nil
}

// estimate asks every plan for its cost and returns the cheapest. Plans that fail to estimate
// are skipped; the query fails only when none succeeds.
func (m *Manager) estimate(ctx context.Context, plans []*boundPlan) (*boundPlan, error) {
	var (
		best *boundPlan
		errs []error
	)

	for _, bp := range plans {
		cost, err := bp.plan.Estimate(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			m.log.Warnw("engine failed to estimate", "engine", bp.engine, "error", err)
			metrics.ErrorsInc(common.ComponentQueryManager, "warning")
			errs = append(errs, fmt.Errorf("engine %s: %w", bp.engine, err))
			continue
		}

		bp.cost, bp.ok = cost, true
		metrics.EngineCostSet(bp.engine, cost)

		if best == nil || cost < best.cost {
			best = bp
		}
	}

	if best == nil {
		return nil, fmt.Errorf("no engine could estimate the query: %w", errors.Join(errs...))
	}

	return best, nil
}

// pinStop resolves the stop block against a single head reading so that every engine serves
// the same range. Unbounded stops and stops past the head both become head+1.
func (m *Manager) pinStop(ctx context.Context, q query.Query) (query.Query, uint64, error) {
	ceq, ok := query.AsContractEventQuery(q)
	if !ok {
		return q, 0, nil
	}
	if m.heights == nil {
		return ceq, ceq.StopBlock, nil
	}

	head, err := m.heights.CurrentHeight(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to resolve current height: %w", err)
	}

	ceq.StopBlock = cache.ResolveStop(ceq.StopBlock, head)
	return ceq, ceq.StopBlock, nil
}
