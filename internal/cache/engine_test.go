package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/EventCache/internal/cache/store"
	"github.com/goran-ethernal/EventCache/internal/common"
	"github.com/goran-ethernal/EventCache/internal/logger"
	"github.com/goran-ethernal/EventCache/pkg/cache"
	"github.com/goran-ethernal/EventCache/pkg/cache/mocks"
	"github.com/goran-ethernal/EventCache/pkg/config"
	"github.com/goran-ethernal/EventCache/pkg/query"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) *config.RetryConfig {
	return &config.RetryConfig{
		MaxAttempts:       attempts,
		InitialBackoff:    common.NewDuration(time.Millisecond),
		MaxBackoff:        common.NewDuration(5 * time.Millisecond),
		BackoffMultiplier: 2,
	}
}

func newTestEngine(t *testing.T, s *store.Store, tx cache.TxRunner, fetcher cache.RangeFetcher,
	head uint64) *Engine {
	t.Helper()

	e, err := NewEngine(query.Deps{
		Config:  config.CacheConfig{CommitRetry: fastRetry(3)},
		Tx:      tx,
		Keys:    s.Keys(),
		Entries: s.Entries(),
		Fetcher: fetcher,
		Heights: staticHeight(head),
		Pages:   staticPageSize(100),
	}, logger.NewNopLogger())
	require.NoError(t, err)
	return e
}

func transferQuery(stop uint64) query.ContractEventQuery {
	return query.ContractEventQuery{
		Contract:        testAddress,
		EventName:       "Transfer",
		EventDescriptor: testDescriptor,
		StopBlock:       stop,
	}
}

func runPlan(ctx context.Context, p query.Plan) (uint64, []types.Log, error) {
	defer p.Release()

	cost, err := p.Estimate(ctx)
	if err != nil {
		return 0, nil, err
	}
	logs, err := p.Perform(ctx)
	if err != nil {
		return 0, nil, err
	}
	return cost, logs, p.UpdateCache(ctx, logs)
}

func TestEngine_Registered(t *testing.T) {
	require.NotNil(t, query.GetFactory(EngineName))

	_, err := query.Create(EngineName, query.Deps{}, logger.NewNopLogger())
	require.ErrorContains(t, err, "requires a store")
}

func TestEngine_BindOnlyContractEvents(t *testing.T) {
	s := setupTestStore(t)
	e := newTestEngine(t, s, s, mocks.NewRangeFetcher(t), 1000)

	_, ok := e.Bind(query.BlockQuery{From: 1, To: 2})
	require.False(t, ok)

	_, ok = e.Bind(query.AccountTransactionQuery{})
	require.False(t, ok)

	_, ok = e.Bind(query.ContractEventQuery{Contract: testAddress})
	require.False(t, ok, "an event name is required")

	p, ok := e.Bind(transferQuery(0))
	require.True(t, ok)
	p.Release()

	_, ok = e.Bind(&query.ContractEventQuery{Contract: testAddress, EventName: "Approval"})
	require.False(t, ok, "a descriptor is required")

	p, ok = e.Bind(&query.ContractEventQuery{Contract: testAddress, EventName: "Approval", EventDescriptor: testDescriptor})
	require.True(t, ok)
	p.Release()
}

func TestEngine_FullCycle(t *testing.T) {
	s := setupTestStore(t)
	fetcher := mocks.NewRangeFetcher(t)
	e := newTestEngine(t, s, s, fetcher, 999)
	ctx := t.Context()

	fetcher.EXPECT().FetchLogs(mock.Anything, testAddress, testDescriptor, uint64(1), uint64(1000)).
		Return(logsAt(10, 500), nil).Once()

	p, ok := e.Bind(transferQuery(0))
	require.True(t, ok)
	cost, logs, err := runPlan(ctx, p)
	require.NoError(t, err)
	require.Equal(t, uint64(999), cost)
	require.Equal(t, []uint64{10, 500}, blocksOf(logs))
	require.Equal(t, uint64(999), watermarkOf(t, s, testKey))

	// second request is served from the cache alone
	p, _ = e.Bind(transferQuery(0))
	cost, logs, err = runPlan(ctx, p)
	require.NoError(t, err)
	require.Zero(t, cost)
	require.Equal(t, []uint64{10, 500}, blocksOf(logs))
}

func TestEngine_StopIsClampedToHead(t *testing.T) {
	s := setupTestStore(t)
	fetcher := mocks.NewRangeFetcher(t)
	e := newTestEngine(t, s, s, fetcher, 150)

	fetcher.EXPECT().FetchLogs(mock.Anything, testAddress, testDescriptor, uint64(1), uint64(151)).
		Return(nil, nil).Once()

	p, _ := e.Bind(transferQuery(10_000))
	_, _, err := runPlan(t.Context(), p)
	require.NoError(t, err)
	require.Equal(t, uint64(150), watermarkOf(t, s, testKey))
}

func TestEngine_UpdateCacheFromAnotherEngine(t *testing.T) {
	s := setupTestStore(t)
	e := newTestEngine(t, s, s, mocks.NewRangeFetcher(t), 1000)
	ctx := t.Context()

	p, _ := e.Bind(transferQuery(200))
	defer p.Release()

	_, err := p.Estimate(ctx)
	require.NoError(t, err)

	// results produced by a direct engine for [0, 200)
	require.NoError(t, p.UpdateCache(ctx, logsAt(0, 100, 199)))
	require.Equal(t, uint64(199), watermarkOf(t, s, testKey))
}

func TestEngine_PlanRequiresEstimate(t *testing.T) {
	s := setupTestStore(t)
	e := newTestEngine(t, s, s, mocks.NewRangeFetcher(t), 1000)

	p, _ := e.Bind(transferQuery(0))
	defer p.Release()

	_, err := p.Perform(t.Context())
	require.ErrorIs(t, err, ErrNotEstimated)
	require.ErrorIs(t, p.UpdateCache(t.Context(), nil), ErrNotEstimated)
}

func TestEngine_SerializesSameKey(t *testing.T) {
	s := setupTestStore(t)
	fetcher := mocks.NewRangeFetcher(t)
	e := newTestEngine(t, s, s, fetcher, 100)

	// only the first request reaches the remote source
	fetcher.EXPECT().FetchLogs(mock.Anything, testAddress, testDescriptor, uint64(1), uint64(101)).
		Return(logsAt(42), nil).Once()

	var wg sync.WaitGroup
	for range 5 {
		wg.Go(func() {
			p, _ := e.Bind(transferQuery(0))
			_, logs, err := runPlan(t.Context(), p)
			require.NoError(t, err)
			require.Equal(t, []uint64{42}, blocksOf(logs))
		})
	}
	wg.Wait()

	require.Equal(t, 1, e.locks.Len())
}

func TestEngine_LockHonoursContext(t *testing.T) {
	s := setupTestStore(t)
	e := newTestEngine(t, s, s, mocks.NewRangeFetcher(t), 100)

	holder, _ := e.Bind(transferQuery(0))
	_, err := holder.Estimate(t.Context())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	waiter, _ := e.Bind(transferQuery(0))
	_, err = waiter.Estimate(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	waiter.Release()

	holder.Release()
	holder.Release()
}

func TestEngine_RetriesConflicts(t *testing.T) {
	s := setupTestStore(t)
	tx := &conflictingTx{inner: s}
	tx.n.Store(2)
	e := newTestEngine(t, s, tx, mocks.NewRangeFetcher(t), 1000)

	p, _ := e.Bind(transferQuery(1))
	defer p.Release()

	cost, err := p.Estimate(t.Context())
	require.NoError(t, err)
	require.Zero(t, cost)

	tx.n.Store(5)
	err = p.UpdateCache(t.Context(), nil)
	require.ErrorIs(t, err, cache.ErrStoreConflict)
	require.ErrorContains(t, err, "commit failed after 3 attempts")
}

func TestRetryOnConflict_NonConflictFailsFast(t *testing.T) {
	calls := 0
	boom := errors.New("boom")

	_, err := retryOnConflict(t.Context(), fastRetry(5), logger.NewNopLogger(), "op", func() (int, error) {
		calls++
		return 0, boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, calls)

	calls = 0
	v, err := retryOnConflict(t.Context(), nil, logger.NewNopLogger(), "op", func() (int, error) {
		calls++
		return 7, nil
	})
	require.NoError(t, err)
	require.Equal(t, 7, v)
	require.Equal(t, 1, calls)
}

func TestCalculateBackoff(t *testing.T) {
	cfg := &config.RetryConfig{
		InitialBackoff:    common.NewDuration(100 * time.Millisecond),
		MaxBackoff:        common.NewDuration(time.Second),
		BackoffMultiplier: 2,
	}

	require.Zero(t, calculateBackoff(1, cfg))

	d := calculateBackoff(2, cfg)
	require.GreaterOrEqual(t, d, 75*time.Millisecond)
	require.LessOrEqual(t, d, 125*time.Millisecond)

	d = calculateBackoff(20, cfg)
	require.LessOrEqual(t, d, 1250*time.Millisecond)
	require.GreaterOrEqual(t, d, 750*time.Millisecond)
}
