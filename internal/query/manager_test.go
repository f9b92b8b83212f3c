package query

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	_ "github.com/goran-ethernal/EventCache/internal/cache"
	"github.com/goran-ethernal/EventCache/internal/cache/store"
	"github.com/goran-ethernal/EventCache/internal/event"
	_ "github.com/goran-ethernal/EventCache/internal/fetcher"
	"github.com/goran-ethernal/EventCache/internal/logger"
	"github.com/goran-ethernal/EventCache/pkg/cache"
	cachemocks "github.com/goran-ethernal/EventCache/pkg/cache/mocks"
	"github.com/goran-ethernal/EventCache/pkg/config"
	"github.com/goran-ethernal/EventCache/pkg/query"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testContract = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")

type fakeEngine struct {
	name        string
	accept      bool
	cost        uint64
	logs        []types.Log
	estimateErr error
	performErr  error
	updateErr   error

	mu        sync.Mutex
	queries   []query.Query
	performed int
	updated   [][]types.Log
	released  int
}

func (e *fakeEngine) Name() string { return e.name }

func (e *fakeEngine) Bind(q query.Query) (query.Plan, bool) {
	if !e.accept {
		return nil, false
	}

	e.mu.Lock()
	e.queries = append(e.queries, q)
	e.mu.Unlock()

	return &fakePlan{engine: e}, true
}

type fakePlan struct {
	engine *fakeEngine
}

func (p *fakePlan) Estimate(context.Context) (uint64, error) {
	return p.engine.cost, p.engine.estimateErr
}

func (p *fakePlan) Perform(context.Context) ([]types.Log, error) {
	p.engine.mu.Lock()
	p.engine.performed++
	p.engine.mu.Unlock()
	return p.engine.logs, p.engine.performErr
}

func (p *fakePlan) UpdateCache(_ context.Context, logs []types.Log) error {
	p.engine.mu.Lock()
	p.engine.updated = append(p.engine.updated, logs)
	p.engine.mu.Unlock()
	return p.engine.updateErr
}

func (p *fakePlan) Release() {
	p.engine.mu.Lock()
	p.engine.released++
	p.engine.mu.Unlock()
}

func eventQuery(stop uint64) query.ContractEventQuery {
	return query.ContractEventQuery{
		Contract:        testContract,
		EventName:       "Transfer",
		EventDescriptor: []byte(`[]`),
		StopBlock:       stop,
	}
}

func TestManager_PicksCheapestEngine(t *testing.T) {
	expensive := &fakeEngine{name: "expensive", accept: true, cost: 500}
	cheap := &fakeEngine{name: "cheap", accept: true, cost: 10, logs: []types.Log{{BlockNumber: 7}}}
	foreign := &fakeEngine{name: "foreign", accept: false}

	m := NewManager([]query.Engine{expensive, cheap, foreign}, nil, logger.NewNopLogger())
	require.Equal(t, []string{"expensive", "cheap", "foreign"}, m.Engines())

	res, err := m.Run(context.Background(), eventQuery(100))
	require.NoError(t, err)
	require.Equal(t, "cheap", res.Engine)
	require.Equal(t, uint64(10), res.Cost)
	require.Equal(t, uint64(100), res.StopBlock)
	require.Len(t, res.Logs, 1)

	require.Equal(t, 0, expensive.performed)
	require.Equal(t, 1, cheap.performed)

	// every estimated plan sees the result and every bound plan is released
	require.Equal(t, [][]types.Log{res.Logs}, expensive.updated)
	require.Equal(t, [][]types.Log{res.Logs}, cheap.updated)
	require.Equal(t, 1, expensive.released)
	require.Equal(t, 1, cheap.released)
	require.Equal(t, 0, foreign.released)
}

func TestManager_TieGoesToFirstEngine(t *testing.T) {
	first := &fakeEngine{name: "first", accept: true, cost: 10}
	second := &fakeEngine{name: "second", accept: true, cost: 10}

	res, err := NewManager([]query.Engine{first, second}, nil, logger.NewNopLogger()).
		Run(context.Background(), eventQuery(100))
	require.NoError(t, err)
	require.Equal(t, "first", res.Engine)
}

func TestManager_NoEngine(t *testing.T) {
	foreign := &fakeEngine{name: "foreign", accept: false}

	_, err := NewManager([]query.Engine{foreign}, nil, logger.NewNopLogger()).
		Run(context.Background(), query.BlockQuery{From: 1, To: 2})
	require.ErrorIs(t, err, ErrNoEngine)

	_, err = NewManager(nil, nil, logger.NewNopLogger()).Run(context.Background(), eventQuery(1))
	require.ErrorIs(t, err, ErrNoEngine)
}

func TestManager_SkipsEnginesThatFailToEstimate(t *testing.T) {
	broken := &fakeEngine{name: "broken", accept: true, estimateErr: errors.New("boom")}
	working := &fakeEngine{name: "working", accept: true, cost: 1000}

	res, err := NewManager([]query.Engine{broken, working}, nil, logger.NewNopLogger()).
		Run(context.Background(), eventQuery(100))
	require.NoError(t, err)
	require.Equal(t, "working", res.Engine)
	require.Empty(t, broken.updated)
	require.Equal(t, 1, broken.released)
}

func TestManager_AllEstimatesFail(t *testing.T) {
	estimateErr := errors.New("boom")
	broken := &fakeEngine{name: "broken", accept: true, estimateErr: estimateErr}

	_, err := NewManager([]query.Engine{broken}, nil, logger.NewNopLogger()).
		Run(context.Background(), eventQuery(100))
	require.ErrorIs(t, err, estimateErr)
	require.Equal(t, 1, broken.released)
}

func TestManager_PerformError(t *testing.T) {
	performErr := errors.New("node down")
	e := &fakeEngine{name: "e", accept: true, performErr: performErr}

	_, err := NewManager([]query.Engine{e}, nil, logger.NewNopLogger()).
		Run(context.Background(), eventQuery(100))
	require.ErrorIs(t, err, performErr)
	require.Empty(t, e.updated)
	require.Equal(t, 1, e.released)
}

func TestManager_UpdateCacheError(t *testing.T) {
	updateErr := errors.New("disk full")
	winner := &fakeEngine{name: "winner", accept: true, cost: 1}
	failing := &fakeEngine{name: "failing", accept: true, cost: 5, updateErr: updateErr}

	_, err := NewManager([]query.Engine{winner, failing}, nil, logger.NewNopLogger()).
		Run(context.Background(), eventQuery(100))
	require.ErrorIs(t, err, updateErr)
	require.ErrorContains(t, err, "engine failing")
	require.Len(t, winner.updated, 1)
	require.Equal(t, 1, winner.released)
	require.Equal(t, 1, failing.released)
}

func TestManager_PinsUnboundedStop(t *testing.T) {
	heights := cachemocks.NewHeightSource(t)
	heights.EXPECT().CurrentHeight(mock.Anything).Return(uint64(999), nil).Once()

	a := &fakeEngine{name: "a", accept: true, cost: 1}
	b := &fakeEngine{name: "b", accept: true, cost: 2}

	res, err := NewManager([]query.Engine{a, b}, heights, logger.NewNopLogger()).
		Run(context.Background(), eventQuery(cache.Unbounded))
	require.NoError(t, err)
	require.Equal(t, uint64(1000), res.StopBlock)

	for _, e := range []*fakeEngine{a, b} {
		require.Len(t, e.queries, 1)
		ceq, ok := query.AsContractEventQuery(e.queries[0])
		require.True(t, ok)
		require.Equal(t, uint64(1000), ceq.StopBlock)
	}
}

func TestManager_ClampsStopPastHead(t *testing.T) {
	heights := cachemocks.NewHeightSource(t)
	heights.EXPECT().CurrentHeight(mock.Anything).Return(uint64(999), nil).Times(2)

	e := &fakeEngine{name: "e", accept: true, cost: 1}
	m := NewManager([]query.Engine{e}, heights, logger.NewNopLogger())

	res, err := m.Run(context.Background(), eventQuery(5000))
	require.NoError(t, err)
	require.Equal(t, uint64(1000), res.StopBlock)

	// a stop inside the chain is served as requested
	res, err = m.Run(context.Background(), eventQuery(200))
	require.NoError(t, err)
	require.Equal(t, uint64(200), res.StopBlock)

	require.Len(t, e.queries, 2)
	ceq, ok := query.AsContractEventQuery(e.queries[0])
	require.True(t, ok)
	require.Equal(t, uint64(1000), ceq.StopBlock)
}

func TestManager_HeightError(t *testing.T) {
	heightErr := errors.New("rpc down")
	heights := cachemocks.NewHeightSource(t)
	heights.EXPECT().CurrentHeight(mock.Anything).Return(uint64(0), heightErr).Once()

	e := &fakeEngine{name: "e", accept: true}

	_, err := NewManager([]query.Engine{e}, heights, logger.NewNopLogger()).
		Run(context.Background(), eventQuery(cache.Unbounded))
	require.ErrorIs(t, err, heightErr)
	require.Empty(t, e.queries)
}

type fixedPageSize uint64

func (p fixedPageSize) PageSize() uint64 { return uint64(p) }

func TestManager_CacheAndRPCEngines(t *testing.T) {
	ctx := context.Background()

	dbCfg := config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "cache.sqlite")}
	dbCfg.ApplyDefaults()

	s, err := store.Open(ctx, dbCfg, nil, logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	name, desc, err := event.DescriptorFor("Transfer(address indexed from, address indexed to, uint256 value)")
	require.NoError(t, err)

	var head atomic.Uint64
	head.Store(999)

	heights := cachemocks.NewHeightSource(t)
	heights.EXPECT().CurrentHeight(mock.Anything).RunAndReturn(func(context.Context) (uint64, error) {
		return head.Load(), nil
	})

	fetcher := cachemocks.NewRangeFetcher(t)
	fetcher.EXPECT().FetchLogs(mock.Anything, testContract, desc, uint64(1), uint64(1000)).
		Return([]cache.LogRecord{{Address: testContract, BlockNumber: 10}, {Address: testContract, BlockNumber: 500}}, nil).
		Once()
	fetcher.EXPECT().FetchLogs(mock.Anything, testContract, desc, uint64(1000), uint64(1100)).
		Return([]cache.LogRecord{{Address: testContract, BlockNumber: 1050}}, nil).
		Once()

	engines, err := query.CreateAll([]string{"cache", "rpc"}, query.Deps{
		Tx:      s,
		Keys:    s.Keys(),
		Entries: s.Entries(),
		Fetcher: fetcher,
		Heights: heights,
		Pages:   fixedPageSize(100),
	}, logger.NewNopLogger())
	require.NoError(t, err)

	m := NewManager(engines, heights, logger.NewNopLogger())
	q := query.ContractEventQuery{Contract: testContract, EventName: name, EventDescriptor: desc}

	// cold key: cache 100*999/100 beats rpc 100*1000/100
	res, err := m.Run(ctx, q)
	require.NoError(t, err)
	require.Equal(t, "cache", res.Engine)
	require.Equal(t, uint64(999), res.Cost)
	require.Len(t, res.Logs, 2)

	// warm key at the same head: nothing to fetch
	res, err = m.Run(ctx, q)
	require.NoError(t, err)
	require.Equal(t, "cache", res.Engine)
	require.Zero(t, res.Cost)
	require.Len(t, res.Logs, 2)

	// head moved by one page: only the delta is fetched
	head.Store(1099)
	res, err = m.Run(ctx, q)
	require.NoError(t, err)
	require.Equal(t, "cache", res.Engine)
	require.Equal(t, uint64(100), res.Cost)
	require.Equal(t, []uint64{10, 500, 1050},
		[]uint64{res.Logs[0].BlockNumber, res.Logs[1].BlockNumber, res.Logs[2].BlockNumber})

	statuses, err := s.ListStatus(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	require.Equal(t, uint64(1099), statuses[0].Record.Watermark)
	require.Equal(t, int64(3), statuses[0].Entries)
}
