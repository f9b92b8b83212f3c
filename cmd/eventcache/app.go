package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/goran-ethernal/EventCache/internal/cache/store"
	"github.com/goran-ethernal/EventCache/internal/common"
	"github.com/goran-ethernal/EventCache/internal/fetcher"
	"github.com/goran-ethernal/EventCache/internal/logger"
	"github.com/goran-ethernal/EventCache/internal/metrics"
	iquery "github.com/goran-ethernal/EventCache/internal/query"
	"github.com/goran-ethernal/EventCache/internal/rpc"
	"github.com/goran-ethernal/EventCache/pkg/config"
	"github.com/goran-ethernal/EventCache/pkg/query"
)

// app holds everything the query and serve commands need. close releases it in reverse order.
type app struct {
	store   *store.Store
	client  *rpc.Client
	manager *iquery.Manager
	metrics *metrics.Server
	log     *logger.Logger
}

func openStore(ctx context.Context, cfg *config.Config, maintenance *config.MaintenanceConfig) (*store.Store, error) {
	return store.Open(ctx, cfg.Cache.DB, maintenance,
		logger.NewComponentLoggerFromConfig(common.ComponentCacheStore, cfg.Logging))
}

func newApp(ctx context.Context, cfg *config.Config) (_ *app, err error) {
	log := logger.NewComponentLoggerFromConfig(common.ComponentQueryManager, cfg.Logging)
	a := &app{log: log}
	defer func() {
		if err != nil {
			a.close(context.Background())
		}
	}()

	a.client, err = rpc.NewClient(ctx, cfg.Cache.RPCURL, cfg.Cache.Retry,
		logger.NewComponentLoggerFromConfig(common.ComponentRPC, cfg.Logging))
	if err != nil {
		return nil, fmt.Errorf("failed to create RPC client: %w", err)
	}

	finality, err := fetcher.ParseBlockFinality(cfg.Cache.Finality)
	if err != nil {
		return nil, err
	}

	heads, err := fetcher.NewHeadTracker(a.client, finality, cfg.Cache.FinalizedLag,
		logger.NewComponentLoggerFromConfig(common.ComponentHeadTracker, cfg.Logging))
	if err != nil {
		return nil, err
	}

	ranges, err := fetcher.NewRangeFetcher(a.client, cfg.Cache.PageSize, cfg.Cache.Concurrency,
		logger.NewComponentLoggerFromConfig(common.ComponentRangeFetcher, cfg.Logging))
	if err != nil {
		return nil, err
	}

	a.store, err = openStore(ctx, cfg, cfg.Cache.Maintenance)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache store: %w", err)
	}
	if err := a.store.Maintenance().Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start database maintenance: %w", err)
	}

	engines, err := query.CreateAll(cfg.Engines, query.Deps{
		Config:  cfg.Cache,
		Tx:      a.store,
		Keys:    a.store.Keys(),
		Entries: a.store.Entries(),
		Fetcher: ranges,
		Heights: heads,
		Pages:   ranges,
	}, logger.NewComponentLoggerFromConfig(common.ComponentCacheEngine, cfg.Logging))
	if err != nil {
		return nil, err
	}
	a.manager = iquery.NewManager(engines, heads, log)

	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		a.metrics = metrics.NewServer(cfg.Metrics, log)
		if err := a.metrics.Start(ctx); err != nil {
			return nil, fmt.Errorf("failed to start metrics server: %w", err)
		}
	}

	return a, nil
}

func (a *app) close(ctx context.Context) error {
	var errs []error

	if a.metrics != nil {
		errs = append(errs, a.metrics.Stop(ctx))
	}
	if a.store != nil {
		errs = append(errs, a.store.Maintenance().Stop(), a.store.Close())
	}
	if a.client != nil {
		a.client.Close()
	}

	return errors.Join(errs...)
}
