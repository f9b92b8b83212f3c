package rpc

import (
	"context"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
)

// LogSource serves eth_getLogs. The range fetcher depends only on this.
type LogSource interface {
	GetLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error)
}

// HeaderSource resolves the block headers behind the latest, finalized and safe tags.
type HeaderSource interface {
	GetLatestBlockHeader(ctx context.Context) (*types.Header, error)
	GetFinalizedBlockHeader(ctx context.Context) (*types.Header, error)
	GetSafeBlockHeader(ctx context.Context) (*types.Header, error)
}

// EthClient is the node connection used by the cache binary.
type EthClient interface {
	LogSource
	HeaderSource

	Close()
}
