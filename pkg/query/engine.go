package query

import (
	"context"

	"github.com/ethereum/go-ethereum/core/types"
)

// Engine answers the query kinds it understands.
type Engine interface {
	// Name is the registry name of the engine.
	Name() string

	// Bind resolves the query kind once. ok is false when the engine cannot serve q;
	// that is not an error.
	Bind(q Query) (plan Plan, ok bool)
}

// Plan is one engine's handle on one query. Release must be called exactly once when the
// caller is done with the plan, whatever happened before.
type Plan interface {
	// Estimate returns the relative cost of performing the query; lower is cheaper.
	Estimate(ctx context.Context) (uint64, error)

	// Perform executes the query.
	Perform(ctx context.Context) ([]types.Log, error)

	// UpdateCache offers the result of a performed query to the engine,
	// whichever engine produced it.
	UpdateCache(ctx context.Context, logs []types.Log) error

	Release()
}
