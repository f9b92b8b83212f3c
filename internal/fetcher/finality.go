package fetcher

import (
	"context"
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/EventCache/internal/common"
	"github.com/goran-ethernal/EventCache/pkg/rpc"
)

// BlockFinality selects the block tag that bounds how far the cache may advance.
type BlockFinality string

const (
	FinalityFinalized BlockFinality = "finalized"
	FinalitySafe      BlockFinality = "safe"
	// FinalityLatest follows the chain head, optionally held back by a fixed lag.
	FinalityLatest BlockFinality = "latest"
)

var finalityModes = []BlockFinality{FinalityFinalized, FinalitySafe, FinalityLatest}

func (f BlockFinality) String() string {
	return string(f)
}

func (f BlockFinality) IsValid() bool {
	return slices.Contains(finalityModes, f)
}

// headerGetter returns the HeaderSource call resolving f's block tag.
func (f BlockFinality) headerGetter(src rpc.HeaderSource) func(context.Context) (*types.Header, error) {
	switch f {
	case FinalityFinalized:
		return src.GetFinalizedBlockHeader
	case FinalitySafe:
		return src.GetSafeBlockHeader
	default:
		return src.GetLatestBlockHeader
	}
}

// ParseBlockFinality parses a finality mode, ignoring case and surrounding spaces.
func ParseBlockFinality(s string) (BlockFinality, error) {
	f := BlockFinality(common.ToLowerWithTrim(s))
	if !f.IsValid() {
		return "", fmt.Errorf("invalid block finality %q (must be one of: %v)", s, finalityModes)
	}
	return f, nil
}
