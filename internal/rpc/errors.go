package rpc

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/goran-ethernal/EventCache/internal/common"
)

var (
	// Geth/Erigon/Infura style and Alchemy style result-size rejections.
	tooManyResultsRe = regexp.MustCompile(`(?i)query returned more than \d+ results|log response size exceeded`)
	blockRangeRe     = regexp.MustCompile(`\[(0x[0-9a-fA-F]+),\s*(0x[0-9a-fA-F]+)\]`)
)

// IsTooManyResultsError reports whether err is the node refusing an eth_getLogs call because the
// result set is too large. The returned string is the text the node sent, which may carry a
// suggested block range (see ParseSuggestedBlockRange).
func IsTooManyResultsError(err error) (bool, string) {
	if err == nil {
		return false, ""
	}

	text := err.Error()

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) && dataErr.ErrorData() != nil {
		text = fmt.Sprintf("%v", dataErr.ErrorData())
	}

	if !tooManyResultsRe.MatchString(text) {
		return false, ""
	}

	return true, text
}

// ParseSuggestedBlockRange extracts the first "[0xFROM, 0xTO]" pair from a node message.
func ParseSuggestedBlockRange(msg string) (fromBlock, toBlock uint64, ok bool) {
	m := blockRangeRe.FindStringSubmatch(msg)
	if m == nil {
		return 0, 0, false
	}

	from, err := common.ParseUint64orHex(&m[1])
	if err != nil {
		return 0, 0, false
	}
	to, err := common.ParseUint64orHex(&m[2])
	if err != nil {
		return 0, 0, false
	}

	return from, to, true
}
