// Package codec encodes cached logs into versioned payload blobs.
//
// A payload is a single version byte followed by the version's body. Decoders for every
// released version are kept so entries written by older builds stay readable.
package codec

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
)

const (
	// VersionV1 is an RLP list of every consensus and derived field of a log.
	VersionV1 byte = 1

	// CurrentVersion is used by Encode.
	CurrentVersion = VersionV1
)

var (
	ErrEmptyPayload       = errors.New("empty payload")
	ErrUnsupportedVersion = errors.New("unsupported payload version")
)

type storedLogV1 struct {
	Address     common.Address
	Topics      []common.Hash
	Data        []byte
	BlockNumber uint64
	TxHash      common.Hash
	TxIndex     uint64
	BlockHash   common.Hash
	Index       uint64
	Removed     bool
	// Filled in by nodes that support it. Optional so bodies written without it still decode.
	BlockTimestamp uint64 `rlp:"optional"`
}

// Encode serializes a log with the current payload version.
func Encode(log types.Log) ([]byte, error) {
	body, err := rlp.EncodeToBytes(&storedLogV1{
		Address:     log.Address,
		Topics:      log.Topics,
		Data:        log.Data,
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash,
		TxIndex:     uint64(log.TxIndex),
		BlockHash:   log.BlockHash,
		Index:       uint64(log.Index),
		Removed:     log.Removed,

		BlockTimestamp: log.BlockTimestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode log %d/%d: %w", log.BlockNumber, log.Index, err)
	}

	payload := make([]byte, 0, len(body)+1)
	payload = append(payload, CurrentVersion)
	return append(payload, body...), nil
}

// Decode restores a log from a payload of any supported version.
func Decode(payload []byte) (types.Log, error) {
	if len(payload) == 0 {
		return types.Log{}, ErrEmptyPayload
	}

	switch payload[0] {
	case VersionV1:
		var stored storedLogV1
		if err := rlp.DecodeBytes(payload[1:], &stored); err != nil {
			return types.Log{}, fmt.Errorf("failed to decode v1 payload: %w", err)
		}

		if len(stored.Topics) == 0 {
			stored.Topics = nil
		}

		return types.Log{
			Address:     stored.Address,
			Topics:      stored.Topics,
			Data:        stored.Data,
			BlockNumber: stored.BlockNumber,
			TxHash:      stored.TxHash,
			TxIndex:     uint(stored.TxIndex),
			BlockHash:   stored.BlockHash,
			Index:       uint(stored.Index),
			Removed:     stored.Removed,

			BlockTimestamp: stored.BlockTimestamp,
		}, nil
	default:
		return types.Log{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, payload[0])
	}
}
