package cache

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Unbounded can be passed as a stop block to mean "up to the current head".
const Unbounded uint64 = 0

// CacheKey identifies one cached event stream: a contract and one of its events.
type CacheKey struct {
	Address   common.Address
	EventName string
}

func NewCacheKey(address common.Address, eventName string) CacheKey {
	return CacheKey{Address: address, EventName: eventName}
}

func (k CacheKey) String() string {
	return k.Address.Hex() + ":" + k.EventName
}

// ProgressRecord tracks how far a key has been fetched. Every block up to and including
// Watermark has been fetched and its logs stored.
type ProgressRecord struct {
	ID              int64          `meddler:"id,pk"`
	Address         common.Address `meddler:"address,address"`
	EventName       string         `meddler:"event_name"`
	EventDescriptor []byte         `meddler:"event_descriptor"`
	Watermark       uint64         `meddler:"watermark"`
	CreatedAt       int64          `meddler:"created_at"`
	UpdatedAt       int64          `meddler:"updated_at"`
}

func (r *ProgressRecord) Key() CacheKey {
	return NewCacheKey(r.Address, r.EventName)
}

// CachedEntry is one stored log. Payload is the versioned encoding of the log.
type CachedEntry struct {
	ID          int64  `meddler:"id,pk"`
	RecordID    int64  `meddler:"record_id"`
	BlockNumber uint64 `meddler:"block_number"`
	LogIndex    uint64 `meddler:"log_index"`
	Payload     []byte `meddler:"payload"`
	CreatedAt   int64  `meddler:"created_at"`
}

// LogRecord is the unit of data the cache stores and returns.
type LogRecord = types.Log

// CommitResult summarizes what a commit did with the records it was given.
type CommitResult struct {
	// Stored is the number of new entries written.
	Stored int
	// Duplicates were already cached and left untouched.
	Duplicates int
	// Regressed records were below the watermark and dropped.
	Regressed int
	// OutOfRange records were at or past the stop block and dropped.
	OutOfRange int

	PreviousWatermark uint64
	Watermark         uint64
}

// KeyStatus is a progress record together with the number of entries cached for it.
type KeyStatus struct {
	Record  *ProgressRecord
	Entries int64
}

// CostPerPage is the estimated cost of one page of blocks still to be fetched remotely.
const CostPerPage = 100

// ResolveStop turns a requested exclusive stop block into the one actually served:
// Unbounded and anything past the head become head+1.
func ResolveStop(requested, head uint64) uint64 {
	limit := head + 1
	if requested == Unbounded || requested > limit {
		return limit
	}
	return requested
}
