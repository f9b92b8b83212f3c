package api

import (
	"time"

	"github.com/ethereum/go-ethereum/core/types"
)

// KeyInfo describes one cached (contract, event) key.
type KeyInfo struct {
	Address   string    `json:"address"`
	Event     string    `json:"event"`
	Watermark uint64    `json:"watermark"`
	Entries   int64     `json:"entries"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventsResponse is the answer to a contract event query.
type EventsResponse struct {
	Address   string `json:"address"`
	Event     string `json:"event"`
	Engine    string `json:"engine"`
	Cost      uint64 `json:"cost"`
	StopBlock uint64 `json:"stop_block"`
	LogCount  int    `json:"log_count"`
	// Logs is omitted when the request sets logs=false
	Logs []types.Log `json:"logs,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Engines   []string  `json:"engines"`
	Store     StoreInfo `json:"store"`
}

// StoreInfo reports whether the cache store answers and how many keys it tracks.
type StoreInfo struct {
	Healthy bool   `json:"healthy"`
	Keys    int    `json:"keys"`
	Error   string `json:"error,omitempty"`
}
