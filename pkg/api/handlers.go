package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goran-ethernal/EventCache/internal/event"
	"github.com/goran-ethernal/EventCache/internal/logger"
	iquery "github.com/goran-ethernal/EventCache/internal/query"
	"github.com/goran-ethernal/EventCache/pkg/cache"
	"github.com/goran-ethernal/EventCache/pkg/query"
)

// KeyLister lists every cached key with its entry count.
type KeyLister interface {
	ListStatus(ctx context.Context) ([]cache.KeyStatus, error)
}

// QueryRunner answers a query with the cheapest engine that accepts it.
type QueryRunner interface {
	Run(ctx context.Context, q query.Query) (*iquery.Result, error)
	Engines() []string
}

// Handler handles HTTP requests for the API.
type Handler struct {
	keys   KeyLister
	runner QueryRunner
	log    *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(keys KeyLister, runner QueryRunner, log *logger.Logger) *Handler {
	return &Handler{
		keys:   keys,
		runner: runner,
		log:    log,
	}
}

// ListKeys returns every cached key.
// @Summary List cached keys
// @Description Get every (contract, event) key in the cache with its watermark and entry count
// @Tags Keys
// @Produce json
// @Success 200 {array} KeyInfo "Cached keys"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/v1/keys [get]
func (h *Handler) ListKeys(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.keys.ListStatus(r.Context())
	if err != nil {
		h.log.Errorf("Failed to list keys: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list keys")
		return
	}

	infos := make([]KeyInfo, 0, len(statuses))
	for _, st := range statuses {
		infos = append(infos, KeyInfo{
			Address:   st.Record.Address.Hex(),
			Event:     st.Record.EventName,
			Watermark: st.Record.Watermark,
			Entries:   st.Entries,
			CreatedAt: time.Unix(st.Record.CreatedAt, 0).UTC(),
			UpdatedAt: time.Unix(st.Record.UpdatedAt, 0).UTC(),
		})
	}

	respondJSON(w, http.StatusOK, infos)
}

// GetEvents runs a contract event query.
// @Summary Get contract events
// @Description Return every log of an event emitted by a contract below the stop block.
// @Description Blocks past the key's watermark are fetched from the node and cached.
// @Tags Events
// @Produce json
// @Param contract query string true "Contract address"
// @Param event query string true "Event signature, e.g. Transfer(address indexed from, address indexed to, uint256 value)"
// @Param stop query integer false "Exclusive stop block, 0 or absent for the current head" default(0)
// @Param logs query bool false "Include the logs in the response" default(true)
// @Success 200 {object} EventsResponse "Query result"
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Failure 503 {object} ErrorResponse "No engine can serve the query"
// @Router /api/v1/events [get]
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	q, withLogs, err := parseEventsParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid query parameters: %v", err))
		return
	}

	res, err := h.runner.Run(r.Context(), q)
	switch {
	case errors.Is(err, iquery.ErrNoEngine):
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		h.log.Errorf("Failed to query %s %s: %v", q.Contract.Hex(), q.EventName, err)
		respondError(w, http.StatusInternalServerError, "failed to query events")
		return
	}

	response := EventsResponse{
		Address:   q.Contract.Hex(),
		Event:     q.EventName,
		Engine:    res.Engine,
		Cost:      res.Cost,
		StopBlock: res.StopBlock,
		LogCount:  len(res.Logs),
	}
	if withLogs {
		response.Logs = res.Logs
	}

	respondJSON(w, http.StatusOK, response)
}

// Health returns the health status of the API and the cache store.
// @Summary Health check
// @Description Check that the cache store answers and list the enabled engines
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Healthy"
// @Failure 503 {object} HealthResponse "Cache store unavailable"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Engines:   h.runner.Engines(),
	}

	statuses, err := h.keys.ListStatus(r.Context())
	if err != nil {
		response.Status = "unavailable"
		response.Store.Error = err.Error()
		respondJSON(w, http.StatusServiceUnavailable, response)
		return
	}
	response.Store.Healthy = true
	response.Store.Keys = len(statuses)

	respondJSON(w, http.StatusOK, response)
}

// parseEventsParams builds a contract event query from the request and reports whether
// the logs should be included in the response.
func parseEventsParams(r *http.Request) (query.ContractEventQuery, bool, error) {
	values := r.URL.Query()

	contract := values.Get("contract")
	if !common.IsHexAddress(contract) {
		return query.ContractEventQuery{}, false, fmt.Errorf("invalid contract address %q", contract)
	}

	signature := values.Get("event")
	if signature == "" {
		return query.ContractEventQuery{}, false, fmt.Errorf("event is required")
	}
	name, descriptor, err := event.DescriptorFor(signature)
	if err != nil {
		return query.ContractEventQuery{}, false, err
	}

	q := query.ContractEventQuery{
		Contract:        common.HexToAddress(contract),
		EventName:       name,
		EventDescriptor: descriptor,
	}

	if stopStr := values.Get("stop"); stopStr != "" {
		q.StopBlock, err = strconv.ParseUint(stopStr, 10, 64)
		if err != nil {
			return query.ContractEventQuery{}, false, fmt.Errorf("invalid stop")
		}
	}

	withLogs := true
	if logsStr := values.Get("logs"); logsStr != "" {
		withLogs, err = strconv.ParseBool(logsStr)
		if err != nil {
			return query.ContractEventQuery{}, false, fmt.Errorf("invalid logs: must be true or false")
		}
	}

	return q, withLogs, nil
}

// respondJSON encodes data before writing the status so an encoding failure can still
// be reported as a 500.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")

	encoded, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(encoded)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
