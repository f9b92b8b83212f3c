package cache

import (
	"database/sql"
	"testing"

	"github.com/goran-ethernal/EventCache/internal/logger"
	"github.com/goran-ethernal/EventCache/pkg/cache"
	"github.com/stretchr/testify/require"
)

func TestCost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		height    uint64
		watermark uint64
		pageSize  uint64
		want      uint64
	}{
		{name: "ten pages outstanding", height: 1000, watermark: 0, pageSize: 100, want: 1000},
		{name: "one page", height: 150, watermark: 50, pageSize: 100, want: 100},
		{name: "partial page rounds down", height: 149, watermark: 50, pageSize: 100, want: 99},
		{name: "less than a percent of a page", height: 51, watermark: 50, pageSize: 1000, want: 0},
		{name: "caught up", height: 1000, watermark: 1000, pageSize: 100, want: 0},
		{name: "watermark past height", height: 900, watermark: 1000, pageSize: 100, want: 0},
		{name: "not capped", height: 1_000_000, watermark: 0, pageSize: 10, want: 10_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Cost(tt.height, tt.watermark, tt.pageSize))
		})
	}
}

func TestEstimator_CreatesRecordOnFirstEstimate(t *testing.T) {
	s := setupTestStore(t)
	e := NewEstimator(s, s.Keys(), logger.NewNopLogger())

	cost, err := e.Estimate(t.Context(), testKey, testDescriptor, 1000, 100)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), cost)

	require.NoError(t, s.WithTx(t.Context(), func(tx *sql.Tx) error {
		rec, err := s.Keys().Get(t.Context(), tx, testKey)
		require.NoError(t, err)
		require.NotNil(t, rec)
		require.Zero(t, rec.Watermark)
		require.Equal(t, testDescriptor, rec.EventDescriptor)
		return nil
	}))

	// same record, same answer
	cost, err = e.Estimate(t.Context(), testKey, testDescriptor, 1000, 100)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), cost)

	statuses, err := s.ListStatus(t.Context())
	require.NoError(t, err)
	require.Len(t, statuses, 1)
}

func TestEstimator_UsesWatermark(t *testing.T) {
	s := setupTestStore(t)
	initKey(t, s, testKey, 800)
	e := NewEstimator(s, s.Keys(), logger.NewNopLogger())

	cost, err := e.Estimate(t.Context(), testKey, testDescriptor, 1000, 100)
	require.NoError(t, err)
	require.Equal(t, uint64(200), cost)

	cost, err = e.Estimate(t.Context(), testKey, testDescriptor, 700, 100)
	require.NoError(t, err)
	require.Zero(t, cost)
}

func TestEstimator_ZeroPageSize(t *testing.T) {
	s := setupTestStore(t)
	e := NewEstimator(s, s.Keys(), logger.NewNopLogger())

	_, err := e.Estimate(t.Context(), testKey, testDescriptor, 1000, 0)
	require.ErrorIs(t, err, cache.ErrZeroPageSize)

	statuses, err := s.ListStatus(t.Context())
	require.NoError(t, err)
	require.Empty(t, statuses, "a rejected estimate must not create a record")
}
