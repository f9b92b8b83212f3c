package metrics

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/goran-ethernal/EventCache/internal/logger"
	"github.com/goran-ethernal/EventCache/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestServer_Disabled(t *testing.T) {
	s := NewServer(&config.MetricsConfig{Enabled: false}, logger.NewNopLogger())
	require.NoError(t, s.Start(context.Background()))
	require.Nil(t, s.Addr())
	require.NoError(t, s.Stop(context.Background()))
}

func TestServer_ServesMetrics(t *testing.T) {
	s := NewServer(&config.MetricsConfig{
		Enabled:       true,
		ListenAddress: "127.0.0.1:0",
		Path:          "/metrics",
	}, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	defer func() { require.NoError(t, s.Stop(context.Background())) }()

	QueryServedInc("cache", OutcomeOK)

	base := "http://" + s.Addr().String()

	resp, err := http.Get(base + "/health") //nolint:noctx
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/metrics") //nolint:noctx
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `eventcache_queries_total{engine="cache",outcome="ok"}`)
	require.Contains(t, string(body), "eventcache_uptime_seconds")
}
