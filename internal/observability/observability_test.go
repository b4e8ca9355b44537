package observability

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
)

func TestInit_NoEndpointUsesNoopProviders(t *testing.T) {
	t.Parallel()

	providers, err := Init(DefaultConfig())
	require.NoError(t, err)

	require.NotNil(t, providers.Tracer)
	require.NotNil(t, providers.Meter)
	require.NotNil(t, providers.Logger)

	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ParseOTLPHeaders(""))
	assert.Nil(t, ParseOTLPHeaders("garbage"))

	headers := ParseOTLPHeaders("x-api-key=secret, x-team = core ")
	require.Len(t, headers, 2)
	assert.Equal(t, "secret", headers["x-api-key"])
	assert.Equal(t, "core", headers["x-team"])
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	assert.Equal(t, "mcp-jujutsu", cfg.ServiceName)
	assert.Equal(t, ModeCLI, cfg.Mode)
	assert.Empty(t, cfg.OTLPEndpoint)
}

func TestREDMetrics_RecordAndTrack(t *testing.T) {
	t.Parallel()

	meter := noopmetric.NewMeterProvider().Meter("test")

	rm, err := NewREDMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()
	rm.RecordRequest(ctx, "mcp.crossrepo_analyze", "ok", 25*time.Millisecond)
	rm.RecordRequest(ctx, "mcp.crossrepo_analyze", "error", time.Second)

	done := rm.TrackInflight(ctx, "mcp.crossrepo_plan")
	done()
}

func TestDiagnosticsServer_ServesHealthAndMetrics(t *testing.T) {
	t.Parallel()

	server, err := NewDiagnosticsServer("127.0.0.1:0")
	require.NoError(t, err)

	defer func() { require.NoError(t, server.Close()) }()

	for _, endpoint := range []string{"/healthz", "/readyz", "/metrics"} {
		resp, getErr := http.Get("http://" + server.Addr() + endpoint)
		require.NoError(t, getErr)

		assert.Equal(t, http.StatusOK, resp.StatusCode, endpoint)
		require.NoError(t, resp.Body.Close())
	}
}
