package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mrops-br/product-inventory/internal/infrastructure/config"
	"github.com/stretchr/testify/require"
)

func lastLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestLoggerInjectsTraceContext(t *testing.T) {
	var buf bytes.Buffer
	tel, err := NewNoOpTelemetry(config.Default(), &buf)
	require.NoError(t, err)
	defer func() { require.NoError(t, tel.Shutdown(context.Background())) }()

	ctx, span := tel.TracerProvider.Tracer("test").Start(context.Background(), "op")
	tel.Logger.InfoContext(WithHTTPRoute(ctx, "/"), "hello")
	span.End()

	entry := lastLogLine(t, &buf)
	require.Equal(t, "hello", entry["msg"])
	require.Equal(t, span.SpanContext().TraceID().String(), entry["trace_id"])
	require.Equal(t, span.SpanContext().SpanID().String(), entry["span_id"])
	require.Equal(t, "/", entry["http.route"])
	require.Equal(t, "product-inventory", entry["service.name"])
	require.Equal(t, "development", entry["environment"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.Log.Level = "warn"

	logger := NewLogger(&buf, cfg)
	logger.Info("quiet")
	require.Empty(t, buf.String())

	logger.Warn("loud")
	require.Equal(t, "loud", lastLogLine(t, &buf)["msg"])
}

func TestMetricsReachPrometheusRegistry(t *testing.T) {
	var buf bytes.Buffer
	tel, err := NewNoOpTelemetry(config.Default(), &buf)
	require.NoError(t, err)
	defer func() { require.NoError(t, tel.Shutdown(context.Background())) }()

	counter, err := tel.MeterProvider.Meter("test").Int64Counter("products.created.total")
	require.NoError(t, err)
	counter.Add(context.Background(), 2)

	families, err := tel.Registry.Gather()
	require.NoError(t, err)

	found := false
	for _, mf := range families {
		if strings.Contains(mf.GetName(), "products_created") {
			found = true
			require.Equal(t, 2.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
	require.True(t, found, "products counter not exported")
}

func TestHTTPRouteFromContext(t *testing.T) {
	require.Empty(t, HTTPRouteFromContext(context.Background()))
	require.Equal(t, "/health", HTTPRouteFromContext(WithHTTPRoute(context.Background(), "/health")))
}
