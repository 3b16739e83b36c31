package observability_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/remint-io/remint/internal/observability"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func metricNames(rm metricdata.ResourceMetrics) []string {
	var names []string

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			names = append(names, m.Name)
		}
	}

	return names
}

func TestNewIngestMetrics_RecordsCounters(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	metrics, err := observability.NewIngestMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.AddLines(ctx, "dump.txt", 4)
	metrics.AddRow(ctx, "FOO")
	metrics.AddDropped(ctx, 1)
	metrics.RecordRun(ctx, "ok", 250*time.Millisecond)

	names := metricNames(collect(t, reader))
	assert.Contains(t, names, "remint.lines.total")
	assert.Contains(t, names, "remint.rows.total")
	assert.Contains(t, names, "remint.rows.dropped.total")
	assert.Contains(t, names, "remint.run.duration.seconds")
}

func TestNewPrometheusMeter_ServesScrapeEndpoint(t *testing.T) {
	t.Parallel()

	handler, meter, err := observability.NewPrometheusMeter()
	require.NoError(t, err)

	metrics, err := observability.NewIngestMetrics(meter)
	require.NoError(t, err)

	metrics.AddRow(context.Background(), "FOO")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "remint_rows_total")
}
