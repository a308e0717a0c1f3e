package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics_WithGlobalProvider(t *testing.T) {
	metrics, err := InitMetrics()
	require.NoError(t, err)
	require.NotNil(t, metrics)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordRequestMetric(ctx, metrics, "POST", "/api/search", 200, 12*time.Millisecond)
		RecordSearchMetric(ctx, metrics, 0, false, 3*time.Millisecond)
		RecordSearchMetric(ctx, metrics, 0, true, 3*time.Millisecond)
		RecordCacheHit(ctx, metrics, "catalog:all")
		RecordCacheMiss(ctx, metrics, "catalog:all")
		RecordDBMetric(ctx, metrics, "select_products", time.Millisecond)
	})
}

func TestRecorders_NilMetricsAreNoops(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordRequestMetric(ctx, nil, "GET", "/health", 200, time.Millisecond)
		RecordSearchMetric(ctx, nil, 1, false, time.Millisecond)
		RecordCacheHit(ctx, nil, "k")
		RecordCacheMiss(ctx, nil, "k")
	})
}

func TestLoggerFromContext_WithoutSpan(t *testing.T) {
	InitLogger("zora-search-test", "test", "debug")
	logger := LoggerFromContext(context.Background())
	require.NotNil(t, logger)
	assert.NotNil(t, GetLogger())
}
