package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestProviders_DisabledAreNoop(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	tp, err := NewTracerProvider(ctx, Config{}, logger)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := NewMeterProvider(ctx, Config{}, 0, logger)
	require.NoError(t, err)
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))

	lp, err := NewLoggerProvider(ctx, Config{})
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.Nil(t, NewZapOTELCore(lp, "svc", zapcore.InfoLevel))
	assert.NoError(t, lp.Shutdown(ctx))
}

func TestLedgerMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewLedgerMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.PaymentsRecorded.Inc(ctx, AttrMethod.String("cash"))
	m.SyncRecords.Add(ctx, 3, AttrSource.String("pms"))
	m.CompareMismatches.Inc(ctx, AttrStatus.String("pm_higher"))
	m.AssistantToolRounds.Record(ctx, 2)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	names := map[string]bool{}
	for _, metric := range rm.ScopeMetrics[0].Metrics {
		names[metric.Name] = true
	}
	assert.True(t, names["ledger_payments_recorded_total"])
	assert.True(t, names["ledger_revenue_sync_records_total"])
	assert.True(t, names["ledger_revenue_compare_mismatch_total"])
	assert.True(t, names["ledger_ai_tool_rounds"])
}

func TestRegisterDBPoolMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	err := RegisterDBPoolMetrics(provider.Meter("test"), func() sql.DBStats {
		return sql.DBStats{MaxOpenConnections: 25, InUse: 3, Idle: 2}
	})
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	values := map[string]int64{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		gauge, ok := m.Data.(metricdata.Gauge[int64])
		require.True(t, ok, m.Name)
		for _, dp := range gauge.DataPoints {
			state, _ := dp.Attributes.Value(AttrDBState)
			values[m.Name+"/"+state.AsString()] = dp.Value
		}
	}
	assert.Equal(t, int64(25), values["db_pool_connections_max/"])
	assert.Equal(t, int64(3), values["db_pool_connections/in_use"])
	assert.Equal(t, int64(2), values["db_pool_connections/idle"])
}

func TestNoopLedgerMetrics(t *testing.T) {
	m := NoopLedgerMetrics()
	assert.NotPanics(t, func() { m.PaymentsRecorded.Inc(context.Background()) })
}

func TestStartSpan_RecordError(t *testing.T) {
	_, span := StartSpan(context.Background(), "test.span")
	assert.NotPanics(t, func() {
		RecordError(span, nil)
		RecordError(span, errors.New("boom"))
		span.End()
	})
}

func TestDBTracingPlugin(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	assert.NoError(t, NewDBTracingPlugin(DBTracingConfig{}, zap.NewNop()).RegisterOtelGorm(db))
	assert.NoError(t, NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.NewNop()).RegisterOtelGorm(db))
}
