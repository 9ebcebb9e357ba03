package telemetry

import (
	"context"
	"testing"

	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/domain/transfer"
	"github.com/gadgetstock/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestSetup_AllDisabled(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{ServiceName: "test"}, "v0", zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.Tracer.IsEnabled())
	assert.False(t, p.Meter.IsEnabled())
	assert.False(t, p.Logs.IsEnabled())
	assert.False(t, p.Profiler.IsRunning())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProfiler_RequiresAddressWhenEnabled(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "x"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, zap.NewNop())
	assert.Error(t, err)
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestLoggerProvider_DisabledCoreIsNop(t *testing.T) {
	lp := &LoggerProvider{}
	core := lp.ZapCore(zapcore.InfoLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

func TestLevelFilterCore(t *testing.T) {
	inner := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(&discard{}), zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}

	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))
	assert.Nil(t, core.Check(zapcore.Entry{Level: zapcore.InfoLevel}, nil))
	assert.NotNil(t, core.Check(zapcore.Entry{Level: zapcore.WarnLevel}, nil))

	child, ok := core.With([]zapcore.Field{zap.String("k", "v")}).(*levelFilterCore)
	require.True(t, ok)
	assert.Equal(t, zapcore.WarnLevel, child.minLevel)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestBusinessMetrics_CountsEvents(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := NewMeterProviderWithReader(reader)
	m, err := NewBusinessMetrics(mp.Meter(MeterName))
	require.NoError(t, err)

	ctx := context.Background()
	branch := uuid.New()
	unit := &inventory.Unit{BranchID: branch, Serial: "SN-1"}
	unit.ID = uuid.New()
	tr, err := transfer.NewTransfer(unit.ID, branch, uuid.New(), uuid.New(), "restock", "")
	require.NoError(t, err)

	require.NoError(t, m.Handle(ctx, inventory.NewUnitRegisteredEvent(unit)))
	require.NoError(t, m.Handle(ctx, inventory.NewUnitSoldEvent(unit)))
	require.NoError(t, m.Handle(ctx, inventory.NewStockChangedEvent(uuid.New(), branch, 5)))
	require.NoError(t, m.Handle(ctx, inventory.NewStockChangedEvent(uuid.New(), branch, -2)))
	for _, ev := range tr.GetDomainEvents() {
		require.NoError(t, m.Handle(ctx, ev))
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	sums := map[string]int64{}
	for _, md := range rm.ScopeMetrics[0].Metrics {
		data, ok := md.Data.(metricdata.Sum[int64])
		require.True(t, ok, md.Name)
		for _, dp := range data.DataPoints {
			sums[md.Name] += dp.Value
		}
	}
	assert.Equal(t, int64(1), sums["gadgetstock.units.registered"])
	assert.Equal(t, int64(1), sums["gadgetstock.units.sold"])
	assert.Equal(t, int64(3), sums["gadgetstock.stock.movement"])
	assert.Equal(t, int64(1), sums["gadgetstock.transfers"])
	assert.Len(t, m.EventTypes(), 8)
}
