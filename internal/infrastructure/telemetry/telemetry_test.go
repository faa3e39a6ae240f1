package telemetry

import (
	"context"
	"testing"

	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/domain/shared/valueobject"
	"github.com/erp/pos/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.Nil(t, p.ZapCore())
	assert.NotNil(t, p.Meter())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), Sampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), Sampler(0).Description())
	assert.Contains(t, Sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestNewPOSMetrics_NilMeter(t *testing.T) {
	m, err := NewPOSMetrics(nil)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, m.Name)
			for _, dp := range sum.DataPoints {
				totals[m.Name] += dp.Value
			}
		}
	}
	return totals
}

func TestPOSMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewPOSMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordSale(ctx, "cash", 2, valueobject.MustAmount("114000.50"))
	m.RecordSale(ctx, "installment", 1, valueobject.MustAmount("0.01"))
	m.RecordStockAddition(ctx, 1500, valueobject.MustAmount("6375750"))
	m.RecordInstallmentPayment(ctx)
	m.Notify(ctx, shared.Notification{Kind: shared.NotifyError})

	totals := collect(t, reader)
	assert.Equal(t, int64(2), totals["pos_sales_total"])
	assert.Equal(t, int64(3), totals["pos_units_sold_total"])
	assert.Equal(t, int64(11400051), totals["pos_sales_amount_minor_total"])
	assert.Equal(t, int64(1500), totals["pos_units_received_total"])
	assert.Equal(t, int64(637575000), totals["pos_purchase_amount_minor_total"])
	assert.Equal(t, int64(1), totals["pos_installment_payments_total"])
	assert.Equal(t, int64(1), totals["pos_notifications_total"])
}
