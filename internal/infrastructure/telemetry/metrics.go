package telemetry

import (
	"context"
	"errors"

	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/domain/shared/valueobject"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when metrics are created without a meter
var ErrMeterNil = errors.New("NewPOSMetrics: meter cannot be nil")

// POSMetrics counts business activity: sales, stock additions, installment
// payments and operator notifications. Money is recorded in minor units
// (paisa/cents) so no float rounding is involved.
type POSMetrics struct {
	salesTotal         metric.Int64Counter
	salesAmount        metric.Int64Counter
	unitsSold          metric.Int64Counter
	stockAdditions     metric.Int64Counter
	unitsReceived      metric.Int64Counter
	purchaseAmount     metric.Int64Counter
	installmentPayment metric.Int64Counter
	notifications      metric.Int64Counter
}

// NewPOSMetrics registers the instruments on meter
func NewPOSMetrics(meter metric.Meter) (*POSMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	m := &POSMetrics{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
		unit string
	}{
		{&m.salesTotal, "pos_sales_total", "Sales recorded", "{sales}"},
		{&m.salesAmount, "pos_sales_amount_minor_total", "Sale totals in minor currency units", "{minor}"},
		{&m.unitsSold, "pos_units_sold_total", "Units sold", "{units}"},
		{&m.stockAdditions, "pos_stock_additions_total", "Stock additions recorded", "{additions}"},
		{&m.unitsReceived, "pos_units_received_total", "Units received into stock", "{units}"},
		{&m.purchaseAmount, "pos_purchase_amount_minor_total", "Purchase values in minor currency units", "{minor}"},
		{&m.installmentPayment, "pos_installment_payments_total", "Installment payments recorded", "{payments}"},
		{&m.notifications, "pos_notifications_total", "Operator notifications raised", "{notifications}"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit))
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}
	return m, nil
}

// RecordSale counts one sale of qty units for total, labelled by payment method
func (m *POSMetrics) RecordSale(ctx context.Context, paymentMethod string, qty int64, total valueobject.Amount) {
	attrs := metric.WithAttributes(attribute.String("payment_method", paymentMethod))
	m.salesTotal.Add(ctx, 1, attrs)
	m.unitsSold.Add(ctx, qty, attrs)
	m.salesAmount.Add(ctx, minorUnits(total), attrs)
}

// RecordStockAddition counts one replenishment
func (m *POSMetrics) RecordStockAddition(ctx context.Context, qty int64, value valueobject.Amount) {
	m.stockAdditions.Add(ctx, 1)
	m.unitsReceived.Add(ctx, qty)
	m.purchaseAmount.Add(ctx, minorUnits(value))
}

// RecordInstallmentPayment counts one installment payment
func (m *POSMetrics) RecordInstallmentPayment(ctx context.Context) {
	m.installmentPayment.Add(ctx, 1)
}

// Notify implements shared.Notifier so the metrics can sit in the
// notification fan-out
func (m *POSMetrics) Notify(ctx context.Context, n shared.Notification) {
	m.notifications.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(n.Kind))))
}

func minorUnits(a valueobject.Amount) int64 {
	return a.Decimal().Shift(2).Round(0).IntPart()
}

var _ shared.Notifier = (*POSMetrics)(nil)
