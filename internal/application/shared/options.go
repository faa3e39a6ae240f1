package shared

import (
	"context"
	"time"

	"github.com/erp/pos/internal/domain/sequence"
	"github.com/erp/pos/internal/domain/shared/valueobject"
)

// Metrics receives business counters. telemetry.POSMetrics implements it.
type Metrics interface {
	RecordSale(ctx context.Context, paymentMethod string, qty int64, total valueobject.Amount)
	RecordStockAddition(ctx context.Context, qty int64, value valueobject.Amount)
	RecordInstallmentPayment(ctx context.Context)
}

// NopMetrics discards every measurement
type NopMetrics struct{}

func (NopMetrics) RecordSale(context.Context, string, int64, valueobject.Amount) {}
func (NopMetrics) RecordStockAddition(context.Context, int64, valueobject.Amount) {}
func (NopMetrics) RecordInstallmentPayment(context.Context)                        {}

// Options are the optional collaborators of a page service
type Options struct {
	Guard   sequence.Guard
	Metrics Metrics
	Now     func() time.Time
}

// Option configures Options
type Option func(*Options)

// WithGuard serializes identifier allocation through g
func WithGuard(g sequence.Guard) Option {
	return func(o *Options) {
		if g != nil {
			o.Guard = g
		}
	}
}

// WithMetrics records business counters in m
func WithMetrics(m Metrics) Option {
	return func(o *Options) {
		if m != nil {
			o.Metrics = m
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		if now != nil {
			o.Now = now
		}
	}
}

// BuildOptions applies opts over the defaults
func BuildOptions(opts ...Option) Options {
	o := Options{
		Guard:   sequence.NoopGuard{},
		Metrics: NopMetrics{},
		Now:     time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
