// Package notify delivers operator notifications (sale saved, stock too low,
// ...) to the log, to connected browsers and optionally to a webhook.
package notify

import (
	"context"
	"time"

	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// stamp fills in the display duration and creation time when unset
func stamp(n shared.Notification, now time.Time) shared.Notification {
	if n.Duration <= 0 {
		n.Duration = shared.DefaultDuration(n.Kind)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	return n
}

// Multi fans a notification out to several sinks. A panicking sink is logged
// and does not stop the others.
type Multi struct {
	sinks  []shared.Notifier
	logger *zap.Logger
	now    func() time.Time
}

// NewMulti creates a fan-out notifier
func NewMulti(l *zap.Logger, sinks ...shared.Notifier) *Multi {
	if l == nil {
		l = zap.NewNop()
	}
	return &Multi{sinks: sinks, logger: l, now: time.Now}
}

// Notify implements shared.Notifier
func (m *Multi) Notify(ctx context.Context, n shared.Notification) {
	n = stamp(n, m.now())
	for _, sink := range m.sinks {
		m.dispatch(ctx, sink, n)
	}
}

func (m *Multi) dispatch(ctx context.Context, sink shared.Notifier, n shared.Notification) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("notification sink panicked",
				zap.String("kind", string(n.Kind)),
				zap.Any("panic", r),
			)
		}
	}()
	sink.Notify(ctx, n)
}

// LogSink writes notifications to the structured log
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a LogSink
func NewLogSink(l *zap.Logger) *LogSink {
	return &LogSink{logger: l.Named("notify")}
}

// Notify implements shared.Notifier
func (s *LogSink) Notify(ctx context.Context, n shared.Notification) {
	fields := []zap.Field{
		zap.String("kind", string(n.Kind)),
		zap.Int64("duration_ms", n.DurationMs()),
	}
	if id := logger.GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if n.Kind == shared.NotifyError {
		s.logger.Warn(n.Message, fields...)
		return
	}
	s.logger.Info(n.Message, fields...)
}

var (
	_ shared.Notifier = (*Multi)(nil)
	_ shared.Notifier = (*LogSink)(nil)
)
