package shared

import (
	"context"

	domain "github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Writes saves several collections as one change. When a save fails, the
// collections already written are put back to the snapshot they were loaded
// with, newest first.
type Writes struct {
	steps []writeStep
}

type writeStep struct {
	key     string
	save    func(ctx context.Context) error
	restore func(ctx context.Context) error
}

// Stage queues a save of after under key. before must be the collection as
// loaded, untouched by the change.
func Stage[T any](w *Writes, store domain.RecordStore[T], key string, before, after []T) {
	w.steps = append(w.steps, writeStep{
		key:     key,
		save:    func(ctx context.Context) error { return store.Save(ctx, key, after) },
		restore: func(ctx context.Context) error { return store.Save(ctx, key, before) },
	})
}

// Commit runs the queued saves in order
func (w *Writes) Commit(ctx context.Context) error {
	for i, step := range w.steps {
		if err := step.save(ctx); err != nil {
			w.rollback(ctx, i)
			return err
		}
	}
	return nil
}

func (w *Writes) rollback(ctx context.Context, failed int) {
	ctx = context.WithoutCancel(ctx)
	for i := failed - 1; i >= 0; i-- {
		step := w.steps[i]
		if err := step.restore(ctx); err != nil {
			logger.FromContext(ctx).Error("failed to restore record store key after a partial save",
				zap.String("key", step.key),
				zap.String("failed_key", w.steps[failed].key),
				zap.Error(err))
		}
	}
}
