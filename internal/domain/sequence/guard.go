package sequence

import (
	"context"
	"slices"
	"sync"
)

// Guard runs a read-compute-save sequence for a record key.
// Implementations may serialize callers that share a key.
type Guard interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// NoopGuard runs fn directly. Concurrent callers race and the last save wins.
type NoopGuard struct{}

// Do calls fn
func (NoopGuard) Do(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// LocalGuard serializes callers within one process, one mutex per key.
type LocalGuard struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLocalGuard creates a LocalGuard
func NewLocalGuard() *LocalGuard {
	return &LocalGuard{locks: make(map[string]*sync.Mutex)}
}

// Do runs fn while holding the mutex for key
func (g *LocalGuard) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	g.mu.Lock()
	l, ok := g.locks[key]
	if !ok {
		l = &sync.Mutex{}
		g.locks[key] = l
	}
	g.mu.Unlock()

	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// DoAll runs fn while holding every key in keys. Keys are taken in sorted
// order, once each, so callers locking overlapping sets cannot deadlock.
func DoAll(ctx context.Context, g Guard, keys []string, fn func(ctx context.Context) error) error {
	sorted := slices.Compact(slices.Sorted(slices.Values(keys)))
	var run func(ctx context.Context, i int) error
	run = func(ctx context.Context, i int) error {
		if i == len(sorted) {
			return fn(ctx)
		}
		return g.Do(ctx, sorted[i], func(ctx context.Context) error {
			return run(ctx, i+1)
		})
	}
	return run(ctx, 0)
}
