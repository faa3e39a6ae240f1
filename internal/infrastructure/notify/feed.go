package notify

import (
	"context"
	"sync"

	"github.com/erp/pos/internal/domain/shared"
)

const subscriberBuffer = 16

// Feed keeps the most recent notifications and pushes new ones to live
// subscribers (the SSE stream). Slow subscribers miss notifications rather
// than block the sender.
type Feed struct {
	mu     sync.RWMutex
	ring   []shared.Notification
	next   int
	filled bool
	subs   map[chan shared.Notification]struct{}
}

// NewFeed creates a feed remembering up to size notifications
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = 50
	}
	return &Feed{
		ring: make([]shared.Notification, size),
		subs: make(map[chan shared.Notification]struct{}),
	}
}

// Notify implements shared.Notifier
func (f *Feed) Notify(_ context.Context, n shared.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ring[f.next] = n
	f.next = (f.next + 1) % len(f.ring)
	if f.next == 0 {
		f.filled = true
	}

	for ch := range f.subs {
		select {
		case ch <- n:
		default:
		}
	}
}

// Recent returns up to limit notifications, newest first. limit <= 0 returns all.
func (f *Feed) Recent(limit int) []shared.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	count := f.next
	if f.filled {
		count = len(f.ring)
	}
	if limit <= 0 || limit > count {
		limit = count
	}

	out := make([]shared.Notification, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (f.next - i + len(f.ring)) % len(f.ring)
		out = append(out, f.ring[idx])
	}
	return out
}

// Subscribe returns a channel receiving every notification from now on and a
// function that ends the subscription and closes the channel.
func (f *Feed) Subscribe() (<-chan shared.Notification, func()) {
	ch := make(chan shared.Notification, subscriberBuffer)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, ch)
			f.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers reports the number of live subscriptions
func (f *Feed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

var _ shared.Notifier = (*Feed)(nil)
