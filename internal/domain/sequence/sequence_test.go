package sequence

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextID(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		prefix   string
		pad      int
		want     string
	}{
		{"gaps are not filled", []string{"CASH-0001", "CASH-0003"}, "CASH-", 4, "CASH-0004"},
		{"empty starts at one", nil, "CASH-", 4, "CASH-0001"},
		{"purchase invoices", []string{"Inv-009", "Inv-010"}, "Inv-", 3, "Inv-011"},
		{"products", []string{"P-001"}, "P-", 3, "P-002"},
		{"other prefixes ignored", []string{"Inv-099", "P-004", "CASH-0002"}, "P-", 3, "P-005"},
		{"unparsable suffixes ignored", []string{"P-abc", "P-", "P-12x", "P-007"}, "P-", 3, "P-008"},
		{"no usable ids", []string{"P-abc", "X-001"}, "P-", 3, "P-001"},
		{"width grows past padding", []string{"Inv-999"}, "Inv-", 3, "Inv-1000"},
		{"prefix is case sensitive", []string{"inv-005"}, "Inv-", 3, "Inv-001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextID(tt.existing, tt.prefix, tt.pad))
		})
	}
}

func TestNextID_Monotonic(t *testing.T) {
	const n = 25
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		ids = append(ids, CashInvoice.Format(i))
	}

	r := rand.New(rand.NewSource(7))
	for round := 0; round < 10; round++ {
		r.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		assert.Equal(t, "CASH-0026", NextID(ids, CashInvoice.Prefix, CashInvoice.Pad))
	}
}

func TestFamily_Next(t *testing.T) {
	current := []string{"Inv-001", "Inv-002"}
	history := []string{"Inv-005"}

	assert.Equal(t, "Inv-006", PurchaseInvoice.Next(current, history))
	assert.Equal(t, "Inv-001", PurchaseInvoice.Next())

	highest, found := PurchaseInvoice.Max(append(current, history...))
	assert.True(t, found)
	assert.Equal(t, 5, highest)
}

func TestNoopGuard(t *testing.T) {
	called := false
	err := NoopGuard{}.Do(context.Background(), "k", func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	boom := errors.New("boom")
	err = NoopGuard{}.Do(context.Background(), "k", func(ctx context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestLocalGuard_Serializes(t *testing.T) {
	g := NewLocalGuard()
	var ids []string
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = g.Do(context.Background(), "salesHistory", func(ctx context.Context) error {
				ids = append(ids, CashInvoice.Next(ids))
				return nil
			})
		}()
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, ids, 50)
	assert.Equal(t, "CASH-0051", CashInvoice.Next(ids))
}

func TestLocalGuard_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewLocalGuard().Do(ctx, "k", func(ctx context.Context) error {
		t.Fatal("fn must not run")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

type recordingGuard struct {
	mu    sync.Mutex
	taken []string
}

func (g *recordingGuard) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	g.mu.Lock()
	g.taken = append(g.taken, key)
	g.mu.Unlock()
	return fn(ctx)
}

func TestDoAll_SortedAndDeduplicated(t *testing.T) {
	g := &recordingGuard{}
	calls := 0
	err := DoAll(context.Background(), g, []string{"salesHistory", "products", "salesHistory", "installmentHistory"},
		func(context.Context) error {
			calls++
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"installmentHistory", "products", "salesHistory"}, g.taken)
}

func TestDoAll_OverlappingSetsDoNotDeadlock(t *testing.T) {
	g := NewLocalGuard()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		keys := []string{"products", "purchaseHistory"}
		if i%2 == 1 {
			keys = []string{"salesHistory", "products"}
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = DoAll(context.Background(), g, keys, func(context.Context) error {
				v := counter
				counter = v + 1
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestDoAll_PropagatesError(t *testing.T) {
	want := errors.New("boom")
	err := DoAll(context.Background(), NewLocalGuard(), []string{"a", "b"}, func(context.Context) error { return want })
	assert.ErrorIs(t, err, want)
}
