package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/erp/pos/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pos.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, shared.KeyProducts)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, shared.KeyProducts, []byte(`[{"productId":"P-001"}]`)))
	require.NoError(t, s.Set(ctx, shared.KeyProducts, []byte(`[{"productId":"P-002"}]`)))
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Close())

	// reopen: data survives
	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	raw, ok, err := s.Get(ctx, shared.KeyProducts)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"productId":"P-002"}]`, string(raw))

	require.NoError(t, s.Remove(ctx, shared.KeyProducts))
	_, ok, err = s.Get(ctx, shared.KeyProducts)
	require.NoError(t, err)
	assert.False(t, ok)
}
