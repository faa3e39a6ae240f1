package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	value := []byte(`[1]`)
	require.NoError(t, s.Set(ctx, "a", value))
	value[1] = '9'

	got, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[1]", string(got), "stored bytes must not alias the caller's slice")

	got[1] = '5'
	again, _, _ := s.Get(ctx, "a")
	assert.Equal(t, "[1]", string(again))

	assert.Equal(t, []string{"a"}, s.Keys())

	require.NoError(t, s.Remove(ctx, "a"))
	_, ok, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}
