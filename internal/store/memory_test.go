package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_GetSet(t *testing.T) {
	s := NewMemoryStorage()

	_, ok := s.Get("missing")
	assert.False(t, ok)

	require.NoError(t, s.Set("k", "v1"))
	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v1", got)

	require.NoError(t, s.Set("k", "v2"))
	got, _ = s.Get("k")
	assert.Equal(t, "v2", got)
}

func TestMemoryStorage_RemoveBatch(t *testing.T) {
	s := NewMemoryStorage()
	require.NoError(t, s.Set("a", "1"))
	require.NoError(t, s.Set("b", "2"))
	require.NoError(t, s.Set("c", "3"))

	require.NoError(t, s.Remove(context.Background(), "a", "c", "not-there"))

	_, ok := s.Get("a")
	assert.False(t, ok)
	_, ok = s.Get("c")
	assert.False(t, ok)
	_, ok = s.Get("b")
	assert.True(t, ok)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "fetchOffsetabc123", Key(PrefixFetchOffset, "abc123"))
	assert.Len(t, Prefixes, 3)
}
