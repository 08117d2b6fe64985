package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemory(t *testing.T) *Memory {
	t.Helper()

	m := NewMemory()
	t.Cleanup(m.Close)
	return m
}

func TestMemoryPutGetDelete(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Put(ctx, "k", "v", 0))

	value, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)

	require.NoError(t, m.Delete(ctx, "k"))

	_, ok, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is not an error.
	assert.NoError(t, m.Delete(ctx, "k"))
}

func TestMemoryTTLExpiry(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	require.NoError(t, m.Put(ctx, "short", "v", 10*time.Millisecond))
	require.NoError(t, m.Put(ctx, "forever", "v", 0))

	time.Sleep(25 * time.Millisecond)

	_, ok, err := m.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok, "expired entry must be hidden from readers")

	_, ok, err = m.Get(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, ok, "zero TTL must mean no expiry")
}

func TestMemoryPutNX(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	claimed, err := m.PutNX(ctx, "k", "first", 0)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = m.PutNX(ctx, "k", "second", 0)
	require.NoError(t, err)
	assert.False(t, claimed)

	value, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first", value, "losing PutNX must not overwrite")
}

func TestMemoryPutNXReclaimsExpiredKey(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	claimed, err := m.PutNX(ctx, "k", "first", 5*time.Millisecond)
	require.NoError(t, err)
	require.True(t, claimed)

	time.Sleep(15 * time.Millisecond)

	claimed, err = m.PutNX(ctx, "k", "second", 0)
	require.NoError(t, err)
	assert.True(t, claimed, "an expired entry must not block a new claim")
}

func TestMemoryListKeys(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	require.NoError(t, m.Put(ctx, "room:1", "a", 0))
	require.NoError(t, m.Put(ctx, "room:2", "b", 0))
	require.NoError(t, m.Put(ctx, "room-name:x", "1", 0))
	require.NoError(t, m.Put(ctx, "active-user:eve", "c", 0))

	keys, err := m.ListKeys(ctx, "room:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"room:1", "room:2"}, keys)

	keys, err = m.ListKeys(ctx, "marker:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
