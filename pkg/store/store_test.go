package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore("redis://" + mr.Addr())
	require.NoError(t, err, "Failed to connect to miniredis")
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRedisStoreRoundTrip(t *testing.T) {
	s := newTestRedis(t)
	ctx := context.Background()

	key := Key("relationship", "1", "user42")
	require.NoError(t, s.Set(ctx, key, `{"level":3}`, time.Hour))

	val, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"level":3}`, val)

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreMissingKey(t *testing.T) {
	s := newTestRedis(t)
	_, err := s.Get(context.Background(), Key("emotional_state", "99"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreTTL(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v", 10*time.Millisecond))

	val, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	time.Sleep(20 * time.Millisecond)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJSONHelpers(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, SetJSON(ctx, s, "p", payload{Name: "Lena", Count: 7}, 0))

	var got payload
	require.NoError(t, GetJSON(ctx, s, "p", &got))
	assert.Equal(t, payload{Name: "Lena", Count: 7}, got)

	err := GetJSON(ctx, s, "missing", &got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFallbackDegradesOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	primary, err := NewRedisStore("redis://" + mr.Addr())
	require.NoError(t, err)

	fb := NewFallback(primary, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, fb.Set(ctx, "k", "v", 0))
	assert.False(t, fb.Degraded())

	// Kill the backend: subsequent ops switch to in-memory, never error out.
	mr.Close()

	require.NoError(t, fb.Set(ctx, "k2", "v2", 0))
	assert.True(t, fb.Degraded())

	val, err := fb.Get(ctx, "k2")
	require.NoError(t, err)
	assert.Equal(t, "v2", val)

	// Value written before degradation is gone; features degrade to "no memory".
	_, err = fb.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKeyNamespacing(t *testing.T) {
	assert.Equal(t, "casdy:relationship:12:alice", Key("relationship", "12", "alice"))
	assert.Equal(t, "casdy:memory:3", Key("memory", "3"))
}
