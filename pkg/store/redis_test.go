package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	st := NewRedisClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	t.Cleanup(func() { _ = st.Close() })
	return st, mr
}

func TestRedisAbsentKeyIsFirstRun(t *testing.T) {
	st, _ := newTestRedis(t)
	got, ok, err := st.Get(context.Background(), "tasks")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRedisRoundTrip(t *testing.T) {
	ctx := context.Background()
	st, mr := newTestRedis(t)

	require.NoError(t, st.Set(ctx, "tasks", []byte(`{"version":1}`)))
	require.NoError(t, st.Set(ctx, "tasks", []byte(`{"version":2}`)))

	got, ok, err := st.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"version":2}`, string(got), "last write wins")

	raw, err := mr.Get(DefaultRedisPrefix + "tasks")
	require.NoError(t, err)
	assert.Equal(t, `{"version":2}`, raw)

	assert.ErrorIs(t, st.Set(ctx, "Bad Key", nil), ErrInvalidKey)
}

func TestRedisWatchSeesPublishedWrites(t *testing.T) {
	st, _ := newTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := st.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, st.Set(context.Background(), "clips", []byte(`[]`)))
	select {
	case evt := <-ch:
		assert.Equal(t, "clips", evt.Key)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}

	cancel()
	for range ch {
	}
}
