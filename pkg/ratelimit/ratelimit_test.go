package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/planejaedu/identity/pkg/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) (cache.ICache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisCache(client), mr
}

func TestRedisLimiter_FixedWindow(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	now := time.Unix(1_700_000_000, 0)
	l := NewRedisLimiter(c, 3, time.Minute, nil)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "ip:10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "ip:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	// other identities have their own budget
	ok, err = l.Allow(ctx, "sub:acc-1")
	require.NoError(t, err)
	assert.True(t, ok)

	// counters expire with the window
	for _, k := range mr.Keys() {
		assert.Equal(t, time.Minute, mr.TTL(k))
	}

	now = now.Add(time.Minute)
	ok, err = l.Allow(ctx, "ip:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_StoreDown(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	_, err := NewRedisLimiter(c, 1, time.Minute, nil).Allow(context.Background(), "x")
	assert.Error(t, err)
}

func TestLocalLimiter_Burst(t *testing.T) {
	l := NewLocalLimiter(2, time.Hour)
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "a")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "b")
	assert.True(t, ok)
}

func TestNew(t *testing.T) {
	c, _ := newCache(t)

	l, err := New(Conf{Mode: ModeRedis}, c, nil)
	require.NoError(t, err)
	assert.IsType(t, &RedisLimiter{}, l)

	l, err = New(Conf{Mode: ModeLocal}, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &LocalLimiter{}, l)

	_, err = New(Conf{Mode: ModeRedis}, nil, nil)
	assert.Error(t, err)

	_, err = New(Conf{Mode: "memcached"}, nil, nil)
	assert.Error(t, err)
}
