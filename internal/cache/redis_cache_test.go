package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisCache(t *testing.T, withOpTimeout time.Duration) (*RedisCache[string], *miniredis.Miniredis) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	opts := &RedisOptions{
		Addr:            s.Addr(),
		PoolSize:        5,
		MinIdleConns:    1,
		MaxRetries:      1,
		MinRetryBackoff: 1 * time.Millisecond,
		MaxRetryBackoff: 10 * time.Millisecond,
		OpTimeout:       withOpTimeout,
	}
	return NewRedisCache[string](opts), s
}

func TestRedisCacheDefaultOpTimeout(t *testing.T) {
	rc, s := setupRedisCache(t, 0)
	defer func() {
		rc.Close()
		s.Close()
	}()

	assert.Equal(t, 50*time.Millisecond, rc.opTimeout)
	ctx := context.Background()
	assert.NoError(t, rc.Set(ctx, "cc_theme", "light", 0))
	v, err := rc.Get(ctx, "cc_theme")
	assert.NoError(t, err)
	assert.Equal(t, "light", v)
}

func TestRedisCacheBasicAndEdgeCases(t *testing.T) {
	rc, s := setupRedisCache(t, 100*time.Millisecond)
	defer func() {
		rc.Close()
		s.Close()
	}()
	ctx := context.Background()

	assert.NoError(t, rc.Set(ctx, "cc_favorites", `["JP"]`, 0))
	v, err := rc.Get(ctx, "cc_favorites")
	assert.NoError(t, err)
	assert.Equal(t, `["JP"]`, v)

	// values are JSON encoded on the wire
	raw, err := s.Get("cc_favorites")
	assert.NoError(t, err)
	assert.Equal(t, `"[\"JP\"]"`, raw)

	_, err = rc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, rc.Set(ctx, "temp", "x", 50*time.Millisecond))
	s.FastForward(100 * time.Millisecond)
	v, err = rc.Get(ctx, "temp")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Empty(t, v)

	assert.NoError(t, rc.Set(ctx, "cc_theme", "dark", 0))
	assert.NoError(t, rc.Delete(ctx, "cc_favorites", "cc_theme"))
	_, err = rc.Get(ctx, "cc_favorites")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.False(t, s.Exists("cc_theme"))
	assert.NoError(t, rc.Delete(ctx))
}

func TestRedisCacheMGet(t *testing.T) {
	rc, s := setupRedisCache(t, 100*time.Millisecond)
	defer func() {
		rc.Close()
		s.Close()
	}()
	ctx := context.Background()

	assert.NoError(t, rc.Set(ctx, "cc_theme", "dark", 0))
	s.Set("cc_sort", "not-json")

	vals, errs := rc.MGet(ctx, "cc_theme", "cc_sort", "cc_favorites")
	require.Len(t, vals, 3)
	require.Len(t, errs, 3)
	assert.NoError(t, errs[0])
	assert.Equal(t, "dark", vals[0])
	assert.Error(t, errs[1])
	assert.Contains(t, errs[1].Error(), "invalid character")
	assert.ErrorIs(t, errs[2], ErrCacheMiss)
}

func TestRedisCacheClosedClient(t *testing.T) {
	rc, s := setupRedisCache(t, 100*time.Millisecond)
	defer s.Close()
	require.NoError(t, rc.Close())

	_, err := rc.Get(context.Background(), "cc_theme")
	assert.Error(t, err)

	vals, errs := rc.MGet(context.Background(), "x", "y")
	assert.Len(t, vals, 2)
	for _, e := range errs {
		assert.Error(t, e)
	}
}

func TestRedisCacheSet_MarshalError(t *testing.T) {
	s := miniredis.RunT(t)
	rcFunc := NewRedisCache[func()](&RedisOptions{Addr: s.Addr(), OpTimeout: 50 * time.Millisecond})
	defer rcFunc.Close()

	err := rcFunc.Set(context.Background(), "fn", func() {}, 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type: func")
}

func TestRedisCacheOpTimeout(t *testing.T) {
	s := miniredis.RunT(t)
	rc := NewRedisCache[string](&RedisOptions{Addr: s.Addr(), OpTimeout: time.Nanosecond})
	defer rc.Close()

	err := rc.Set(context.Background(), "k", "v", 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
