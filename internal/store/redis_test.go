package store_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielFillol/linkedin-people-scraper/internal/store"
)

func newRedisStore(t *testing.T) (*store.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := store.NewRedisStore(context.Background(), "redis://"+mr.Addr(), "Data Scientist")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStoreSaveThenIsScraped(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	ok, err := s.IsScraped(ctx, "ana")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, record("https://www.linkedin.com/in/ana/", "Ana"), "ana"))

	ok, err = s.IsScraped(ctx, "ana")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("linkedin:Data Scientist:profile:ana"))
}

func TestRedisStoreLoad(t *testing.T) {
	ctx := context.Background()
	s, _ := newRedisStore(t)

	require.NoError(t, s.Save(ctx, record("https://www.linkedin.com/in/z/", "Z"), "z"))
	require.NoError(t, s.Save(ctx, record("https://www.linkedin.com/in/m/", "M"), "m"))

	ids, err := s.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"m", "z"}, ids)

	recs, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "M", recs[0].Name)
	assert.Equal(t, "Z", recs[1].Name)
}

func TestRedisStoreLock(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	unlock, err := s.Lock(ctx)
	require.NoError(t, err)

	other, err := store.NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "Data Scientist")
	require.NoError(t, err)
	defer other.Close()

	_, err = other.Lock(ctx)
	assert.ErrorIs(t, err, store.ErrLocked)

	require.NoError(t, unlock())
	assert.False(t, mr.Exists("linkedin:Data Scientist:lock"))
}

func TestNewRedisStoreBadURL(t *testing.T) {
	_, err := store.NewRedisStore(context.Background(), "not a url", "kw")
	assert.Error(t, err)
}
