package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	p, err := New(Config{Client: rdb, CloseClient: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	return p, mr
}

func TestNewRequiresClient(t *testing.T) {
	_, err := New(Config{})
	require.ErrorIs(t, err, ErrNilClient)
}

func TestGetSetDel(t *testing.T) {
	p, mr := newTestRedis(t)
	ctx := context.Background()

	_, ok, err := p.Get(ctx, "user:1")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = p.Set(ctx, "user:1", []byte("v"), 0, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, time.Minute, mr.TTL("user:1"))

	b, ok, err := p.Get(ctx, "user:1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), b)

	require.NoError(t, p.Del(ctx, "user:1"))
	require.False(t, mr.Exists("user:1"))
}

func TestTTLExpires(t *testing.T) {
	p, mr := newTestRedis(t)
	ctx := context.Background()

	_, err := p.Set(ctx, "k", []byte("v"), 0, 10*time.Second)
	require.NoError(t, err)
	mr.FastForward(11 * time.Second)

	_, ok, err := p.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGetManyOmitsMisses(t *testing.T) {
	p, mr := newTestRedis(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("user:1", "a"))
	require.NoError(t, mr.Set("user:3", "c"))

	got, err := p.GetMany(ctx, []string{"user:1", "user:2", "user:3"})
	require.NoError(t, err)
	require.Equal(t, map[string][]byte{
		"user:1": []byte("a"),
		"user:3": []byte("c"),
	}, got)

	got, err = p.GetMany(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSetManyAppliesTTL(t *testing.T) {
	p, mr := newTestRedis(t)
	ctx := context.Background()

	err := p.SetMany(ctx, map[string][]byte{
		"user:1": []byte("a"),
		"user:2": []byte("b"),
	}, 600*time.Second)
	require.NoError(t, err)

	for _, k := range []string{"user:1", "user:2"} {
		require.True(t, mr.Exists(k), k)
		require.Equal(t, 600*time.Second, mr.TTL(k), k)
	}
}

func TestServerErrorsSurface(t *testing.T) {
	p, mr := newTestRedis(t)
	ctx := context.Background()
	mr.SetError("LOADING")

	_, _, err := p.Get(ctx, "k")
	require.Error(t, err)

	_, err = p.GetMany(ctx, []string{"a", "b"})
	require.Error(t, err)

	require.Error(t, p.SetMany(ctx, map[string][]byte{"a": nil}, time.Second))
}

func TestCloseOnlyOwnedClient(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	p, err := New(Config{Client: rdb})
	require.NoError(t, err)
	require.NoError(t, p.Close(context.Background()))
	require.NoError(t, rdb.Ping(context.Background()).Err())
}
