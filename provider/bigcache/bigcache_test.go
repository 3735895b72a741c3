package bigcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewValidates(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	p, err := New(ctx, Config{LifeWindow: time.Minute, Shards: 16, MaxEntriesInWindow: 64})
	require.NoError(t, err)
	defer p.Close(ctx)

	_, ok, err := p.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = p.Set(ctx, "k", []byte("v"), 0, time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, p.Len())

	b, ok, err := p.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), b)

	require.NoError(t, p.Del(ctx, "k"))
	require.NoError(t, p.Del(ctx, "k"), "deleting a missing key is not an error")
}
