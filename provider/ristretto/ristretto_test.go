package ristretto

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewValidates(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	p, err := New(Config{NumCounters: 1000, MaxCost: 1 << 20, Metrics: true})
	require.NoError(t, err)
	ctx := context.Background()
	defer p.Close(ctx)

	ok, err := p.Set(ctx, "user:1", []byte("frame"), 0, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	p.Wait()

	b, ok, err := p.Get(ctx, "user:1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("frame"), b)
	require.NotNil(t, p.Metrics())

	require.NoError(t, p.Del(ctx, "user:1"))
	_, ok, _ = p.Get(ctx, "user:1")
	require.False(t, ok)
}
