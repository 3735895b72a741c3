package promhooks

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg)

	h.TierLookup("remote", 2, 1)
	h.TierLookup("remote", 0, 3)
	h.StoreError("remote", "set", 4, errors.New("x"))
	h.CorruptEntry("local", "user:1")
	h.LoaderCalled("user:%d:en", 3)
	h.LoaderCalled("user:%d", 1)
	h.NegativeStored("user:%d", 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(h.Lookups.WithLabelValues("remote", "hit")))
	assert.Equal(t, 4.0, testutil.ToFloat64(h.Lookups.WithLabelValues("remote", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.StoreErrors.WithLabelValues("remote", "set")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.Corrupt.WithLabelValues("local")))
	assert.Equal(t, 2.0, testutil.ToFloat64(h.LoaderCalls.WithLabelValues("user")))
	assert.Equal(t, 4.0, testutil.ToFloat64(h.LoaderIDs.WithLabelValues("user")))
	assert.Equal(t, 2.0, testutil.ToFloat64(h.Negatives.WithLabelValues("user")))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
