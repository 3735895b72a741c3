// Package asynchook moves hook delivery off the request path.
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{CorruptEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	c, _ := cacheaside.New(cacheaside.Options{Remote: remote, Hooks: hooks})
//
// Events are dropped, not queued, when the buffer is full.
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/cacheaside"
)

type Hooks struct {
	inner   cacheaside.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	dropped atomic.Uint64
}

var _ cacheaside.Hooks = (*Hooks)(nil)

func New(inner cacheaside.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events sent after Close
// are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded on a full queue.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	defer func() {
		// send on closed queue
		if recover() != nil {
			h.dropped.Add(1)
		}
	}()
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) TierLookup(tier string, hits, misses int) {
	h.try(func() { h.inner.TierLookup(tier, hits, misses) })
}
func (h *Hooks) StoreError(tier, op string, keys int, err error) {
	h.try(func() { h.inner.StoreError(tier, op, keys, err) })
}
func (h *Hooks) CorruptEntry(tier, k string) { h.try(func() { h.inner.CorruptEntry(tier, k) }) }
func (h *Hooks) LoaderCalled(tmpl string, n int) {
	h.try(func() { h.inner.LoaderCalled(tmpl, n) })
}
func (h *Hooks) NegativeStored(tmpl string, n int) {
	h.try(func() { h.inner.NegativeStored(tmpl, n) })
}
