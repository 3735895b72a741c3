package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/cacheaside"
	"github.com/unkn0wn-root/cacheaside/internal/util"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	LookupEvery  uint64
	CorruptEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

// Hooks logs cache events through slog. Lookups and loader calls go to
// Debug, store degradation and corruption to Warn.
type Hooks struct {
	l    *slog.Logger
	opts Options

	lookupCtr  atomic.Uint64
	corruptCtr atomic.Uint64
}

var _ cacheaside.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	return util.Redact(k)
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) TierLookup(tier string, hits, misses int) {
	if h.l == nil || !sample(h.opts.LookupEvery, &h.lookupCtr) {
		return
	}
	h.l.Debug("cacheaside.tier_lookup",
		"tier", tier,
		"hits", hits,
		"misses", misses)
}

func (h *Hooks) StoreError(tier, op string, keys int, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("cacheaside.store_error",
		"tier", tier,
		"op", op,
		"keys", keys,
		"err", err)
}

func (h *Hooks) CorruptEntry(tier, storageKey string) {
	if h.l == nil || !sample(h.opts.CorruptEvery, &h.corruptCtr) {
		return
	}
	h.l.Warn("cacheaside.corrupt_entry",
		"tier", tier,
		"key", h.redact(storageKey))
}

func (h *Hooks) LoaderCalled(template string, ids int) {
	if h.l == nil {
		return
	}
	h.l.Debug("cacheaside.loader_called",
		"ns", util.Namespace(template),
		"ids", ids)
}

func (h *Hooks) NegativeStored(template string, count int) {
	if h.l == nil {
		return
	}
	h.l.Debug("cacheaside.negative_stored",
		"ns", util.Namespace(template),
		"count", count)
}
