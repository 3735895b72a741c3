// Package promhooks exports cache events as Prometheus counters.
package promhooks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/unkn0wn-root/cacheaside"
	"github.com/unkn0wn-root/cacheaside/internal/util"
)

type Hooks struct {
	Lookups     *prometheus.CounterVec // tier, result
	StoreErrors *prometheus.CounterVec // tier, op
	Corrupt     *prometheus.CounterVec // tier
	LoaderCalls *prometheus.CounterVec // ns
	LoaderIDs   *prometheus.CounterVec // ns
	Negatives   *prometheus.CounterVec // ns
}

var _ cacheaside.Hooks = (*Hooks)(nil)

// New registers the counters on reg (prometheus.DefaultRegisterer when nil).
// Templates are reduced to their namespace ("user:%d" -> "user") to keep
// label cardinality low.
func New(reg prometheus.Registerer) *Hooks {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Hooks{
		Lookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cacheaside_tier_lookups_total",
				Help: "Keys looked up per cache tier, by result",
			},
			[]string{"tier", "result"}, // "local"|"remote", "hit"|"miss"
		),
		StoreErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cacheaside_store_errors_total",
				Help: "Degraded cache store operations",
			},
			[]string{"tier", "op"}, // "get", "set", "del"
		),
		Corrupt: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cacheaside_corrupt_entries_total",
				Help: "Undecodable entries deleted on read",
			},
			[]string{"tier"},
		),
		LoaderCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cacheaside_loader_calls_total",
				Help: "Loader invocations after a cache miss",
			},
			[]string{"ns"},
		),
		LoaderIDs: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cacheaside_loader_ids_total",
				Help: "Identifiers passed to loaders after a cache miss",
			},
			[]string{"ns"},
		),
		Negatives: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cacheaside_negative_entries_total",
				Help: "Negative placeholders written",
			},
			[]string{"ns"},
		),
	}
}

func (h *Hooks) TierLookup(tier string, hits, misses int) {
	if hits > 0 {
		h.Lookups.WithLabelValues(tier, "hit").Add(float64(hits))
	}
	if misses > 0 {
		h.Lookups.WithLabelValues(tier, "miss").Add(float64(misses))
	}
}

func (h *Hooks) StoreError(tier, op string, _ int, _ error) {
	h.StoreErrors.WithLabelValues(tier, op).Inc()
}

func (h *Hooks) CorruptEntry(tier, _ string) {
	h.Corrupt.WithLabelValues(tier).Inc()
}

func (h *Hooks) LoaderCalled(template string, ids int) {
	ns := util.Namespace(template)
	h.LoaderCalls.WithLabelValues(ns).Inc()
	h.LoaderIDs.WithLabelValues(ns).Add(float64(ids))
}

func (h *Hooks) NegativeStored(template string, count int) {
	h.Negatives.WithLabelValues(util.Namespace(template)).Add(float64(count))
}
