// Package otelhooks records cache events with the OpenTelemetry metric API.
package otelhooks

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/unkn0wn-root/cacheaside"
	"github.com/unkn0wn-root/cacheaside/internal/util"
)

const (
	metricNameLookups     = "cacheaside.tier.lookups"
	metricNameStoreErrors = "cacheaside.store.errors"
	metricNameCorrupt     = "cacheaside.corrupt.entries"
	metricNameLoaderCalls = "cacheaside.loader.calls"
	metricNameNegatives   = "cacheaside.negative.entries"
)

type Hooks struct {
	lookups     metric.Int64Counter
	storeErrors metric.Int64Counter
	corrupt     metric.Int64Counter
	loaderCalls metric.Int64Counter
	negatives   metric.Int64Counter
}

var _ cacheaside.Hooks = (*Hooks)(nil)

// New creates the instruments on mp. A nil provider is an error; use
// cacheaside.NopHooks to disable metrics.
func New(mp metric.MeterProvider) (*Hooks, error) {
	if mp == nil {
		return nil, errors.New("otelhooks: meter provider is required")
	}
	meter := mp.Meter("github.com/unkn0wn-root/cacheaside")

	var (
		h   Hooks
		err error
	)
	if h.lookups, err = meter.Int64Counter(metricNameLookups,
		metric.WithDescription("Keys looked up per cache tier"),
		metric.WithUnit("{key}")); err != nil {
		return nil, err
	}
	if h.storeErrors, err = meter.Int64Counter(metricNameStoreErrors,
		metric.WithDescription("Degraded cache store operations"),
		metric.WithUnit("{operation}")); err != nil {
		return nil, err
	}
	if h.corrupt, err = meter.Int64Counter(metricNameCorrupt,
		metric.WithDescription("Undecodable entries deleted on read"),
		metric.WithUnit("{entry}")); err != nil {
		return nil, err
	}
	if h.loaderCalls, err = meter.Int64Counter(metricNameLoaderCalls,
		metric.WithDescription("Loader invocations after a cache miss"),
		metric.WithUnit("{call}")); err != nil {
		return nil, err
	}
	if h.negatives, err = meter.Int64Counter(metricNameNegatives,
		metric.WithDescription("Negative placeholders written"),
		metric.WithUnit("{entry}")); err != nil {
		return nil, err
	}
	return &h, nil
}

// Hooks have no context; measurements use a background one.
func (h *Hooks) TierLookup(tier string, hits, misses int) {
	ctx := context.Background()
	if hits > 0 {
		h.lookups.Add(ctx, int64(hits), metric.WithAttributes(
			attribute.String("tier", tier), attribute.String("result", "hit")))
	}
	if misses > 0 {
		h.lookups.Add(ctx, int64(misses), metric.WithAttributes(
			attribute.String("tier", tier), attribute.String("result", "miss")))
	}
}

func (h *Hooks) StoreError(tier, op string, _ int, _ error) {
	h.storeErrors.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("tier", tier), attribute.String("op", op)))
}

func (h *Hooks) CorruptEntry(tier, _ string) {
	h.corrupt.Add(context.Background(), 1, metric.WithAttributes(attribute.String("tier", tier)))
}

func (h *Hooks) LoaderCalled(template string, _ int) {
	h.loaderCalls.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("ns", util.Namespace(template))))
}

func (h *Hooks) NegativeStored(template string, count int) {
	h.negatives.Add(context.Background(), int64(count), metric.WithAttributes(
		attribute.String("ns", util.Namespace(template))))
}
