package cacheaside

import (
	"context"
	"time"

	pr "github.com/unkn0wn-root/cacheaside/provider"
)

// Loader signatures accepted by the Wrap* constructors. A wrapped function has
// the same signature as the loader it wraps.
type (
	// OneFunc loads one value. found=false means the source has no data.
	OneFunc[A, V any] func(ctx context.Context, arg A) (v V, found bool, err error)
	// ListFunc loads the list of values for one key. Empty means no data.
	ListFunc[A, V any] func(ctx context.Context, arg A) ([]V, error)
	// MapFunc loads whichever ids it can; missing ids are absent from the map.
	MapFunc[K comparable, V any] func(ctx context.Context, ids []K) (map[K]V, error)
	// MapListFunc is MapFunc with a list of values per id.
	MapListFunc[K comparable, V any] func(ctx context.Context, ids []K) (map[K][]V, error)
	// MapWithFunc is MapFunc with a secondary argument that also suffixes the key.
	MapWithFunc[K comparable, S, V any] func(ctx context.Context, ids []K, extra S) (map[K]V, error)
	// MapListWithFunc is MapListFunc with a secondary argument.
	MapListWithFunc[K comparable, S, V any] func(ctx context.Context, ids []K, extra S) (map[K][]V, error)
)

// Emptier lets a value type supply the value returned (and cached) when the
// loader finds nothing. EmptyValue is called on the zero value of V.
type Emptier[V any] interface {
	EmptyValue() V
}

// Options configure a Cache. Only Remote is required.
type Options struct {
	Remote   pr.Provider   // required
	Local    pr.Provider   // optional in-process tier
	LocalTTL time.Duration // freshness window of local entries; 0 => 3s
	Logger   Logger        // if nil, NopLogger is used
	Hooks    Hooks         // if nil, NopHooks is used
	Disabled bool          // default false; when true every wrapped call goes straight to the loader
	Coalesce bool          // share one loader call among concurrent misses of the same key
}

func New(opts Options) (*Cache, error) {
	return newCache(opts)
}
