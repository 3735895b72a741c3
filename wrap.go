package cacheaside

import (
	"context"
	"fmt"
	"reflect"

	"github.com/unkn0wn-root/cacheaside/codec"
	"github.com/unkn0wn-root/cacheaside/internal/wire"
)

// WrapOne caches a single-value loader under p. A nil codec means JSON.
//
//	getUser, err := cacheaside.WrapOne(c, cacheaside.Policy{Key: "user:%d", HitTTL: 10 * time.Minute, MissTTL: 10 * time.Second}, nil, repo.FindUser)
//	u, found, err := getUser(ctx, 42)
func WrapOne[A, V any](c *Cache, p Policy, vc codec.Codec[V], fn OneFunc[A, V]) (OneFunc[A, V], error) {
	pol, err := c.prepare("WrapOne", p, Scalar, fn == nil, reflect.TypeFor[A]())
	if err != nil {
		return nil, err
	}
	vc = codec.Or(vc)
	neg := emptyObjectFrame(vc)

	return func(ctx context.Context, arg A) (V, bool, error) {
		var zero V
		r, err := dispatch([]any{arg}, Scalar)
		if err != nil || r == routeSkip {
			return zero, false, err
		}
		if !c.enabled {
			return fn(ctx, arg)
		}
		return resolveOne(ctx, c, pol, pol.tmpl.Render(arg), vc, neg, func(ctx context.Context) (V, bool, error) {
			return fn(ctx, arg)
		})
	}, nil
}

// WrapList caches a list loader under p. An empty result is cached as a
// negative entry for p.MissTTL. A nil codec means JSON.
func WrapList[A, V any](c *Cache, p Policy, vc codec.Codec[[]V], fn ListFunc[A, V]) (ListFunc[A, V], error) {
	pol, err := c.prepare("WrapList", p, List, fn == nil, reflect.TypeFor[A]())
	if err != nil {
		return nil, err
	}
	vc = codec.Or(vc)

	return func(ctx context.Context, arg A) ([]V, error) {
		r, err := dispatch([]any{arg}, List)
		if err != nil || r == routeSkip {
			return nil, err
		}
		if !c.enabled {
			return fn(ctx, arg)
		}
		return resolveList(ctx, c, pol, pol.tmpl.Render(arg), vc, func(ctx context.Context) ([]V, error) {
			return fn(ctx, arg)
		})
	}, nil
}

// WrapMap caches a keyed loader per id. Only ids missing from the cache reach fn.
func WrapMap[K comparable, V any](c *Cache, p Policy, vc codec.Codec[V], fn MapFunc[K, V]) (MapFunc[K, V], error) {
	if fn == nil {
		return nil, fmt.Errorf("cacheaside: loader is required")
	}
	vc = codec.Or(vc)
	b, err := newBatch[K, struct{}, V](c, "WrapMap", p, KeyedScalarMap, false, vc, emptyObjectFrame(vc),
		func(ctx context.Context, ids []K, _ struct{}) (map[K]V, error) { return fn(ctx, ids) })
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, ids []K) (map[K]V, error) {
		return b(ctx, ids, struct{}{})
	}, nil
}

// WrapMapList caches a keyed list loader per id. An empty slice returned for
// a present id is a real value, not a negative entry.
func WrapMapList[K comparable, V any](c *Cache, p Policy, vc codec.Codec[[]V], fn MapListFunc[K, V]) (MapListFunc[K, V], error) {
	if fn == nil {
		return nil, fmt.Errorf("cacheaside: loader is required")
	}
	vc = codec.Or(vc)
	b, err := newBatch[K, struct{}, []V](c, "WrapMapList", p, KeyedListMap, false, vc, wire.EncodeEmptyList(),
		func(ctx context.Context, ids []K, _ struct{}) (map[K][]V, error) { return fn(ctx, ids) })
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, ids []K) (map[K][]V, error) {
		return b(ctx, ids, struct{}{})
	}, nil
}

// WrapMapWith is WrapMap with a secondary argument. The argument is passed to
// fn unchanged and, when its string form is not blank, suffixes the key
// namespace: "user:%d" with extra "en" caches id 7 under "user:7:en".
// S must not be a slice, array or map.
func WrapMapWith[K comparable, S, V any](c *Cache, p Policy, vc codec.Codec[V], fn MapWithFunc[K, S, V]) (MapWithFunc[K, S, V], error) {
	if fn == nil {
		return nil, fmt.Errorf("cacheaside: loader is required")
	}
	vc = codec.Or(vc)
	b, err := newBatch[K, S, V](c, "WrapMapWith", p, KeyedScalarMap, true, vc, emptyObjectFrame(vc), fn)
	if err != nil {
		return nil, err
	}
	return MapWithFunc[K, S, V](b), nil
}

// WrapMapListWith is WrapMapList with a secondary argument, as in WrapMapWith.
func WrapMapListWith[K comparable, S, V any](c *Cache, p Policy, vc codec.Codec[[]V], fn MapListWithFunc[K, S, V]) (MapListWithFunc[K, S, V], error) {
	if fn == nil {
		return nil, fmt.Errorf("cacheaside: loader is required")
	}
	vc = codec.Or(vc)
	b, err := newBatch[K, S, []V](c, "WrapMapListWith", p, KeyedListMap, true, vc, wire.EncodeEmptyList(), fn)
	if err != nil {
		return nil, err
	}
	return MapListWithFunc[K, S, V](b), nil
}

type batchFunc[K comparable, S, E any] func(ctx context.Context, ids []K, extra S) (map[K]E, error)

func newBatch[K comparable, S, E any](c *Cache, op string, p Policy, shape Shape, withExtra bool,
	vc codec.Codec[E], neg []byte, fn func(context.Context, []K, S) (map[K]E, error)) (batchFunc[K, S, E], error) {
	pol, err := c.prepare(op, p, shape, false, reflect.TypeFor[[]K]())
	if err != nil {
		return nil, err
	}
	if withExtra && isCollection(reflect.TypeFor[S]()) {
		return nil, &PreconditionError{Op: op, Err: ErrAmbiguousArg}
	}

	return func(ctx context.Context, ids []K, extra S) (map[K]E, error) {
		args := []any{ids}
		if withExtra {
			args = append(args, extra)
		}
		r, err := dispatch(args, shape)
		if err != nil {
			return nil, err
		}
		if r == routeSkip {
			return map[K]E{}, nil
		}
		if !c.enabled {
			return fn(ctx, ids, extra)
		}
		tmpl := pol.tmpl
		if withExtra {
			tmpl = tmpl.WithSuffix(suffixOf(extra))
		}
		return resolveBatch(ctx, c, pol, tmpl, ids, vc, neg, func(ctx context.Context, miss []K) (map[K]E, error) {
			return fn(ctx, miss, extra)
		})
	}, nil
}

// prepare validates a wrapper once, at construction.
func (c *Cache) prepare(op string, p Policy, shape Shape, nilLoader bool, primary reflect.Type) (policy, error) {
	if c == nil {
		return policy{}, fmt.Errorf("cacheaside: %s: nil cache", op)
	}
	if nilLoader {
		return policy{}, fmt.Errorf("cacheaside: %s: loader is required", op)
	}
	if isSequence(primary) != shape.keyed() {
		return policy{}, &PreconditionError{Op: op, Err: ErrShapeMismatch}
	}
	pol, err := compilePolicy(p, shape)
	if err != nil {
		return policy{}, err
	}
	if pol.local && c.tier.local == nil {
		c.log.Debug("cacheaside: policy asks for a local tier but none is configured", Fields{"template": p.Key})
	}
	return pol, nil
}
