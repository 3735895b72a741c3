package cacheaside

import (
	"context"

	"github.com/unkn0wn-root/cacheaside/codec"
	"github.com/unkn0wn-root/cacheaside/internal/wire"
)

// emptyValue is what a not-found scalar resolves to.
func emptyValue[V any]() V {
	var zero V
	if e, ok := any(zero).(Emptier[V]); ok {
		return e.EmptyValue()
	}
	return zero
}

// emptyObjectFrame is the negative placeholder for scalar lookups. It carries
// the encoded empty value when the codec can encode it.
func emptyObjectFrame[V any](vc codec.Codec[V]) []byte {
	payload, err := vc.Encode(emptyValue[V]())
	if err != nil {
		payload = nil
	}
	return wire.EncodeEmptyObject(payload)
}

func emptyFromPayload[V any](vc codec.Codec[V], payload []byte) V {
	if len(payload) > 0 {
		if v, err := vc.Decode(payload); err == nil {
			return v
		}
	}
	return emptyValue[V]()
}

type oneResult[V any] struct {
	v     V
	found bool
}

// resolveOne: LOOKUP -> HIT | NEGATIVE | MISS -> loader -> write-back.
func resolveOne[V any](ctx context.Context, c *Cache, p policy, key string, vc codec.Codec[V], negFrame []byte,
	load func(context.Context) (V, bool, error)) (V, bool, error) {
	l := c.tier.getOne(ctx, key, p.local)
	switch l.Outcome {
	case OutcomeHit:
		v, err := vc.Decode(l.Payload)
		if err == nil {
			return v, true, nil
		}
		c.tier.discard(ctx, key, l, p.local)
	case OutcomeNegative:
		if l.kind == wire.KindEmptyObject {
			return emptyFromPayload(vc, l.Payload), false, nil
		}
		// placeholder of another shape under this key; reload
	}

	res, err := c.share(key, func() (any, error) {
		c.hooks.LoaderCalled(p.tmpl.String(), 1)
		v, found, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if !found {
			v = emptyValue[V]()
			if p.missTTL > 0 {
				c.tier.putOne(ctx, key, negFrame, p.missTTL)
				c.hooks.NegativeStored(p.tmpl.String(), 1)
			}
			return oneResult[V]{v: v}, nil
		}
		if payload, err := vc.Encode(v); err != nil {
			c.log.Warn("cacheaside: value not cached, encode failed", Fields{"key": key, "err": err})
		} else {
			c.tier.putOne(ctx, key, wire.EncodeValue(payload), p.hitTTL)
		}
		return oneResult[V]{v: v, found: true}, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	r := res.(oneResult[V])
	return r.v, r.found, nil
}

// resolveList is resolveOne for list values. Empty lists are negative.
func resolveList[V any](ctx context.Context, c *Cache, p policy, key string, vc codec.Codec[[]V],
	load func(context.Context) ([]V, error)) ([]V, error) {
	l := c.tier.getOne(ctx, key, p.local)
	switch l.Outcome {
	case OutcomeHit:
		vs, err := vc.Decode(l.Payload)
		if err == nil {
			return vs, nil
		}
		c.tier.discard(ctx, key, l, p.local)
	case OutcomeNegative:
		if l.kind == wire.KindEmptyList {
			return []V{}, nil
		}
	}

	res, err := c.share(key, func() (any, error) {
		c.hooks.LoaderCalled(p.tmpl.String(), 1)
		vs, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if len(vs) == 0 {
			if p.missTTL > 0 {
				c.tier.putOne(ctx, key, wire.EncodeEmptyList(), p.missTTL)
				c.hooks.NegativeStored(p.tmpl.String(), 1)
			}
			return []V{}, nil
		}
		if payload, err := vc.Encode(vs); err != nil {
			c.log.Warn("cacheaside: list not cached, encode failed", Fields{"key": key, "err": err})
		} else {
			c.tier.putOne(ctx, key, wire.EncodeValue(payload), p.hitTTL)
		}
		return vs, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]V), nil
}
