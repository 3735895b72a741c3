package cacheaside

import (
	"context"

	"github.com/unkn0wn-root/cacheaside/codec"
	"github.com/unkn0wn-root/cacheaside/internal/wire"
)

// cleanIDs drops nil ids and duplicates, keeping first-seen order.
func cleanIDs[K comparable](ids []K) []K {
	seen := make(map[K]struct{}, len(ids))
	out := make([]K, 0, len(ids))
	for _, id := range ids {
		if isNil(any(id)) {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// resolveBatch reconciles cached entries with one loader call for the rest.
// E is the per-id value (V for keyed scalars, []V for keyed lists).
//
// The result holds exactly the ids that were cached or resolved by the
// loader. Ids confirmed absent (negative entries, or unresolved by the
// loader) are left out. On loader error nothing is written.
func resolveBatch[K comparable, E any](ctx context.Context, c *Cache, p policy, tmpl Template, ids []K,
	vc codec.Codec[E], negFrame []byte, load func(context.Context, []K) (map[K]E, error)) (map[K]E, error) {
	clean := cleanIDs(ids)
	out := make(map[K]E, len(clean))
	if len(clean) == 0 {
		return out, nil
	}

	keys := make([]string, len(clean))
	for i, id := range clean {
		keys[i] = tmpl.Render(id)
	}
	cached := c.tier.getMany(ctx, keys, p.local)

	var (
		missIDs  []K
		missKeys []string
	)
	for i, id := range clean {
		l, ok := cached[keys[i]]
		if ok {
			switch l.Outcome {
			case OutcomeNegative:
				if l.kind == p.negKind() {
					continue
				}
				// placeholder of another shape; reload
			case OutcomeHit:
				if v, err := vc.Decode(l.Payload); err == nil {
					out[id] = v
					continue
				}
				c.tier.discard(ctx, keys[i], l, p.local)
			}
		}
		missIDs = append(missIDs, id)
		missKeys = append(missKeys, keys[i])
	}
	if len(missIDs) == 0 {
		return out, nil
	}

	c.hooks.LoaderCalled(tmpl.String(), len(missIDs))
	c.log.Debug("cacheaside: batch miss", Fields{"template": tmpl.String(), "requested": len(clean), "missing": len(missIDs)})
	loaded, err := load(ctx, missIDs)
	if err != nil {
		return nil, err
	}

	hits := make(map[string][]byte, len(loaded))
	var absent map[string][]byte
	for i, id := range missIDs {
		v, ok := loaded[id]
		if !ok {
			if p.missTTL > 0 {
				if absent == nil {
					absent = make(map[string][]byte, len(missIDs)-i)
				}
				absent[missKeys[i]] = negFrame
			}
			continue
		}
		out[id] = v
		payload, err := vc.Encode(v)
		if err != nil {
			c.log.Warn("cacheaside: value not cached, encode failed", Fields{"key": missKeys[i], "err": err})
			continue
		}
		hits[missKeys[i]] = wire.EncodeValue(payload)
	}

	c.tier.putMany(ctx, hits, p.hitTTL)
	if len(absent) > 0 {
		c.tier.putMany(ctx, absent, p.missTTL)
		c.hooks.NegativeStored(tmpl.String(), len(absent))
	}
	return out, nil
}
