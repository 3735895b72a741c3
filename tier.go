package cacheaside

import (
	"context"
	"errors"
	"time"

	"github.com/unkn0wn-root/cacheaside/internal/wire"
	pr "github.com/unkn0wn-root/cacheaside/provider"
)

const (
	tierLocal  = "local"
	tierRemote = "remote"
)

// tier is the ordered pair [local (optional), remote]. Local is read-through
// over remote and only ever filled from remote hits. Reads never fail: store
// errors degrade to OutcomeFailed. Writes are best-effort and go to remote.
type tier struct {
	local    pr.Provider
	remote   pr.Provider
	localTTL time.Duration
	log      Logger
	hooks    Hooks
}

// found is a decoded entry plus the frame it came from (for local fills).
type found struct {
	lookup Lookup
	raw    []byte
}

func (t *tier) useLocal(want bool) bool { return want && t.local != nil }

func (t *tier) getOne(ctx context.Context, key string, local bool) Lookup {
	if t.useLocal(local) {
		f, ok := t.read(ctx, tierLocal, t.local, key)
		if ok {
			t.hooks.TierLookup(tierLocal, 1, 0)
			return f.lookup
		}
		t.hooks.TierLookup(tierLocal, 0, 1)
	}

	f, ok := t.read(ctx, tierRemote, t.remote, key)
	if !ok {
		t.hooks.TierLookup(tierRemote, 0, 1)
		return f.lookup
	}
	t.hooks.TierLookup(tierRemote, 1, 0)
	if t.useLocal(local) {
		t.fill(ctx, map[string][]byte{key: f.raw})
	}
	return f.lookup
}

// getMany returns only keys that were found (real or negative). Anything
// absent from the result is a miss, including keys whose read failed.
func (t *tier) getMany(ctx context.Context, keys []string, local bool) map[string]Lookup {
	out := make(map[string]Lookup, len(keys))
	if len(keys) == 0 {
		return out
	}

	rest := keys
	if t.useLocal(local) {
		hits := t.readMany(ctx, tierLocal, t.local, keys)
		rest = make([]string, 0, len(keys)-len(hits))
		for _, k := range keys {
			if f, ok := hits[k]; ok {
				out[k] = f.lookup
			} else {
				rest = append(rest, k)
			}
		}
		t.hooks.TierLookup(tierLocal, len(hits), len(rest))
		if len(rest) == 0 {
			return out
		}
	}

	hits := t.readMany(ctx, tierRemote, t.remote, rest)
	t.hooks.TierLookup(tierRemote, len(hits), len(rest)-len(hits))
	if len(hits) == 0 {
		return out
	}
	var fill map[string][]byte
	if t.useLocal(local) {
		fill = make(map[string][]byte, len(hits))
	}
	for k, f := range hits {
		out[k] = f.lookup
		if fill != nil {
			fill[k] = f.raw
		}
	}
	if len(fill) > 0 {
		t.fill(ctx, fill)
	}
	return out
}

// putOne writes a frame to remote. ttl <= 0 is a no-op, never a delete.
func (t *tier) putOne(ctx context.Context, key string, frame []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ok, err := t.remote.Set(ctx, key, frame, int64(len(frame)), ttl)
	if err != nil {
		t.storeErr(tierRemote, "set", 1, err)
		return
	}
	if !ok {
		t.log.Debug("cacheaside: remote rejected write", Fields{"key": key})
	}
}

// putMany writes all items to remote with one TTL, pipelined when the
// provider supports it.
func (t *tier) putMany(ctx context.Context, items map[string][]byte, ttl time.Duration) {
	if ttl <= 0 || len(items) == 0 {
		return
	}
	if b, ok := t.remote.(pr.Batch); ok {
		if err := b.SetMany(ctx, items, ttl); err != nil {
			t.storeErr(tierRemote, "set", len(items), err)
		}
		return
	}
	var errs []error
	for k, v := range items {
		if _, err := t.remote.Set(ctx, k, v, int64(len(v)), ttl); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		t.storeErr(tierRemote, "set", len(errs), errors.Join(errs...))
	}
}

// invalidate drops key from the local tier only; remote entries expire by TTL.
func (t *tier) invalidate(ctx context.Context, key string) error {
	if t.local == nil {
		return nil
	}
	if err := t.local.Del(ctx, key); err != nil {
		return &StoreError{Tier: tierLocal, Op: "del", Keys: 1, Err: err}
	}
	return nil
}

// discard deletes an entry whose payload the value codec rejected. Local
// copies are filled from remote, so both tiers are cleared whichever one
// served l.
func (t *tier) discard(ctx context.Context, key string, l Lookup, local bool) {
	from := coalesce(l.from, tierRemote)
	t.hooks.CorruptEntry(from, key)
	t.log.Warn("cacheaside: dropping undecodable value", Fields{"tier": from, "key": key})
	if t.useLocal(local) {
		_ = t.local.Del(ctx, key)
	}
	if err := t.remote.Del(ctx, key); err != nil {
		t.storeErr(tierRemote, "del", 1, err)
	}
}

// peek reads key from remote as-is: no local fill, no self-heal, no hooks.
func (t *tier) peek(ctx context.Context, key string) Lookup {
	raw, ok, err := t.remote.Get(ctx, key)
	if err != nil {
		return Lookup{Outcome: OutcomeFailed, Err: &StoreError{Tier: tierRemote, Op: "get", Keys: 1, Err: err}}
	}
	if !ok {
		return Lookup{}
	}
	kind, payload, err := wire.Decode(raw)
	if err != nil {
		return Lookup{Outcome: OutcomeForeign, Payload: raw, Err: err, from: tierRemote}
	}
	return lookupOf(kind, payload, tierRemote)
}

func (t *tier) read(ctx context.Context, name string, p pr.Provider, key string) (found, bool) {
	raw, ok, err := p.Get(ctx, key)
	if err != nil {
		se := t.storeErr(name, "get", 1, err)
		return found{lookup: Lookup{Outcome: OutcomeFailed, Err: se}}, false
	}
	if !ok {
		return found{}, false
	}
	return t.decode(ctx, name, p, key, raw)
}

func (t *tier) readMany(ctx context.Context, name string, p pr.Provider, keys []string) map[string]found {
	var raws map[string][]byte
	if b, ok := p.(pr.Batch); ok {
		var err error
		raws, err = b.GetMany(ctx, keys)
		if err != nil {
			t.storeErr(name, "get", len(keys)-len(raws), err)
		}
	} else {
		raws = make(map[string][]byte, len(keys))
		var errs []error
		for _, k := range keys {
			raw, ok, err := p.Get(ctx, k)
			switch {
			case err != nil:
				errs = append(errs, err)
			case ok:
				raws[k] = raw
			}
		}
		if len(errs) > 0 {
			t.storeErr(name, "get", len(errs), errors.Join(errs...))
		}
	}

	out := make(map[string]found, len(raws))
	for k, raw := range raws {
		if f, ok := t.decode(ctx, name, p, k, raw); ok {
			out[k] = f
		}
	}
	return out
}

func (t *tier) decode(ctx context.Context, name string, p pr.Provider, key string, raw []byte) (found, bool) {
	kind, payload, err := wire.Decode(raw)
	if err != nil {
		// self-heal
		_ = p.Del(ctx, key)
		t.hooks.CorruptEntry(name, key)
		t.log.Warn("cacheaside: dropped corrupt entry", Fields{"tier": name, "key": key})
		return found{}, false
	}
	return found{lookup: lookupOf(kind, payload, name), raw: raw}, true
}

func (t *tier) fill(ctx context.Context, items map[string][]byte) {
	for k, v := range items {
		ok, err := t.local.Set(ctx, k, v, int64(len(v)), t.localTTL)
		if err != nil {
			t.storeErr(tierLocal, "set", 1, err)
			continue
		}
		if !ok {
			t.log.Debug("cacheaside: local rejected write", Fields{"key": k})
		}
	}
}

func (t *tier) storeErr(name, op string, keys int, err error) *StoreError {
	se := &StoreError{Tier: name, Op: op, Keys: keys, Err: err}
	t.hooks.StoreError(name, op, keys, err)
	t.log.Warn("cacheaside: store degraded", Fields{"tier": name, "op": op, "keys": keys, "err": err})
	return se
}

func (t *tier) close(ctx context.Context) error {
	var errs []error
	if t.local != nil {
		errs = append(errs, t.local.Close(ctx))
	}
	errs = append(errs, t.remote.Close(ctx))
	return errors.Join(errs...)
}
