package cacheaside

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// Cache holds the tiers and ambient collaborators shared by every wrapped
// loader. It is safe for concurrent use.
type Cache struct {
	tier    *tier
	log     Logger
	hooks   Hooks
	enabled bool
	group   *singleflight.Group // nil unless Options.Coalesce
}

func newCache(opts Options) (*Cache, error) {
	if opts.Remote == nil {
		return nil, fmt.Errorf("cacheaside: remote provider is required")
	}
	if opts.LocalTTL < 0 {
		return nil, fmt.Errorf("cacheaside: local ttl must be >= 0")
	}

	c := &Cache{enabled: !opts.Disabled}

	// defaults
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	if opts.Coalesce {
		c.group = &singleflight.Group{}
	}

	c.tier = &tier{
		local:    opts.Local,
		remote:   opts.Remote,
		localTTL: coalesce(opts.LocalTTL, DefaultLocalTTL),
		log:      c.log,
		hooks:    c.hooks,
	}
	return c, nil
}

// Enabled reports whether wrapped calls consult the cache. It is false when
// the cache was built with Options.Disabled.
func (c *Cache) Enabled() bool { return c.enabled }

// Invalidate removes a rendered key from the local tier. Remote entries are
// left to expire.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.tier.invalidate(ctx, key)
}

// Peek reads a rendered key from the remote tier without touching the local
// tier or any loader. It never writes: bytes that are not a cacheaside entry
// come back as OutcomeForeign and stay in the store.
func (c *Cache) Peek(ctx context.Context, key string) Lookup {
	return c.tier.peek(ctx, key)
}

// Close closes the local tier (if any) and then the remote tier.
func (c *Cache) Close(ctx context.Context) error {
	return c.tier.close(ctx)
}

// share runs fn once per key among concurrent callers when coalescing is on.
// Callers share the first caller's context and result.
func (c *Cache) share(key string, fn func() (any, error)) (any, error) {
	if c.group == nil {
		return fn()
	}
	v, err, _ := c.group.Do(key, fn)
	return v, err
}
