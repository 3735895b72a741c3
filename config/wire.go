package config

import (
	"context"
	"io"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/cacheaside"
	zl "github.com/unkn0wn-root/cacheaside/log/zerolog"
	pr "github.com/unkn0wn-root/cacheaside/provider"
	"github.com/unkn0wn-root/cacheaside/provider/bigcache"
	"github.com/unkn0wn-root/cacheaside/provider/lru"
	"github.com/unkn0wn-root/cacheaside/provider/redis"
	"github.com/unkn0wn-root/cacheaside/provider/ristretto"
)

const (
	defaultLocalSize = 10_000
	defaultMaxCost   = 64 << 20
)

// Logger builds the configured zerolog logger writing to w.
func (c *Config) Logger(w io.Writer) cacheaside.Logger {
	return zl.New(zl.Config{Level: c.Log.Level, Pretty: c.Log.Pretty, Output: w})
}

// RedisClient opens a client for c.Redis. A single address gives a plain
// client, several a cluster client.
func (c *Config) RedisClient() goredis.UniversalClient {
	return goredis.NewUniversalClient(&goredis.UniversalOptions{
		Addrs:        c.Redis.Addrs,
		Password:     c.Redis.Password,
		DB:           c.Redis.DB,
		DialTimeout:  c.Redis.DialTimeout,
		ReadTimeout:  c.Redis.ReadTimeout,
		WriteTimeout: c.Redis.WriteTimeout,
	})
}

// NewLocal builds the configured local tier, or nil when disabled.
func (c *Config) NewLocal(ctx context.Context) (pr.Provider, error) {
	if !c.Local.Enabled {
		return nil, nil
	}
	ttl := c.Local.TTL
	if ttl == 0 {
		ttl = cacheaside.DefaultLocalTTL
	}
	size := c.Local.Size
	if size == 0 {
		size = defaultLocalSize
	}

	switch c.Local.Kind {
	case LocalRistretto:
		maxCost := c.Local.MaxCost
		if maxCost == 0 {
			maxCost = defaultMaxCost
		}
		return ristretto.New(ristretto.Config{NumCounters: int64(size) * 10, MaxCost: maxCost})
	case LocalBigCache:
		return bigcache.New(ctx, bigcache.Config{LifeWindow: ttl, MaxEntriesInWindow: size})
	default:
		return lru.New(lru.Config{Size: size, TTL: ttl})
	}
}

// NewCache wires the remote (and optional local) tier into a Cache. The
// cache owns the redis client and closes it on Close.
func (c *Config) NewCache(ctx context.Context, logger cacheaside.Logger, hooks cacheaside.Hooks) (*cacheaside.Cache, error) {
	remote, err := redis.New(redis.Config{Client: c.RedisClient(), CloseClient: true})
	if err != nil {
		return nil, err
	}
	local, err := c.NewLocal(ctx)
	if err != nil {
		_ = remote.Close(ctx)
		return nil, err
	}

	opts := cacheaside.Options{
		Remote:   remote,
		LocalTTL: c.Local.TTL,
		Logger:   cacheaside.With(logger, cacheaside.Fields{"redis": strings.Join(c.Redis.Addrs, ",")}),
		Hooks:    hooks,
		Disabled: c.Disabled,
		Coalesce: c.Coalesce,
	}
	if local != nil {
		opts.Local = local
	}
	return cacheaside.New(opts)
}
