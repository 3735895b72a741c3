// Package lru is a bounded local tier backed by hashicorp's expirable LRU.
package lru

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	pr "github.com/unkn0wn-root/cacheaside/provider"
)

// Provider evicts least-recently-used entries past Size. Every entry expires
// after TTL; the per-call ttl given to Set is ignored, matching the library's
// single-lifetime model.
type Provider struct {
	c *expirable.LRU[string, []byte]
}

var _ pr.Provider = (*Provider)(nil)

type Config struct {
	Size int
	TTL  time.Duration // 0 means entries only leave by eviction
}

func New(cfg Config) (*Provider, error) {
	if cfg.Size <= 0 {
		return nil, errors.New("lru provider: Size must be > 0")
	}
	if cfg.TTL < 0 {
		return nil, errors.New("lru provider: TTL must be >= 0")
	}
	return &Provider{c: expirable.NewLRU[string, []byte](cfg.Size, nil, cfg.TTL)}, nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, ok := p.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	return b, true, nil
}

func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64, _ time.Duration) (bool, error) {
	p.c.Add(key, value)
	return true, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.c.Remove(key)
	return nil
}

func (p *Provider) Len() int { return p.c.Len() }

func (p *Provider) Close(_ context.Context) error {
	p.c.Purge()
	return nil
}
