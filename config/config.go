// Package config loads cache wiring and per call-site policies from YAML or
// JSON.
//
//	redis:
//	  addrs: ["127.0.0.1:6379"]
//	local:
//	  enabled: true
//	  kind: lru
//	  size: 10000
//	log:
//	  level: info
//	policies:
//	  user:
//	    key: "user:%d"
//	    hit_ttl: 10m
//	    miss_ttl: 10s
//	    local: true
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/unkn0wn-root/cacheaside"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var (
	ErrUnsupportedFormat = errors.New("config: unsupported format")
	ErrParseFailed       = errors.New("config: parse failed")
	ErrInvalid           = errors.New("config: invalid")
	ErrUnknownPolicy     = errors.New("config: unknown policy")
)

// Local tier kinds.
const (
	LocalLRU       = "lru"
	LocalRistretto = "ristretto"
	LocalBigCache  = "bigcache"
)

type Config struct {
	Redis    Redis                   `koanf:"redis"`
	Local    Local                   `koanf:"local"`
	Log      Log                     `koanf:"log"`
	Coalesce bool                    `koanf:"coalesce"`
	Disabled bool                    `koanf:"disabled"`
	Policies map[string]PolicyConfig `koanf:"policies"`
}

type Redis struct {
	Addrs        []string      `koanf:"addrs"` // more than one => cluster
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

type Local struct {
	Enabled bool          `koanf:"enabled"`
	Kind    string        `koanf:"kind"`     // lru (default), ristretto, bigcache
	Size    int           `koanf:"size"`     // max entries (lru) or ~entries (ristretto counters / 10)
	MaxCost int64         `koanf:"max_cost"` // bytes, ristretto only; 0 => 64MiB
	TTL     time.Duration `koanf:"ttl"`      // freshness window; 0 => 3s
}

type Log struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

type PolicyConfig struct {
	Key     string        `koanf:"key"`
	HitTTL  time.Duration `koanf:"hit_ttl"`
	MissTTL time.Duration `koanf:"miss_ttl"`
	Local   bool          `koanf:"local"`
}

// Load reads path; the format follows the extension (.yaml, .yml, .json).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, formatOf(path))
}

// Parse decodes and validates data.
func Parse(data []byte, format Format) (*Config, error) {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return Format(strings.TrimPrefix(filepath.Ext(path), "."))
	}
}

// Validate checks everything that would otherwise fail at wrap time.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Redis.Addrs) == 0 {
		errs = append(errs, fmt.Errorf("%w: redis.addrs is empty", ErrInvalid))
	}
	if c.Local.Enabled {
		switch c.Local.Kind {
		case "", LocalLRU, LocalRistretto, LocalBigCache:
		default:
			errs = append(errs, fmt.Errorf("%w: local.kind %q", ErrInvalid, c.Local.Kind))
		}
		if c.Local.Size < 0 || c.Local.TTL < 0 || c.Local.MaxCost < 0 {
			errs = append(errs, fmt.Errorf("%w: local size, max_cost and ttl must be >= 0", ErrInvalid))
		}
	}
	for _, name := range c.PolicyNames() {
		p := c.Policies[name]
		if _, err := cacheaside.ParseTemplate(p.Key); err != nil {
			errs = append(errs, fmt.Errorf("%w: policy %s: %w", ErrInvalid, name, err))
		}
		if p.HitTTL < 0 || p.MissTTL < 0 {
			errs = append(errs, fmt.Errorf("%w: policy %s: %w", ErrInvalid, name, cacheaside.ErrNegativeTTL))
		}
	}
	return errors.Join(errs...)
}

// PolicyNames returns the configured policy names in sorted order.
func (c *Config) PolicyNames() []string {
	names := make([]string, 0, len(c.Policies))
	for n := range c.Policies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Policy returns the named policy. An omitted hit_ttl becomes
// cacheaside.DefaultHitTTL; a config policy always caches values.
func (c *Config) Policy(name string) (cacheaside.Policy, error) {
	p, ok := c.Policies[name]
	if !ok {
		return cacheaside.Policy{}, fmt.Errorf("%w: %s", ErrUnknownPolicy, name)
	}
	hit := p.HitTTL
	if hit == 0 {
		hit = cacheaside.DefaultHitTTL
	}
	return cacheaside.Policy{Key: p.Key, HitTTL: hit, MissTTL: p.MissTTL, Local: p.Local}, nil
}
