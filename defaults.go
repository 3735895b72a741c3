package cacheaside

import "time"

const (
	// DefaultHitTTL is the usual Policy.HitTTL and what config policies get
	// when hit_ttl is omitted.
	DefaultHitTTL = 10 * time.Minute
	// DefaultMissTTL is a sensible Policy.MissTTL. It is not applied
	// implicitly: a zero MissTTL disables negative caching.
	DefaultMissTTL = 10 * time.Second
	// DefaultLocalTTL bounds how long a remote entry may be served from the
	// local tier.
	DefaultLocalTTL = 3 * time.Second
)

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
