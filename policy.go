package cacheaside

import (
	"time"

	"github.com/unkn0wn-root/cacheaside/internal/wire"
)

// Policy is the per call-site cache declaration. It is validated once, when
// a loader is wrapped.
type Policy struct {
	// Key is the key template with exactly one verb, e.g. "user:%d".
	Key string
	// HitTTL is how long real values live. 0 disables caching of values;
	// DefaultHitTTL is the usual choice.
	HitTTL time.Duration
	// MissTTL is how long negative placeholders live. 0 disables negative caching.
	MissTTL time.Duration
	// Local enables the local tier for this policy (ignored when the cache has none).
	Local bool
}

type policy struct {
	tmpl    Template
	hitTTL  time.Duration
	missTTL time.Duration
	local   bool
	shape   Shape
}

func compilePolicy(p Policy, shape Shape) (policy, error) {
	if p.HitTTL < 0 || p.MissTTL < 0 {
		return policy{}, &PreconditionError{Op: "policy " + p.Key, Err: ErrNegativeTTL}
	}
	t, err := ParseTemplate(p.Key)
	if err != nil {
		return policy{}, err
	}
	return policy{
		tmpl:    t,
		hitTTL:  p.HitTTL,
		missTTL: p.MissTTL,
		local:   p.Local,
		shape:   shape,
	}, nil
}

// negKind is the placeholder kind that confirms absence for this shape.
func (p policy) negKind() wire.Kind {
	if p.shape == List || p.shape == KeyedListMap {
		return wire.KindEmptyList
	}
	return wire.KindEmptyObject
}
