package cacheaside

import "github.com/unkn0wn-root/cacheaside/internal/wire"

// Outcome is the tri-state result of a tier read, plus the degraded case.
type Outcome uint8

const (
	// OutcomeMiss means no entry exists in any consulted tier.
	OutcomeMiss Outcome = iota
	// OutcomeHit means a real value was found; Payload holds its codec bytes.
	OutcomeHit
	// OutcomeNegative means the key is confirmed absent by a placeholder.
	OutcomeNegative
	// OutcomeFailed means the store could not be read. Resolvers treat it
	// exactly like OutcomeMiss; Err says why.
	OutcomeFailed
	// OutcomeForeign is only reported by Peek: the key holds bytes that are
	// not a cacheaside entry. Payload is the raw value, which is left in place.
	OutcomeForeign
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMiss:
		return "miss"
	case OutcomeHit:
		return "hit"
	case OutcomeNegative:
		return "negative"
	case OutcomeFailed:
		return "failed"
	case OutcomeForeign:
		return "foreign"
	default:
		return "unknown"
	}
}

// Lookup is what a tier read produced for one key.
type Lookup struct {
	Outcome Outcome
	Payload []byte // codec bytes; for a negative scalar, the encoded empty value (may be nil)
	Err     error  // set with OutcomeFailed and OutcomeForeign

	kind wire.Kind
	from string // tier the entry was read from
}

// Found reports a real or negative entry.
func (l Lookup) Found() bool { return l.Outcome == OutcomeHit || l.Outcome == OutcomeNegative }

// Kind names the stored entry kind ("value", "empty_object", "empty_list"),
// or "" when nothing was found.
func (l Lookup) Kind() string {
	if !l.Found() {
		return ""
	}
	return l.kind.String()
}

func lookupOf(kind wire.Kind, payload []byte, from string) Lookup {
	if kind.Negative() {
		return Lookup{Outcome: OutcomeNegative, Payload: payload, kind: kind, from: from}
	}
	return Lookup{Outcome: OutcomeHit, Payload: payload, kind: kind, from: from}
}
