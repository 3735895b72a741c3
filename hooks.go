package cacheaside

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// A tier answered a lookup. For batch reads hits+misses is the number of
	// keys asked of that tier. Negative entries count as hits.
	TierLookup(tier string, hits, misses int)

	// A store operation failed and was degraded (read -> miss, write -> dropped).
	// op ∈ {"get", "set", "del"}; keys is the number of keys involved.
	StoreError(tier, op string, keys int, err error)

	// An undecodable entry was found and deleted.
	CorruptEntry(tier, storageKey string)

	// The loader ran for ids identifiers (1 for single-key lookups).
	LoaderCalled(template string, ids int)

	// Negative placeholders were written.
	NegativeStored(template string, count int)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) TierLookup(string, int, int)           {}
func (NopHooks) StoreError(string, string, int, error) {}
func (NopHooks) CorruptEntry(string, string)           {}
func (NopHooks) LoaderCalled(string, int)              {}
func (NopHooks) NegativeStored(string, int)            {}

// MultiHooks fans every event out to each member in order.
type MultiHooks []Hooks

var _ Hooks = MultiHooks(nil)

func (m MultiHooks) TierLookup(tier string, hits, misses int) {
	for _, h := range m {
		h.TierLookup(tier, hits, misses)
	}
}

func (m MultiHooks) StoreError(tier, op string, keys int, err error) {
	for _, h := range m {
		h.StoreError(tier, op, keys, err)
	}
}

func (m MultiHooks) CorruptEntry(tier, storageKey string) {
	for _, h := range m {
		h.CorruptEntry(tier, storageKey)
	}
}

func (m MultiHooks) LoaderCalled(template string, ids int) {
	for _, h := range m {
		h.LoaderCalled(template, ids)
	}
}

func (m MultiHooks) NegativeStored(template string, count int) {
	for _, h := range m {
		h.NegativeStored(template, count)
	}
}
