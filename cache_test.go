package cacheaside

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/unkn0wn-root/cacheaside/internal/wire"
	pr "github.com/unkn0wn-root/cacheaside/provider"
)

type memEntry struct {
	v   []byte
	ttl time.Duration
	exp time.Time // zero => no TTL
}

type memProvider struct {
	mu     sync.Mutex
	m      map[string]memEntry
	getErr error
	setErr error
	gets   int
	sets   int
	closed bool
}

var _ pr.Provider = (*memProvider)(nil)

func newMemProvider() *memProvider { return &memProvider{m: make(map[string]memEntry)} }

func (p *memProvider) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gets++
	if p.getErr != nil {
		return nil, false, p.getErr
	}
	e, ok := p.m[key]
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		delete(p.m, key)
		return nil, false, nil
	}
	return e.v, true, nil
}

func (p *memProvider) Set(_ context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sets++
	if p.setErr != nil {
		return false, p.setErr
	}
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	p.m[key] = memEntry{v: value, ttl: ttl, exp: exp}
	return true, nil
}

func (p *memProvider) Del(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.m, key)
	return nil
}

func (p *memProvider) Close(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *memProvider) entry(key string) (memEntry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.m[key]
	return e, ok
}

func (p *memProvider) seed(key string, frame []byte, ttl time.Duration) {
	_, _ = p.Set(context.Background(), key, frame, 0, ttl)
}

func (p *memProvider) counts() (gets, sets int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gets, p.sets
}

// batchProvider adds the pipelined capability on top of memProvider.
type batchProvider struct {
	*memProvider
	getManyCalls int
	setManyCalls int
}

var _ pr.Batch = (*batchProvider)(nil)

func newBatchProvider() *batchProvider { return &batchProvider{memProvider: newMemProvider()} }

func (p *batchProvider) GetMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	p.getManyCalls++
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		b, ok, err := p.Get(ctx, k)
		if err != nil {
			return out, err
		}
		if ok {
			out[k] = b
		}
	}
	return out, nil
}

func (p *batchProvider) SetMany(ctx context.Context, items map[string][]byte, ttl time.Duration) error {
	p.setManyCalls++
	for k, v := range items {
		if _, err := p.Set(ctx, k, v, 0, ttl); err != nil {
			return err
		}
	}
	return nil
}

type recordHooks struct {
	mu        sync.Mutex
	lookups   map[string][2]int
	storeErrs []string
	corrupt   []string
	loaderIDs []int
	negatives int
}

func newRecordHooks() *recordHooks { return &recordHooks{lookups: map[string][2]int{}} }

func (h *recordHooks) TierLookup(tier string, hits, misses int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := h.lookups[tier]
	h.lookups[tier] = [2]int{c[0] + hits, c[1] + misses}
}

func (h *recordHooks) StoreError(tier, op string, _ int, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.storeErrs = append(h.storeErrs, tier+":"+op)
}

func (h *recordHooks) CorruptEntry(tier, key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.corrupt = append(h.corrupt, tier+":"+key)
}

func (h *recordHooks) LoaderCalled(_ string, ids int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loaderIDs = append(h.loaderIDs, ids)
}

func (h *recordHooks) NegativeStored(_ string, n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.negatives += n
}

type user struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newTestCache(t *testing.T, remote pr.Provider, optsOpt func(*Options)) *Cache {
	t.Helper()
	opts := Options{Remote: remote}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	c, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func frameKind(t *testing.T, p *memProvider, key string) wire.Kind {
	t.Helper()
	e, ok := p.entry(key)
	if !ok {
		t.Fatalf("no entry stored under %q", key)
	}
	k, _, err := wire.Decode(e.v)
	if err != nil {
		t.Fatalf("stored entry %q does not decode: %v", key, err)
	}
	return k
}

// ==============================
// Construction and lifecycle
// ==============================

func TestNewRequiresRemote(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("expected error without remote provider")
	}
	if _, err := New(Options{Remote: newMemProvider(), LocalTTL: -time.Second}); err == nil {
		t.Fatalf("expected error on negative local ttl")
	}
}

func TestCloseClosesBothTiers(t *testing.T) {
	remote, local := newMemProvider(), newMemProvider()
	c := newTestCache(t, remote, func(o *Options) { o.Local = local })
	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !remote.closed || !local.closed {
		t.Fatalf("closed remote=%v local=%v", remote.closed, local.closed)
	}
}

// ==============================
// Scenario: single user lookup
// ==============================

func TestUserLookupCachedForHitTTL(t *testing.T) {
	ctx := context.Background()
	remote := newMemProvider()
	c := newTestCache(t, remote, nil)

	calls := 0
	var gotArg int
	getUser, err := WrapOne(c, Policy{Key: "user:%d", HitTTL: 600 * time.Second, MissTTL: 10 * time.Second}, nil,
		func(_ context.Context, id int) (user, bool, error) {
			calls++
			gotArg = id
			return user{ID: id, Name: "a"}, true, nil
		})
	if err != nil {
		t.Fatalf("WrapOne: %v", err)
	}

	first, ok, err := getUser(ctx, 42)
	if err != nil || !ok {
		t.Fatalf("first call: ok=%v err=%v", ok, err)
	}
	if calls != 1 || gotArg != 42 {
		t.Fatalf("loader calls=%d arg=%d, want 1 and 42", calls, gotArg)
	}
	e, ok := remote.entry("user:42")
	if !ok || e.ttl != 600*time.Second {
		t.Fatalf("user:42 stored=%v ttl=%v, want 600s", ok, e.ttl)
	}

	second, ok, err := getUser(ctx, 42)
	if err != nil || !ok {
		t.Fatalf("second call: ok=%v err=%v", ok, err)
	}
	if second != first || first != (user{ID: 42, Name: "a"}) {
		t.Fatalf("values differ: %+v vs %+v", first, second)
	}
	if calls != 1 {
		t.Fatalf("loader called again: %d", calls)
	}
}

func TestDisabledBypassesTiers(t *testing.T) {
	ctx := context.Background()
	remote := newMemProvider()
	c := newTestCache(t, remote, func(o *Options) { o.Disabled = true })
	if c.Enabled() {
		t.Fatalf("Enabled() = true for disabled cache")
	}

	calls := 0
	get, err := WrapOne(c, Policy{Key: "user:%d", HitTTL: DefaultHitTTL}, nil, func(_ context.Context, id int) (user, bool, error) {
		calls++
		return user{ID: id}, true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, _, err := get(ctx, 1); err != nil {
			t.Fatal(err)
		}
	}
	gets, sets := remote.counts()
	if calls != 3 || gets != 0 || sets != 0 {
		t.Fatalf("calls=%d gets=%d sets=%d", calls, gets, sets)
	}
}

func TestInvalidateTouchesLocalOnly(t *testing.T) {
	ctx := context.Background()
	remote, local := newMemProvider(), newMemProvider()
	c := newTestCache(t, remote, func(o *Options) { o.Local = local })

	frame := wire.EncodeValue([]byte(`{"id":1}`))
	remote.seed("user:1", frame, time.Minute)
	local.seed("user:1", frame, time.Second)

	if err := c.Invalidate(ctx, "user:1"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok := local.entry("user:1"); ok {
		t.Fatalf("local entry survived invalidate")
	}
	if _, ok := remote.entry("user:1"); !ok {
		t.Fatalf("remote entry must be left to expire")
	}

	noLocal := newTestCache(t, newMemProvider(), nil)
	if err := noLocal.Invalidate(ctx, "user:1"); err != nil {
		t.Fatalf("Invalidate without local tier: %v", err)
	}
}

func TestPeekReportsKind(t *testing.T) {
	ctx := context.Background()
	remote := newMemProvider()
	c := newTestCache(t, remote, nil)

	remote.seed("a", wire.EncodeValue([]byte(`1`)), time.Minute)
	remote.seed("b", wire.EncodeEmptyList(), time.Minute)

	if l := c.Peek(ctx, "a"); l.Outcome != OutcomeHit || l.Kind() != "value" || string(l.Payload) != "1" {
		t.Fatalf("peek a: %+v kind=%q", l, l.Kind())
	}
	if l := c.Peek(ctx, "b"); l.Outcome != OutcomeNegative || l.Kind() != "empty_list" {
		t.Fatalf("peek b: %+v kind=%q", l, l.Kind())
	}
	if l := c.Peek(ctx, "c"); l.Outcome != OutcomeMiss || l.Kind() != "" {
		t.Fatalf("peek c: %+v", l)
	}

	remote.getErr = errors.New("down")
	l := c.Peek(ctx, "a")
	var se *StoreError
	if l.Outcome != OutcomeFailed || !errors.As(l.Err, &se) || se.Tier != "remote" {
		t.Fatalf("peek with failing store: %+v", l)
	}
}

func TestPeekLeavesForeignBytes(t *testing.T) {
	ctx := context.Background()
	remote := newMemProvider()
	hooks := newRecordHooks()
	c := newTestCache(t, remote, func(o *Options) { o.Hooks = hooks })
	remote.seed("session:abc", []byte("not-a-frame"), time.Minute)

	l := c.Peek(ctx, "session:abc")
	if l.Outcome != OutcomeForeign || l.Err == nil || string(l.Payload) != "not-a-frame" || l.Kind() != "" {
		t.Fatalf("peek: %+v", l)
	}
	if e, ok := remote.entry("session:abc"); !ok || string(e.v) != "not-a-frame" {
		t.Fatalf("peek must not modify foreign keys, entry=%+v ok=%v", e, ok)
	}
	if len(hooks.corrupt) != 0 {
		t.Fatalf("peek reported corruption: %v", hooks.corrupt)
	}
}
