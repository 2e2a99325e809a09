package fetchcache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"teampulse/internal/metrics"
	"teampulse/internal/provider"
)

// Fetcher produces the pull requests for one cache key.
type Fetcher func(ctx context.Context) ([]provider.PullRequest, error)

// State describes where a cache entry is in its lifecycle.
type State string

const (
	// StateEmpty means the key has never been fetched.
	StateEmpty State = "empty"
	// StateLoading means the first fetch is in flight and there is no data
	// to show yet.
	StateLoading State = "loading"
	// StateFresh means data is present and within the staleness window.
	StateFresh State = "fresh"
	// StateStale means data is present but past the staleness window.
	StateStale State = "stale"
	// StateRefreshing means a background refetch is in flight while the
	// previous data remains visible.
	StateRefreshing State = "refreshing"
)

// Result is what a read returns: whatever data is known for the key right
// now, plus enough state for the presentation layer to render loading and
// error conditions without blanking previously shown data.
type Result struct {
	PullRequests []provider.PullRequest
	State        State
	Loading      bool // first fetch in flight, nothing to show yet
	Stale        bool
	Err          error // last fetch failure, kept alongside retained data
	FetchedAt    time.Time
}

// entry is the cache record for one key. Reads and fetch completions are
// serialized by the cache mutex; the token decides whether a completion
// still applies or has been superseded.
type entry struct {
	fetcher     Fetcher
	data        []provider.PullRequest
	hasData     bool
	err         error
	fetchedAt   time.Time
	attemptedAt time.Time
	inflight    string // token of the current in-flight fetch, "" if none
}

// Cache is a keyed result cache with a stale-while-revalidate policy.
// Fresh entries are served as-is; stale entries are served immediately
// while a single background refetch runs; fetch failures are recorded
// next to the retained data instead of replacing it.
type Cache struct {
	staleAfter time.Duration
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// Option configures the cache.
type Option func(*Cache)

// WithClock sets the clock used for staleness decisions (for testing).
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a cache whose entries count as fresh for staleAfter.
func New(staleAfter time.Duration, opts ...Option) *Cache {
	c := &Cache{
		staleAfter: staleAfter,
		now:        time.Now,
		entries:    make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the current result for the key without blocking on the
// network. A never-fetched key starts its first fetch and reports loading;
// a stale key starts a background refetch and keeps serving the old data.
// The fetcher is remembered per key so forced refreshes can reuse it.
func (c *Cache) Get(key string, fetch Fetcher) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	e.fetcher = fetch

	if !e.hasData {
		if e.inflight == "" && c.shouldAttempt(e) {
			metrics.CacheMiss()
			c.startFetch(key, e)
		}
		return c.snapshot(e)
	}

	metrics.CacheHit()
	if c.isStale(e) && e.inflight == "" && c.shouldAttempt(e) {
		c.startFetch(key, e)
	}
	return c.snapshot(e)
}

// Refresh forces a refetch for the key regardless of staleness. It reports
// whether a fetch was started; a key that was never read, or that already
// has a fetch in flight, is left alone.
func (c *Cache) Refresh(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.fetcher == nil || e.inflight != "" {
		return false
	}
	c.startFetch(key, e)
	return true
}

// RefreshAll forces a refetch for every tracked key and returns how many
// fetches were started.
func (c *Cache) RefreshAll() int {
	c.mu.Lock()
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	c.mu.Unlock()

	started := 0
	for _, key := range keys {
		if c.Refresh(key) {
			started++
		}
	}
	return started
}

// Invalidate drops the entry for the key. Any in-flight fetch for it is
// discarded on arrival since its entry (and token) is gone.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Keys returns the tracked cache keys.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return keys
}

// shouldAttempt rate-limits retries: a new fetch for an entry that already
// failed is only started once the staleness window has passed since the
// last attempt. First-ever attempts always proceed.
func (c *Cache) shouldAttempt(e *entry) bool {
	if e.attemptedAt.IsZero() {
		return true
	}
	if e.err == nil && e.hasData {
		return true
	}
	return c.now().Sub(e.attemptedAt) > c.staleAfter
}

func (c *Cache) isStale(e *entry) bool {
	return c.now().Sub(e.fetchedAt) > c.staleAfter
}

// startFetch launches one fetch for the entry. Must be called with the
// cache mutex held. The completion only applies if its token is still the
// entry's current one; a superseded or invalidated fetch is discarded.
func (c *Cache) startFetch(key string, e *entry) {
	token := uuid.NewString()
	e.inflight = token
	e.attemptedAt = c.now()
	fetch := e.fetcher
	metrics.RefreshStarted()

	go func() {
		// Detached from any request context: the refresh outlives the
		// read that triggered it.
		data, err := fetch(context.Background())

		c.mu.Lock()
		defer c.mu.Unlock()

		current, ok := c.entries[key]
		if !ok || current.inflight != token {
			return
		}
		current.inflight = ""

		if err != nil {
			current.err = err
			metrics.RefreshFailed()
			return
		}
		current.data = data
		current.hasData = true
		current.err = nil
		current.fetchedAt = c.now()
		metrics.RefreshCompleted()
	}()
}

// snapshot builds a Result from the entry. Must be called with the cache
// mutex held.
func (c *Cache) snapshot(e *entry) Result {
	r := Result{
		PullRequests: e.data,
		Err:          e.err,
		FetchedAt:    e.fetchedAt,
	}

	switch {
	case !e.hasData && e.inflight != "":
		r.State = StateLoading
		r.Loading = true
	case !e.hasData:
		r.State = StateEmpty
	case e.inflight != "":
		r.State = StateRefreshing
		r.Stale = true
	case c.isStale(e):
		r.State = StateStale
		r.Stale = true
	default:
		r.State = StateFresh
	}

	return r
}
