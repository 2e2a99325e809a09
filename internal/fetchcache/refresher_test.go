package fetchcache

import (
	"testing"
	"time"

	"teampulse/internal/provider"
)

func TestRefresher_RefetchesTrackedKeys(t *testing.T) {
	cache := New(time.Hour) // entries never go stale on their own
	fetcher := &stubFetcher{results: []func() ([]provider.PullRequest, error){ok(pulls(1))}}

	cache.Get("k", fetcher.fetch)
	waitFor(t, "first fetch to land", func() bool {
		return cache.Get("k", fetcher.fetch).State == StateFresh
	})

	refresher := NewRefresher(cache, 10*time.Millisecond)
	refresher.Start()
	defer refresher.Stop()

	// The forced timer must refetch even though the entry is fresh.
	waitFor(t, "forced refresh to fire", func() bool {
		return fetcher.callCount() >= 2
	})
}

func TestRefresher_StopIsIdempotent(t *testing.T) {
	refresher := NewRefresher(New(time.Hour), time.Minute)
	refresher.Start()
	refresher.Stop()
	refresher.Stop()
}
