package fetchcache

import (
	"log"
	"sync"
	"time"
)

// Refresher forces a refetch of every tracked cache key on a fixed
// interval, independent of reads, so long-lived open views stay current.
type Refresher struct {
	cache    *Cache
	ticker   *time.Ticker
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRefresher creates a refresher that fires every interval.
func NewRefresher(cache *Cache, interval time.Duration) *Refresher {
	return &Refresher{
		cache:  cache,
		ticker: time.NewTicker(interval),
		stop:   make(chan struct{}),
	}
}

// Start begins the refresh loop.
func (r *Refresher) Start() {
	go func() {
		for {
			select {
			case <-r.ticker.C:
				r.runRefresh()
			case <-r.stop:
				return
			}
		}
	}()
}

func (r *Refresher) runRefresh() {
	if started := r.cache.RefreshAll(); started > 0 {
		log.Printf("Forced refresh of %d cached queries", started)
	}
}

// Stop halts the refresh loop.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() {
		r.ticker.Stop()
		close(r.stop)
	})
}
