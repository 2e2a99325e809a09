package metrics

import (
	"sync/atomic"
)

// Metrics tracks operational metrics.
type Metrics struct {
	SearchesIssued     uint64 `json:"searches_issued"`
	PagesFetched       uint64 `json:"pages_fetched"`
	CacheHits          uint64 `json:"cache_hits"`
	CacheMisses        uint64 `json:"cache_misses"`
	RefreshesStarted   uint64 `json:"refreshes_started"`
	RefreshesCompleted uint64 `json:"refreshes_completed"`
	RefreshesFailed    uint64 `json:"refreshes_failed"`
}

var global = &Metrics{}

// SearchIssued increments the count of pull request searches issued upstream.
func SearchIssued() { atomic.AddUint64(&global.SearchesIssued, 1) }

// PageFetched increments the count of upstream pages fetched.
func PageFetched() { atomic.AddUint64(&global.PagesFetched, 1) }

// CacheHit increments the count of reads served from cached data.
func CacheHit() { atomic.AddUint64(&global.CacheHits, 1) }

// CacheMiss increments the count of reads that found no cached data.
func CacheMiss() { atomic.AddUint64(&global.CacheMisses, 1) }

// RefreshStarted increments the count of refreshes begun.
func RefreshStarted() { atomic.AddUint64(&global.RefreshesStarted, 1) }

// RefreshCompleted increments the count of refreshes that stored new data.
func RefreshCompleted() { atomic.AddUint64(&global.RefreshesCompleted, 1) }

// RefreshFailed increments the count of refreshes that ended in an error.
func RefreshFailed() { atomic.AddUint64(&global.RefreshesFailed, 1) }

// Get returns a snapshot of the current metrics.
func Get() Metrics {
	return Metrics{
		SearchesIssued:     atomic.LoadUint64(&global.SearchesIssued),
		PagesFetched:       atomic.LoadUint64(&global.PagesFetched),
		CacheHits:          atomic.LoadUint64(&global.CacheHits),
		CacheMisses:        atomic.LoadUint64(&global.CacheMisses),
		RefreshesStarted:   atomic.LoadUint64(&global.RefreshesStarted),
		RefreshesCompleted: atomic.LoadUint64(&global.RefreshesCompleted),
		RefreshesFailed:    atomic.LoadUint64(&global.RefreshesFailed),
	}
}

// Reset resets all metrics to zero (useful for testing).
func Reset() {
	atomic.StoreUint64(&global.SearchesIssued, 0)
	atomic.StoreUint64(&global.PagesFetched, 0)
	atomic.StoreUint64(&global.CacheHits, 0)
	atomic.StoreUint64(&global.CacheMisses, 0)
	atomic.StoreUint64(&global.RefreshesStarted, 0)
	atomic.StoreUint64(&global.RefreshesCompleted, 0)
	atomic.StoreUint64(&global.RefreshesFailed, 0)
}
