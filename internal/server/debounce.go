package server

import (
	"sync"
	"time"
)

// debounceSweepInterval is how often expired debounce entries are swept.
const debounceSweepInterval = 10 * time.Minute

// Debouncer throttles manual refresh triggers within a time window, keyed
// by the dashboard query they target.
type Debouncer struct {
	window time.Duration
	seen   map[string]time.Time
	mu     sync.Mutex

	ticker   *time.Ticker
	stop     chan struct{}
	stopOnce sync.Once
}

// NewDebouncer creates a new debouncer with the given window. A zero or
// negative window disables throttling.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window: window,
		seen:   make(map[string]time.Time),
		stop:   make(chan struct{}),
	}
}

// ShouldProcess returns true if a trigger for the key should go through.
// Returns false if one was processed for the same key too recently.
func (d *Debouncer) ShouldProcess(key string) bool {
	if d.window <= 0 {
		return true
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	if lastSeen, ok := d.seen[key]; ok {
		if now.Sub(lastSeen) < d.window {
			return false
		}
	}

	d.seen[key] = now
	return true
}

// Cleanup removes old entries from the seen map.
func (d *Debouncer) Cleanup() {
	d.mu.Lock()
	defer d.mu.Unlock()

	threshold := time.Now().Add(-d.window * 2)
	for key, t := range d.seen {
		if t.Before(threshold) {
			delete(d.seen, key)
		}
	}
}

// Start begins sweeping expired entries every interval, so the seen map
// does not grow with the number of distinct queries ever refreshed.
func (d *Debouncer) Start(interval time.Duration) {
	d.ticker = time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-d.ticker.C:
				d.Cleanup()
			case <-d.stop:
				return
			}
		}
	}()
}

// Stop halts the sweep loop.
func (d *Debouncer) Stop() {
	d.stopOnce.Do(func() {
		if d.ticker != nil {
			d.ticker.Stop()
		}
		close(d.stop)
	})
}
