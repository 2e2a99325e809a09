package logging

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Cleaner removes refresh-cycle log files older than the retention period.
// It can run once via Cleanup or on a schedule via Start/Stop.
type Cleaner struct {
	baseDir       string
	retentionDays int

	ticker   *time.Ticker
	stop     chan struct{}
	stopOnce sync.Once
}

// NewCleaner creates a Cleaner for the given directory and retention period.
func NewCleaner(baseDir string, retentionDays int) *Cleaner {
	return &Cleaner{
		baseDir:       baseDir,
		retentionDays: retentionDays,
		stop:          make(chan struct{}),
	}
}

// Cleanup removes log files older than the retention period and cleans up
// empty directories. Returns the number of files deleted.
func (c *Cleaner) Cleanup() (int, error) {
	threshold := time.Now().AddDate(0, 0, -c.retentionDays)
	var deleted int

	err := filepath.Walk(c.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if info.IsDir() {
			return nil
		}
		if info.ModTime().Before(threshold) {
			if err := os.Remove(path); err == nil {
				deleted++
			}
		}
		return nil
	})

	c.cleanEmptyDirs()

	return deleted, err
}

// cleanEmptyDirs removes empty directories within the base directory.
// Removing a directory may make its parent empty, so it loops until a pass
// removes nothing.
func (c *Cleaner) cleanEmptyDirs() {
	for {
		removedAny := false
		filepath.Walk(c.baseDir, func(path string, info os.FileInfo, err error) error {
			if err != nil || !info.IsDir() || path == c.baseDir {
				return nil
			}
			entries, _ := os.ReadDir(path)
			if len(entries) == 0 {
				if os.Remove(path) == nil {
					removedAny = true
				}
			}
			return nil
		})
		if !removedAny {
			break
		}
	}
}

// Start runs an immediate cleanup and then repeats on the given interval.
func (c *Cleaner) Start(interval time.Duration) {
	c.ticker = time.NewTicker(interval)

	go c.runCleanup()
	go func() {
		for {
			select {
			case <-c.ticker.C:
				c.runCleanup()
			case <-c.stop:
				return
			}
		}
	}()
}

func (c *Cleaner) runCleanup() {
	deleted, err := c.Cleanup()
	if err != nil {
		log.Printf("Log cleanup error: %v", err)
	} else if deleted > 0 {
		log.Printf("Cleaned up %d old refresh logs", deleted)
	}
}

// Stop halts the cleanup schedule.
func (c *Cleaner) Stop() {
	c.stopOnce.Do(func() {
		if c.ticker != nil {
			c.ticker.Stop()
		}
		close(c.stop)
	})
}
