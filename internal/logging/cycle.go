package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Cycle describes one completed refresh cycle for a dashboard query.
type Cycle struct {
	Window    string
	Count     int
	Duration  time.Duration
	Err       error
	Timestamp time.Time
}

// Recorder appends refresh-cycle outcomes to daily log files organized by
// organization and team. Directory structure: baseDir/org/team/DATE.log.
type Recorder struct {
	baseDir string
	mu      sync.Mutex
}

// NewRecorder creates a Recorder with the specified base directory.
func NewRecorder(baseDir string) *Recorder {
	return &Recorder{baseDir: baseDir}
}

// Record appends one line for the cycle to the day's log file.
func (r *Recorder) Record(org, team string, c Cycle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Join(r.baseDir, org, team)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	path := filepath.Join(dir, c.Timestamp.Format("2006-01-02")+".log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	outcome := fmt.Sprintf("pulls=%d", c.Count)
	if c.Err != nil {
		outcome = fmt.Sprintf("error=%q", c.Err.Error())
	}
	line := fmt.Sprintf("%s window=%s %s duration=%s\n",
		c.Timestamp.Format(time.RFC3339),
		c.Window,
		outcome,
		c.Duration.Round(time.Millisecond),
	)

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("writing log entry: %w", err)
	}
	return nil
}
