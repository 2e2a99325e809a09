package window

import (
	"fmt"
	"strconv"
	"time"
)

// Window is a recency window over pull request creation times: either a
// concrete "created within the last N days" bound or unbounded.
type Window struct {
	days int // 0 means unbounded
}

// Unbounded returns a window with no lower bound.
func Unbounded() Window {
	return Window{}
}

// Days returns a window covering the last d days. Non-positive d is
// treated as unbounded.
func Days(d int) Window {
	if d <= 0 {
		return Window{}
	}
	return Window{days: d}
}

// Parse converts the persisted preference form ("7", "14", "30", "all")
// into a Window. Empty input means unbounded.
func Parse(s string) (Window, error) {
	if s == "" || s == "all" {
		return Unbounded(), nil
	}
	d, err := strconv.Atoi(s)
	if err != nil || d <= 0 {
		return Window{}, fmt.Errorf("invalid window %q", s)
	}
	return Days(d), nil
}

// Bounded reports whether the window has a lower bound.
func (w Window) Bounded() bool {
	return w.days > 0
}

// Cutoff returns the earliest creation instant the window admits: exactly
// w.days before now, at the same time of day. The second return is false
// for an unbounded window.
func (w Window) Cutoff(now time.Time) (time.Time, bool) {
	if !w.Bounded() {
		return time.Time{}, false
	}
	return now.AddDate(0, 0, -w.days), true
}

// Contains reports whether t falls within the window relative to now.
// The cutoff itself is inside the window. Providers apply this bound
// server-side through the search query; Contains is the local form of
// the same rule.
func (w Window) Contains(now, t time.Time) bool {
	cutoff, ok := w.Cutoff(now)
	if !ok {
		return true
	}
	return !t.Before(cutoff)
}

// QueryDate returns the cutoff as a zero-padded calendar date (YYYY-MM-DD),
// the textual form the hosting search syntax requires. Empty for an
// unbounded window.
func (w Window) QueryDate(now time.Time) string {
	cutoff, ok := w.Cutoff(now)
	if !ok {
		return ""
	}
	return cutoff.Format("2006-01-02")
}

// String returns the preference/cache-key form of the window.
func (w Window) String() string {
	if !w.Bounded() {
		return "all"
	}
	return strconv.Itoa(w.days)
}
