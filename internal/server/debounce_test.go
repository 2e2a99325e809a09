package server

import (
	"testing"
	"time"
)

func TestDebouncer_ThrottlesRepeats(t *testing.T) {
	d := NewDebouncer(100 * time.Millisecond)

	if !d.ShouldProcess("acme|core|14") {
		t.Error("first trigger blocked, want allowed")
	}
	if d.ShouldProcess("acme|core|14") {
		t.Error("immediate repeat allowed, want blocked")
	}
	// A different key is independent
	if !d.ShouldProcess("acme|core|7") {
		t.Error("different key blocked, want allowed")
	}
}

func TestDebouncer_AllowsAfterWindow(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	d.ShouldProcess("k")
	time.Sleep(20 * time.Millisecond)

	if !d.ShouldProcess("k") {
		t.Error("trigger after window blocked, want allowed")
	}
}

func TestDebouncer_ZeroWindowDisablesThrottling(t *testing.T) {
	d := NewDebouncer(0)

	for i := 0; i < 3; i++ {
		if !d.ShouldProcess("k") {
			t.Fatal("trigger blocked with zero window, want allowed")
		}
	}
}

func TestDebouncer_Cleanup(t *testing.T) {
	d := NewDebouncer(5 * time.Millisecond)
	d.ShouldProcess("k")

	time.Sleep(20 * time.Millisecond)
	d.Cleanup()

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.seen) != 0 {
		t.Errorf("seen has %d entries after cleanup, want 0", len(d.seen))
	}
}

func TestDebouncer_PeriodicSweep(t *testing.T) {
	d := NewDebouncer(time.Millisecond)
	d.ShouldProcess("k")

	d.Start(5 * time.Millisecond)
	defer d.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		d.mu.Lock()
		n := len(d.seen)
		d.mu.Unlock()
		if n == 0 {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Error("expired entry never swept")
}

func TestDebouncer_StopIsIdempotent(t *testing.T) {
	d := NewDebouncer(time.Millisecond)
	d.Start(time.Minute)
	d.Stop()
	d.Stop()
}
