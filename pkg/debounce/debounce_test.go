package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTriggerCoalescesBurst(t *testing.T) {
	var calls atomic.Int32
	d := New(30*time.Millisecond, func() {
		calls.Add(1)
	})

	for i := 0; i < 10; i++ {
		d.Trigger()
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single trailing-edge call, got %d", got)
	}
}

func TestZeroWindowRunsImmediately(t *testing.T) {
	var calls atomic.Int32
	d := New(0, func() {
		calls.Add(1)
	})

	d.Trigger()
	d.Trigger()

	if got := calls.Load(); got != 2 {
		t.Fatalf("expected immediate calls, got %d", got)
	}
}

func TestStopCancelsPendingCall(t *testing.T) {
	var calls atomic.Int32
	d := New(20*time.Millisecond, func() {
		calls.Add(1)
	})

	d.Trigger()
	d.Stop()

	time.Sleep(60 * time.Millisecond)

	if got := calls.Load(); got != 0 {
		t.Fatalf("expected no call after Stop, got %d", got)
	}
}
