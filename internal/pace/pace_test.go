package pace

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebounceCoalescesBursts(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{}, 4)
	d := Debounce(30*time.Millisecond, func() {
		calls.Add(1)
		done <- struct{}{}
	})

	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced function never ran")
	}
	time.Sleep(60 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 call after a burst, got %d", got)
	}
}

func TestDebounceStop(t *testing.T) {
	var calls atomic.Int32
	d := Debounce(20*time.Millisecond, func() { calls.Add(1) })
	d.Trigger()
	d.Stop()
	time.Sleep(50 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("expected no call after Stop, got %d", got)
	}
}

func TestThrottleLeadingEdge(t *testing.T) {
	th := Throttle(50 * time.Millisecond)

	ran := 0
	for i := 0; i < 5; i++ {
		if th.Do(func() { ran++ }) != (i == 0) {
			t.Errorf("call %d: unexpected throttle decision", i)
		}
	}
	if ran != 1 {
		t.Fatalf("expected only the first call to run, got %d", ran)
	}

	time.Sleep(70 * time.Millisecond)
	if !th.Allow() {
		t.Error("expected a call to be allowed after the cooldown")
	}
}
