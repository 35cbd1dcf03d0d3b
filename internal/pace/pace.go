// Package pace gates high-frequency triggers. Neither helper carries a
// correctness obligation; they only cap how often a handler runs.
package pace

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Debouncer delays fn until no Trigger call has happened for the quiet
// period (trailing edge).
type Debouncer struct {
	wait time.Duration
	fn   func()

	mu    sync.Mutex
	timer *time.Timer
}

func Debounce(wait time.Duration, fn func()) *Debouncer {
	return &Debouncer{wait: wait, fn: fn}
}

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, d.fn)
}

// Stop cancels a pending call, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Throttler runs the first call immediately and drops further calls until
// the cooldown has elapsed (leading edge).
type Throttler struct {
	limiter *rate.Limiter
}

func Throttle(cooldown time.Duration) *Throttler {
	return &Throttler{limiter: rate.NewLimiter(rate.Every(cooldown), 1)}
}

// Allow reports whether a call may run now and consumes the slot if so.
func (t *Throttler) Allow() bool {
	return t.limiter.Allow()
}

// Do runs fn if the throttler allows it and reports whether it ran.
func (t *Throttler) Do(fn func()) bool {
	if !t.limiter.Allow() {
		return false
	}
	fn()
	return true
}
