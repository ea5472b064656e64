package engine

import (
	"context"
	"sync"
	"time"
)

// Deferred is a caller-owned single-flight handle for delayed effect
// application, such as resolving a roll once its animation finishes.
// Arming a new token invalidates every earlier one, so a superseded
// application never runs.
type Deferred struct {
	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

// Arm cancels any pending application and returns a fresh token.
func (d *Deferred) Arm() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.gen++
	return d.gen
}

// Fire runs fn if token is still the latest one. A token fires at most
// once.
func (d *Deferred) Fire(token uint64, fn func()) bool {
	d.mu.Lock()
	if token == 0 || token != d.gen {
		d.mu.Unlock()
		return false
	}
	d.gen++
	d.timer = nil
	d.mu.Unlock()

	fn()
	return true
}

// Cancel drops any pending application.
func (d *Deferred) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.gen++
}

// Pending reports whether token can still fire.
func (d *Deferred) Pending(token uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return token != 0 && token == d.gen
}

// Schedule arms a token and runs fn after delay unless the token is
// superseded or ctx is cancelled first. fn runs on the timer's goroutine.
func (d *Deferred) Schedule(ctx context.Context, delay time.Duration, fn func()) uint64 {
	token := d.Arm()
	d.mu.Lock()
	d.timer = time.AfterFunc(delay, func() {
		if ctx.Err() != nil {
			return
		}
		d.Fire(token, fn)
	})
	d.mu.Unlock()
	return token
}

func (d *Deferred) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
