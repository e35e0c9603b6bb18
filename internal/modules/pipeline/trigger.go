package pipeline

import (
	"sync"
	"time"
)

// trigger collapses rapid successive inputs into a single callback after a
// quiet period. Each new value restarts the timer, so the callback fires
// once with the last value seen.
type trigger struct {
	quiet time.Duration
	run   func(float64)

	mu      sync.Mutex
	timer   *time.Timer
	pending float64
	stopped bool
}

func newTrigger(quiet time.Duration, run func(float64)) *trigger {
	return &trigger{quiet: quiet, run: run}
}

// fire schedules the callback with v after the quiet period, replacing any
// pending schedule.
func (t *trigger) fire(v float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}

	t.pending = v
	if t.timer != nil {
		t.timer.Stop()
	}
	var tm *time.Timer
	tm = time.AfterFunc(t.quiet, func() {
		t.mu.Lock()
		// A replaced timer may still reach here when Stop raced its
		// expiry; only the current timer is allowed to run, once.
		if t.stopped || t.timer != tm {
			t.mu.Unlock()
			return
		}
		t.timer = nil
		v := t.pending
		t.mu.Unlock()
		t.run(v)
	})
	t.timer = tm
}

// stop cancels any pending callback and rejects further fires.
func (t *trigger) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
