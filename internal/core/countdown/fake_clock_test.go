package countdown

import (
	"sync"
	"time"
)

// fakeClock is a manual Clock. Advance fires due callbacks in time order
// on the calling goroutine.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	when    time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	timer := &fakeTimer{clock: clock, when: clock.now.Add(d), fn: f}
	clock.timers = append(clock.timers, timer)
	return timer
}

func (clock *fakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	target := clock.now.Add(d)
	clock.mu.Unlock()

	for {
		clock.mu.Lock()
		next := clock.nextDueLocked(target)
		if next == nil {
			clock.now = target
			clock.mu.Unlock()
			return
		}
		clock.now = next.when
		next.fired = true
		clock.mu.Unlock()

		next.fn()
	}
}

// Pending counts armed timers that have neither fired nor been stopped.
func (clock *fakeClock) Pending() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	count := 0
	for _, timer := range clock.timers {
		if !timer.fired && !timer.stopped {
			count++
		}
	}
	return count
}

func (clock *fakeClock) nextDueLocked(target time.Time) *fakeTimer {
	var next *fakeTimer
	for _, timer := range clock.timers {
		if timer.fired || timer.stopped || timer.when.After(target) {
			continue
		}
		if next == nil || timer.when.Before(next.when) {
			next = timer
		}
	}
	return next
}

func (timer *fakeTimer) Stop() bool {
	timer.clock.mu.Lock()
	defer timer.clock.mu.Unlock()
	if timer.fired || timer.stopped {
		return false
	}
	timer.stopped = true
	return true
}
