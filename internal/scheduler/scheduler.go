// Package scheduler decides when the next quote refresh is due. Refresh
// delays are jittered so many running instances do not hit the provider in
// lockstep.
package scheduler

import (
	"math/rand"
	"sync"
	"time"
)

// MinInterval is the floor for the effective refresh delay. Intervals and
// jittered delays are clamped so the provider is never polled more than
// once per second.
const MinInterval = time.Second

// Scheduler tracks refresh timing for the app loop. Each attempt rolls a
// fresh jittered delay between 90% and 100% of the configured interval.
// The clock and jitter source are injectable for tests.
type Scheduler struct {
	mu          sync.Mutex
	interval    time.Duration
	delay       time.Duration
	lastAttempt time.Time
	lastRefresh time.Time
	forced      bool

	now    func() time.Time
	jitter func() float64
}

// New creates a scheduler with the given refresh interval. The first
// NeedsRefresh call reports true.
func New(interval time.Duration) *Scheduler {
	s := &Scheduler{
		now:    time.Now,
		jitter: rand.Float64,
		forced: true,
	}
	s.setIntervalLocked(interval)
	return s
}

// WithClock overrides the scheduler's time source.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
	return s
}

// WithJitter overrides the jitter source. The function must return values
// in [0, 1).
func (s *Scheduler) WithJitter(jitter func() float64) *Scheduler {
	s.mu.Lock()
	s.jitter = jitter
	s.delay = s.rollDelayLocked()
	s.mu.Unlock()
	return s
}

// NeedsRefresh reports whether the jittered delay has elapsed since the
// last attempt, or a refresh was forced.
func (s *Scheduler) NeedsRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.forced {
		return true
	}
	return s.now().Sub(s.lastAttempt) >= s.delay
}

// MarkAttempt records that a refresh was started, regardless of outcome,
// and rolls the delay for the next cycle. Failed cycles therefore wait a
// full interval too instead of hammering the provider.
func (s *Scheduler) MarkAttempt() {
	s.mu.Lock()
	s.lastAttempt = s.now()
	s.delay = s.rollDelayLocked()
	s.forced = false
	s.mu.Unlock()
}

// MarkRefresh records a successful refresh completion.
func (s *Scheduler) MarkRefresh() {
	s.mu.Lock()
	s.lastRefresh = s.now()
	s.mu.Unlock()
}

// ForceRefresh makes the next NeedsRefresh call report true immediately.
func (s *Scheduler) ForceRefresh() {
	s.mu.Lock()
	s.forced = true
	s.mu.Unlock()
}

// SetInterval changes the refresh interval, clamped to MinInterval, and
// rolls a new delay so the change takes effect on the current cycle.
func (s *Scheduler) SetInterval(interval time.Duration) {
	s.mu.Lock()
	s.setIntervalLocked(interval)
	s.mu.Unlock()
}

// Interval returns the configured refresh interval.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// LastRefresh returns when the last successful refresh completed. The zero
// time means no refresh has completed yet.
func (s *Scheduler) LastRefresh() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRefresh
}

func (s *Scheduler) setIntervalLocked(interval time.Duration) {
	if interval < MinInterval {
		interval = MinInterval
	}
	s.interval = interval
	s.delay = s.rollDelayLocked()
}

// rollDelayLocked picks a delay in [90%, 100%] of the interval, floored at
// MinInterval.
func (s *Scheduler) rollDelayLocked() time.Duration {
	frac := 0.9 + 0.1*s.jitter()
	d := time.Duration(float64(s.interval) * frac)
	if d < MinInterval {
		d = MinInterval
	}
	return d
}
