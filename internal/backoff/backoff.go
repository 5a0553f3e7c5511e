// Package backoff keeps the per-target polling interval. A quiet target is
// checked less and less often until it reaches Max; a recovered target starts
// again from Min.
package backoff

import (
	"sync"
	"time"
)

const (
	DefaultMin = 60 * time.Second
	DefaultMax = 600 * time.Second
)

// State is the backoff bookkeeping for one target.
type State struct {
	Interval  time.Duration `json:"interval"`
	NextCheck time.Time     `json:"next_check"`
}

// Tracker is safe for concurrent use. It never calls out while holding its lock.
type Tracker struct {
	min, max time.Duration
	now      func() time.Time

	mu     sync.Mutex
	states map[string]*State
}

func NewTracker(min, max time.Duration) *Tracker {
	if min <= 0 {
		min = DefaultMin
	}
	if max < min {
		max = min
	}
	return &Tracker{
		min:    min,
		max:    max,
		now:    time.Now,
		states: make(map[string]*State),
	}
}

// WithClock replaces the time source. Used by tests.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

func (t *Tracker) Min() time.Duration { return t.min }
func (t *Tracker) Max() time.Duration { return t.max }

// ShouldCheck reports whether name is due. A name seen for the first time
// starts at Min and is due immediately.
func (t *Tracker) ShouldCheck(name string) bool {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.states[name]
	if !ok {
		t.states[name] = &State{Interval: t.min, NextCheck: now}
		return true
	}
	return !now.Before(st.NextCheck)
}

// Reset puts name back to Min and makes it due now.
func (t *Tracker) Reset(name string) {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[name] = &State{Interval: t.min, NextCheck: now}
}

// Increase doubles the interval for name, capped at Max, and pushes the next
// check out by the new interval. It returns the new interval.
func (t *Tracker) Increase(name string) time.Duration {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.states[name]
	if !ok {
		st = &State{Interval: t.min}
		t.states[name] = st
	}
	next := st.Interval * 2
	if next > t.max || next <= 0 {
		next = t.max
	}
	st.Interval = next
	st.NextCheck = now.Add(next)
	return next
}

// Interval returns the current interval for name, or Min if it was never seen.
func (t *Tracker) Interval(name string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if st, ok := t.states[name]; ok {
		return st.Interval
	}
	return t.min
}

// Snapshot copies the state of every known target.
func (t *Tracker) Snapshot() map[string]State {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]State, len(t.states))
	for k, v := range t.states {
		out[k] = *v
	}
	return out
}
