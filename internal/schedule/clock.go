// Package schedule drives the periodic refresh and urgency-scan timers.
package schedule

import (
	"sort"
	"sync"
	"time"
)

// Handle cancels a repeating timer.
type Handle interface {
	Stop()
}

// Clock is the time source the dashboard runs on. Every calls fn every d
// until the returned handle is stopped.
type Clock interface {
	Now() time.Time
	Every(d time.Duration, fn func()) Handle
}

// RealClock runs each repeating timer on its own goroutine.
type RealClock struct{}

// Now returns the current local time
func (RealClock) Now() time.Time {
	return time.Now()
}

// Every starts a ticker goroutine
func (RealClock) Every(d time.Duration, fn func()) Handle {
	t := &realTicker{stopCh: make(chan struct{})}
	go t.loop(d, fn)
	return t
}

type realTicker struct {
	once   sync.Once
	stopCh chan struct{}
}

func (t *realTicker) loop(d time.Duration, fn func()) {
	ticker := time.NewTicker(d)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fn()
		case <-t.stopCh:
			return
		}
	}
}

func (t *realTicker) Stop() {
	t.once.Do(func() { close(t.stopCh) })
}

// ManualClock is a virtual clock for tests. Time only moves on Advance,
// which fires due callbacks synchronously in time order.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	seq     int
	tickers []*manualTicker
}

type manualTicker struct {
	clock    *ManualClock
	seq      int
	interval time.Duration
	next     time.Time
	fn       func()
	stopped  bool
}

// NewManualClock returns a clock frozen at start
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the virtual time
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock without firing any timers
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Every registers a repeating callback first due one interval from now
func (c *ManualClock) Every(d time.Duration, fn func()) Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &manualTicker{clock: c, seq: c.seq, interval: d, next: c.now.Add(d), fn: fn}
	c.tickers = append(c.tickers, t)
	return t
}

// Active returns the number of running timers
func (c *ManualClock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

// Advance moves time forward by d, firing every callback that falls due.
// Callbacks may start or stop timers.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		t := c.nextDue(target)
		if t == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = t.next
		t.next = t.next.Add(t.interval)
		fn := t.fn
		c.mu.Unlock()

		fn()
	}
}

// nextDue returns the earliest ticker due at or before target. Ties fire
// in registration order.
func (c *ManualClock) nextDue(target time.Time) *manualTicker {
	due := make([]*manualTicker, 0, len(c.tickers))
	for _, t := range c.tickers {
		if !t.next.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].next.Equal(due[j].next) {
			return due[i].next.Before(due[j].next)
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

func (t *manualTicker) Stop() {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.stopped {
		return
	}
	t.stopped = true
	for i, other := range c.tickers {
		if other == t {
			c.tickers = append(c.tickers[:i], c.tickers[i+1:]...)
			return
		}
	}
}
