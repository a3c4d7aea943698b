// Package watch raises a single alert when a to-do item is about to start.
package watch

import (
	"sync"
	"time"

	"github.com/existflow/sheetboard/internal/logger"
	"github.com/existflow/sheetboard/internal/model"
	"github.com/existflow/sheetboard/internal/schedule"
)

const (
	// Horizon is how far ahead an item counts as starting soon.
	Horizon = 30 * time.Minute
	// Countdown is how long an alert stays open unless dismissed.
	Countdown = 300 * time.Second
	// TickEvery is the countdown resolution.
	TickEvery = time.Second
)

// State of the watcher
type State int

const (
	Idle State = iota
	Alerting
)

func (s State) String() string {
	if s == Alerting {
		return "alerting"
	}
	return "idle"
}

// AlertState is what observers see on open, on every tick and on close.
type AlertState struct {
	Active    bool             `json:"active"`
	Remaining time.Duration    `json:"remaining"`
	Items     []model.TodoItem `json:"items,omitempty"`
}

// IsUrgent reports whether todo starts within Horizon of now and has not
// started yet. Both ends of the window are inclusive.
func IsUrgent(todo model.TodoItem, now time.Time) bool {
	start, ok := todo.StartsAt()
	if !ok {
		return false
	}
	diff := start.Sub(now)
	return diff >= 0 && diff <= Horizon
}

// Urgent returns the items of todos that are urgent at now.
func Urgent(todos []model.TodoItem, now time.Time) []model.TodoItem {
	var out []model.TodoItem
	for _, t := range todos {
		if IsUrgent(t, now) {
			out = append(out, t)
		}
	}
	return out
}

// Watcher is the Idle/Alerting state machine. Only one alert is open at a
// time; scans while Alerting do nothing. There is no per-item memory, so an
// item still inside the window reopens the alert on the first scan after
// it closes.
type Watcher struct {
	clock schedule.Clock

	mu        sync.Mutex
	state     State
	gen       int
	remaining time.Duration
	items     []model.TodoItem
	ticker    schedule.Handle
	observers []func(AlertState)
}

// New creates an idle watcher driven by clock
func New(clock schedule.Clock) *Watcher {
	return &Watcher{clock: clock}
}

// Subscribe registers fn to receive every alert state change
func (w *Watcher) Subscribe(fn func(AlertState)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.observers = append(w.observers, fn)
}

// State returns the current state
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Snapshot returns the current alert
func (w *Watcher) Snapshot() AlertState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// Scan opens the alert if any of todayTodos is urgent and the watcher is
// idle. It reports whether an alert was opened.
func (w *Watcher) Scan(todayTodos []model.TodoItem, now time.Time) bool {
	urgent := Urgent(todayTodos, now)

	w.mu.Lock()
	if len(urgent) == 0 || w.state == Alerting {
		w.mu.Unlock()
		return false
	}

	w.state = Alerting
	w.gen++
	gen := w.gen
	w.remaining = Countdown
	w.items = urgent
	w.ticker = w.clock.Every(TickEvery, func() { w.tick(gen) })
	state := w.snapshotLocked()
	observers := w.observers
	w.mu.Unlock()

	logger.Info("Upcoming to-do alert opened", logger.F("items", len(urgent)))
	notify(observers, state)
	return true
}

// Dismiss closes an open alert and cancels its countdown
func (w *Watcher) Dismiss() {
	w.mu.Lock()
	if w.state != Alerting {
		w.mu.Unlock()
		return
	}
	state, observers := w.closeLocked()
	w.mu.Unlock()

	logger.Debug("Alert dismissed")
	notify(observers, state)
}

func (w *Watcher) tick(gen int) {
	w.mu.Lock()
	if w.state != Alerting || gen != w.gen {
		w.mu.Unlock()
		return
	}

	w.remaining -= TickEvery
	var state AlertState
	if w.remaining <= 0 {
		state, _ = w.closeLocked()
		logger.Debug("Alert closed after countdown")
	} else {
		state = w.snapshotLocked()
	}
	observers := w.observers
	w.mu.Unlock()

	notify(observers, state)
}

func (w *Watcher) closeLocked() (AlertState, []func(AlertState)) {
	if w.ticker != nil {
		w.ticker.Stop()
		w.ticker = nil
	}
	w.state = Idle
	w.remaining = 0
	w.items = nil
	return w.snapshotLocked(), w.observers
}

func (w *Watcher) snapshotLocked() AlertState {
	s := AlertState{Active: w.state == Alerting, Remaining: w.remaining}
	if len(w.items) > 0 {
		s.Items = append([]model.TodoItem(nil), w.items...)
	}
	return s
}

func notify(observers []func(AlertState), s AlertState) {
	for _, fn := range observers {
		fn(s)
	}
}
