package schedule

import (
	"sync"
	"time"

	"github.com/existflow/sheetboard/internal/logger"
)

const (
	// RefreshEvery is the fixed data refresh period.
	RefreshEvery = 5 * time.Minute
	// ScanEvery is the urgency scan period.
	ScanEvery = time.Minute
)

// Poller owns the three dashboard timers: a fixed refresh, a configurable
// refresh and the urgency scan. The two refresh timers are independent and
// may trigger overlapping refreshes.
type Poller struct {
	clock   Clock
	refresh func()
	scan    func()

	mu      sync.Mutex
	fixed   Handle
	custom  Handle
	scanner Handle
	minutes int
	running bool
}

// NewPoller creates a stopped poller
func NewPoller(clock Clock, refresh, scan func()) *Poller {
	return &Poller{clock: clock, refresh: refresh, scan: scan}
}

// Start arms all timers. minutes is the configurable refresh interval;
// values <= 0 leave that timer off. Calling Start on a running poller
// restarts it.
func (p *Poller) Start(minutes int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	p.fixed = p.clock.Every(RefreshEvery, p.refresh)
	p.scanner = p.clock.Every(ScanEvery, p.scan)
	p.minutes = minutes
	p.startCustomLocked()
	p.running = true

	logger.Debug("Poller started", logger.F("interval_min", minutes))
}

// Stop cancels all timers
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Reconfigure restarts only the configurable refresh timer
func (p *Poller) Reconfigure(minutes int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.minutes = minutes
	if !p.running {
		return
	}
	if p.custom != nil {
		p.custom.Stop()
		p.custom = nil
	}
	p.startCustomLocked()

	logger.Info("Refresh interval changed", logger.F("interval_min", minutes))
}

// Interval returns the configured refresh interval in minutes
func (p *Poller) Interval() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.minutes
}

// Running reports whether Start has been called without a matching Stop
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Poller) startCustomLocked() {
	if p.minutes <= 0 {
		return
	}
	p.custom = p.clock.Every(time.Duration(p.minutes)*time.Minute, p.refresh)
}

func (p *Poller) stopLocked() {
	for _, h := range []Handle{p.fixed, p.custom, p.scanner} {
		if h != nil {
			h.Stop()
		}
	}
	p.fixed, p.custom, p.scanner = nil, nil, nil
	p.running = false
}
