package server

import (
	"sync"
	"time"

	"github.com/existflow/sheetboard/internal/dashboard"
	"github.com/existflow/sheetboard/internal/watch"
)

const notificationHistory = 20

// notificationEntry is a notification with the time it was raised
type notificationEntry struct {
	dashboard.Notification
	At time.Time `json:"at"`
}

// notificationLog keeps the most recent dashboard notifications for
// clients that poll instead of holding a terminal open
type notificationLog struct {
	mu      sync.Mutex
	limit   int
	entries []notificationEntry
	now     func() time.Time
}

func newNotificationLog(limit int) *notificationLog {
	return &notificationLog{limit: limit, now: time.Now}
}

func (l *notificationLog) Render(dashboard.View) {}

func (l *notificationLog) Alert(watch.AlertState) {}

func (l *notificationLog) Notify(n dashboard.Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, notificationEntry{Notification: n, At: l.now()})
	if over := len(l.entries) - l.limit; over > 0 {
		l.entries = append([]notificationEntry(nil), l.entries[over:]...)
	}
}

// Since returns the entries raised after t, newest last
func (l *notificationLog) Since(t time.Time) []notificationEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := []notificationEntry{}
	for _, e := range l.entries {
		if e.At.After(t) {
			out = append(out, e)
		}
	}
	return out
}
