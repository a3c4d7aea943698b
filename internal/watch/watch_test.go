package watch

import (
	"testing"
	"time"

	"github.com/existflow/sheetboard/internal/datetime"
	"github.com/existflow/sheetboard/internal/model"
	"github.com/existflow/sheetboard/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 1, 10, 0, 0, 0, 0, time.Local)

func at(hour, minute int) model.TodoItem {
	d := today
	return model.TodoItem{Content: "meeting", DateObj: &d, TimeObj: &datetime.TimeOfDay{Hour: hour, Minute: minute}}
}

func TestIsUrgent_Boundaries(t *testing.T) {
	item := at(12, 0)
	start := today.Add(12 * time.Hour)

	assert.True(t, IsUrgent(item, start), "diff = 0")
	assert.True(t, IsUrgent(item, start.Add(-30*time.Minute)), "diff = 30m")
	assert.False(t, IsUrgent(item, start.Add(-30*time.Minute-600*time.Millisecond)), "diff = 30.01m")
	assert.False(t, IsUrgent(item, start.Add(600*time.Millisecond)), "diff = -0.01m")
}

func TestIsUrgent_NeedsDateAndTime(t *testing.T) {
	now := today.Add(11*time.Hour + 50*time.Minute)
	item := at(12, 0)
	item.TimeObj = nil
	assert.False(t, IsUrgent(item, now))

	item = at(12, 0)
	item.DateObj = nil
	assert.False(t, IsUrgent(item, now))
}

func TestScan_LateEveningItemOpensAlert(t *testing.T) {
	now := today.Add(23*time.Hour + 35*time.Minute)
	clock := schedule.NewManualClock(now)
	w := New(clock)

	item := at(23, 59)
	require.True(t, IsUrgent(item, now))
	assert.True(t, w.Scan([]model.TodoItem{item}, now))
	assert.Equal(t, Alerting, w.State())
	assert.Equal(t, Countdown, w.Snapshot().Remaining)
	assert.Len(t, w.Snapshot().Items, 1)
}

func TestScan_NoUrgentItemsStaysIdle(t *testing.T) {
	now := today.Add(9 * time.Hour)
	w := New(schedule.NewManualClock(now))

	assert.False(t, w.Scan([]model.TodoItem{at(11, 0), at(8, 0)}, now))
	assert.Equal(t, Idle, w.State())
}

func TestScan_NoReentryWhileAlerting(t *testing.T) {
	now := today.Add(9 * time.Hour)
	clock := schedule.NewManualClock(now)
	w := New(clock)

	var opens int
	w.Subscribe(func(s AlertState) {
		if s.Active && s.Remaining == Countdown {
			opens++
		}
	})

	todos := []model.TodoItem{at(9, 20)}
	assert.True(t, w.Scan(todos, now))
	clock.Advance(time.Minute)
	assert.False(t, w.Scan(todos, clock.Now()))
	assert.Equal(t, 1, opens)
	assert.Equal(t, 1, clock.Active())
}

func TestCountdown_AutoCloses(t *testing.T) {
	now := today.Add(9 * time.Hour)
	clock := schedule.NewManualClock(now)
	w := New(clock)

	var states []AlertState
	w.Subscribe(func(s AlertState) { states = append(states, s) })

	w.Scan([]model.TodoItem{at(9, 10)}, now)
	clock.Advance(Countdown - time.Second)
	assert.Equal(t, Alerting, w.State())
	assert.Equal(t, time.Second, w.Snapshot().Remaining)

	clock.Advance(time.Second)
	assert.Equal(t, Idle, w.State())
	assert.Zero(t, clock.Active())

	require.Len(t, states, 301)
	assert.True(t, states[0].Active)
	assert.False(t, states[300].Active)
}

func TestDismiss_CancelsCountdownAndAllowsReopen(t *testing.T) {
	now := today.Add(9 * time.Hour)
	clock := schedule.NewManualClock(now)
	w := New(clock)
	todos := []model.TodoItem{at(9, 15)}

	w.Scan(todos, now)
	clock.Advance(10 * time.Second)
	w.Dismiss()
	assert.Equal(t, Idle, w.State())
	assert.Zero(t, clock.Active())

	w.Dismiss()
	assert.Equal(t, Idle, w.State())

	assert.True(t, w.Scan(todos, clock.Now()), "item still in window reopens the alert")
}
