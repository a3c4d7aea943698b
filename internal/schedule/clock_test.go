package schedule

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2025, 1, 10, 9, 0, 0, 0, time.Local)

func TestManualClock_FiresInOrder(t *testing.T) {
	c := NewManualClock(epoch)
	var got []string
	c.Every(2*time.Second, func() { got = append(got, "two") })
	c.Every(3*time.Second, func() { got = append(got, "three") })

	c.Advance(6 * time.Second)
	assert.Equal(t, []string{"two", "three", "two", "two", "three"}, got)
	assert.Equal(t, epoch.Add(6*time.Second), c.Now())
}

func TestManualClock_StopInsideCallback(t *testing.T) {
	c := NewManualClock(epoch)
	var n int
	var h Handle
	h = c.Every(time.Second, func() {
		n++
		if n == 3 {
			h.Stop()
		}
	})

	c.Advance(10 * time.Second)
	assert.Equal(t, 3, n)
	assert.Zero(t, c.Active())
	assert.NotPanics(t, h.Stop)
}

func TestManualClock_TimerStartedInsideCallback(t *testing.T) {
	c := NewManualClock(epoch)
	var inner int
	var outer Handle
	outer = c.Every(time.Minute, func() {
		outer.Stop()
		c.Every(time.Second, func() { inner++ })
	})

	c.Advance(time.Minute + 5*time.Second)
	assert.Equal(t, 5, inner)
}

func TestRealClock_TicksUntilStopped(t *testing.T) {
	var n atomic.Int32
	h := RealClock{}.Every(5*time.Millisecond, func() { n.Add(1) })

	assert.Eventually(t, func() bool { return n.Load() >= 2 }, time.Second, time.Millisecond)
	h.Stop()
	h.Stop()

	stopped := n.Load()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, n.Load(), stopped+1)
}
