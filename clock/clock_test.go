package clock_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/clock"
)

func TestSystemClockTracksRealTime(t *testing.T) {
	c := clock.NewSystemClock()
	before := time.Now().UTC()
	now := c.Now()
	after := time.Now().UTC()

	assert.False(t, now.Before(before))
	assert.False(t, now.After(after))
	assert.Equal(t, time.UTC, now.Location())
}

func TestSimulatedClockFreeze(t *testing.T) {
	c := clock.NewSimulatedClock()
	fixed := time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC)

	c.Freeze(fixed)
	assert.Equal(t, fixed, c.Now())
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, fixed, c.Now(), "frozen clock must not advance")

	c.Advance(30 * time.Minute)
	assert.Equal(t, fixed.Add(30*time.Minute), c.Now())
}

func TestSimulatedClockSetKeepsAdvancing(t *testing.T) {
	c := clock.NewSimulatedClock()
	base := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)

	c.Set(base)
	first := c.Now()
	time.Sleep(5 * time.Millisecond)
	second := c.Now()

	assert.False(t, first.Before(base))
	assert.True(t, second.After(first), "running override must advance")
}

func TestSimulatedClockClear(t *testing.T) {
	c := clock.NewSimulatedClock()
	c.Freeze(time.Date(1999, time.December, 31, 23, 59, 0, 0, time.UTC))
	assert.True(t, c.Overridden())

	c.Clear()
	assert.False(t, c.Overridden())
	assert.WithinDuration(t, time.Now().UTC(), c.Now(), time.Second)
}

func TestLocalNowDerivesFromSameReading(t *testing.T) {
	c := clock.NewSimulatedClock()
	fixed := time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC)
	c.Freeze(fixed)

	local := c.LocalNow()
	assert.True(t, fixed.Equal(local), "local view must represent the same instant")
}

func TestSimulatedClockConcurrentReaders(t *testing.T) {
	c := clock.NewSimulatedClock()
	c.Freeze(time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				now := c.Now()
				assert.False(t, now.IsZero())
			}
		}()
	}
	for i := 0; i < 100; i++ {
		c.Advance(time.Minute)
	}
	wg.Wait()
}
