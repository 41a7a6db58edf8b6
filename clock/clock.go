// clock/clock.go

// Package clock supplies "now" to the rest of the system. Every component
// reads time through the Clock interface so that demonstrations and tests
// can freeze or fast-forward time without touching the decision logic.
package clock

import (
	"sync/atomic"
	"time"
)

type Clock interface {
	// Now returns the current instant in UTC.
	Now() time.Time
	// LocalNow returns the current instant in the process's local zone,
	// derived from the same reading as Now.
	LocalNow() time.Time
}

// SystemClock reads the operating system clock.
type SystemClock struct{}

func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

func (c *SystemClock) Now() time.Time {
	return time.Now().UTC()
}

func (c *SystemClock) LocalNow() time.Time {
	return time.Now()
}

// override is an immutable snapshot; Now derives both views from a single
// atomic load so concurrent readers never observe a torn override.
type override struct {
	base   time.Time // simulated instant at anchor
	anchor time.Time // real instant the override was installed
	frozen bool
}

// SimulatedClock behaves like SystemClock until an operator installs an
// override. An override either freezes time at a fixed instant or shifts
// it to a simulated base from which it keeps advancing at real rate.
type SimulatedClock struct {
	ov atomic.Pointer[override]
}

func NewSimulatedClock() *SimulatedClock {
	return &SimulatedClock{}
}

func (c *SimulatedClock) Now() time.Time {
	o := c.ov.Load()
	if o == nil {
		return time.Now().UTC()
	}
	if o.frozen {
		return o.base
	}
	return o.base.Add(time.Since(o.anchor))
}

func (c *SimulatedClock) LocalNow() time.Time {
	return c.Now().Local()
}

// Set shifts the clock so that the current simulated instant is t; time
// continues to advance from there.
func (c *SimulatedClock) Set(t time.Time) {
	c.ov.Store(&override{base: t.UTC(), anchor: time.Now()})
}

// Freeze pins the clock at t until Set, Advance or Clear is called.
func (c *SimulatedClock) Freeze(t time.Time) {
	c.ov.Store(&override{base: t.UTC(), frozen: true})
}

// Advance moves the simulated instant forward by d, preserving the
// frozen/running mode of the current override.
func (c *SimulatedClock) Advance(d time.Duration) {
	o := c.ov.Load()
	if o == nil {
		c.Set(time.Now().UTC().Add(d))
		return
	}
	if o.frozen {
		c.ov.Store(&override{base: o.base.Add(d), frozen: true})
		return
	}
	c.ov.Store(&override{base: o.base.Add(d), anchor: o.anchor})
}

// Clear removes the override; the clock reverts to system time.
func (c *SimulatedClock) Clear() {
	c.ov.Store(nil)
}

// Overridden reports whether simulated time is currently in effect.
func (c *SimulatedClock) Overridden() bool {
	return c.ov.Load() != nil
}
