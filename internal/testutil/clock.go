package testutil

import (
	"sync"
	"time"

	"github.com/roach88/tempus/internal/period"
)

// DeterministicClock is a thread-safe clock for tests that advances by a
// fixed step on every call.
//
// It can stand in for time.Now wherever a component accepts a clock
// function, so the same scenario yields identical timestamps on every run.
type DeterministicClock struct {
	mu    sync.Mutex
	start period.Timestamp
	step  time.Duration
	ticks int64
}

// NewDeterministicClock creates a clock whose first reading is start.
func NewDeterministicClock(start period.Timestamp, step time.Duration) *DeterministicClock {
	return &DeterministicClock{start: start, step: step}
}

// Next returns the current reading and advances the clock by one step.
func (c *DeterministicClock) Next() period.Timestamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.ticks) * c.step)
	c.ticks++
	return t
}

// Now is Next as a time.Time, usable as a func() time.Time.
func (c *DeterministicClock) Now() time.Time {
	return c.Next().Time()
}

// Ticks returns how many readings have been taken.
func (c *DeterministicClock) Ticks() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

// Reset rewinds the clock so the next reading is start again.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = 0
}
