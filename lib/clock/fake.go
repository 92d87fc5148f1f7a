// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"slices"
	"sync"
	"time"
)

// Fake returns a FakeClock set to initial.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// FakeClock is a deterministic Clock whose timers fire at once. Each
// call to After moves the clock forward by the requested duration
// before the channel is returned, so callers waiting on it observe the
// time they asked to wait for as having passed.
//
// FakeClock is safe for concurrent use, but it models a single waiter:
// two goroutines waiting concurrently both advance the clock.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	waits   []time.Duration
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// After records d, advances the clock by d (when positive), and returns
// a channel that already holds the new time.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.waits = append(c.waits, d)
	if d > 0 {
		c.current = c.current.Add(d)
	}

	channel := make(chan time.Time, 1)
	channel <- c.current
	return channel
}

// Advance moves the clock forward by d without recording a wait. Tests
// use it to simulate time spent inside a blocking call.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Waits returns every duration passed to After, in call order.
func (c *FakeClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.waits)
}

// Elapsed returns the sum of all recorded waits.
func (c *FakeClock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total time.Duration
	for _, wait := range c.waits {
		if wait > 0 {
			total += wait
		}
	}
	return total
}
