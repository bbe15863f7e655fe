// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package watcher

import (
	"sync"
	"time"
)

const defaultDelay = 500 * time.Millisecond

// State is the coalescer's scheduling state.
type State int

const (
	// Idle means no action is scheduled.
	Idle State = iota
	// Pending means the action will run when the timer fires.
	Pending
)

func (s State) String() string {
	if s == Pending {
		return "pending"
	}
	return "idle"
}

// Coalescer runs an action once per burst of triggers. The first trigger
// arms a timer; triggers that arrive while it is armed are dropped, and the
// timer is never pushed back.
type Coalescer struct {
	mu      sync.Mutex
	delay   time.Duration
	action  func()
	state   State
	timer   *time.Timer
	stopped bool
	running sync.WaitGroup
}

// NewCoalescer creates a coalescer that runs action delay after the first
// trigger of a burst. A non-positive delay uses the 500ms default.
func NewCoalescer(delay time.Duration, action func()) *Coalescer {
	if delay <= 0 {
		delay = defaultDelay
	}
	return &Coalescer{
		delay:  delay,
		action: action,
	}
}

// Trigger schedules the action unless it is already pending. It reports
// whether this call armed the timer.
func (c *Coalescer) Trigger() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped || c.state == Pending {
		return false
	}

	c.state = Pending
	c.running.Add(1)
	c.timer = time.AfterFunc(c.delay, c.fire)
	return true
}

func (c *Coalescer) fire() {
	defer c.running.Done()

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	// Back to idle before running so a change made during the action
	// schedules another run.
	c.state = Idle
	c.timer = nil
	c.mu.Unlock()

	c.action()
}

// State returns the current scheduling state.
func (c *Coalescer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Delay returns the coalescing window.
func (c *Coalescer) Delay() time.Duration {
	return c.delay
}

// Stop disarms a pending timer and ignores later triggers. It waits for an
// action that is already running to return, so it must not be called from
// inside the action.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	c.stopped = true
	if c.timer != nil && c.timer.Stop() {
		// The callback will never run, so balance its Add here.
		c.running.Done()
	}
	c.timer = nil
	c.state = Idle
	c.mu.Unlock()

	c.running.Wait()
}
