// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package watcher

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCoalescer_Basic(t *testing.T) {
	var callCount atomic.Int32

	c := NewCoalescer(50*time.Millisecond, func() {
		callCount.Add(1)
	})

	assert.Equal(t, Idle, c.State())
	assert.True(t, c.Trigger())
	assert.Equal(t, Pending, c.State())

	// Wait for the timer to fire
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(1), callCount.Load())
	assert.Equal(t, Idle, c.State())
}

func TestCoalescer_BurstRunsOnce(t *testing.T) {
	var callCount atomic.Int32

	c := NewCoalescer(80*time.Millisecond, func() {
		callCount.Add(1)
	})

	assert.True(t, c.Trigger())
	for i := 0; i < 10; i++ {
		assert.False(t, c.Trigger(), "trigger %d should coalesce", i)
	}

	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, int32(1), callCount.Load())
}

func TestCoalescer_TimerNotReset(t *testing.T) {
	var firedAt atomic.Int64

	start := time.Now()
	c := NewCoalescer(60*time.Millisecond, func() {
		firedAt.Store(int64(time.Since(start)))
	})

	// Keep triggering past the window; the first trigger still decides.
	c.Trigger()
	for i := 0; i < 5; i++ {
		time.Sleep(10 * time.Millisecond)
		c.Trigger()
	}

	assert.Eventually(t, func() bool { return firedAt.Load() != 0 }, time.Second, 5*time.Millisecond)
	assert.Less(t, time.Duration(firedAt.Load()), 100*time.Millisecond)
}

func TestCoalescer_SeparateBursts(t *testing.T) {
	var callCount atomic.Int32

	c := NewCoalescer(30*time.Millisecond, func() {
		callCount.Add(1)
	})

	c.Trigger()
	time.Sleep(80 * time.Millisecond)
	c.Trigger()
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, int32(2), callCount.Load())
}

func TestCoalescer_TriggerDuringActionSchedulesAgain(t *testing.T) {
	var callCount atomic.Int32
	var c *Coalescer

	c = NewCoalescer(20*time.Millisecond, func() {
		if callCount.Add(1) == 1 {
			// A change that lands mid-action must not be lost.
			assert.True(t, c.Trigger())
		}
	})

	c.Trigger()

	assert.Eventually(t, func() bool { return callCount.Load() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), callCount.Load())
}

func TestCoalescer_Stop(t *testing.T) {
	var callCount atomic.Int32

	c := NewCoalescer(50*time.Millisecond, func() {
		callCount.Add(1)
	})

	c.Trigger()
	c.Stop()

	assert.Equal(t, Idle, c.State())
	assert.False(t, c.Trigger(), "stopped coalescer ignores triggers")

	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(0), callCount.Load())
}

func TestCoalescer_StopWaitsForRunningAction(t *testing.T) {
	var finished atomic.Bool
	started := make(chan struct{})

	c := NewCoalescer(10*time.Millisecond, func() {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
	})

	c.Trigger()
	<-started
	c.Stop()

	assert.True(t, finished.Load())
}

func TestCoalescer_StopIdle(t *testing.T) {
	c := NewCoalescer(10*time.Millisecond, func() {})

	// Should not block or panic
	c.Stop()
	c.Stop()
}

func TestCoalescer_DefaultDelay(t *testing.T) {
	assert.Equal(t, defaultDelay, NewCoalescer(0, func() {}).Delay())
	assert.Equal(t, defaultDelay, NewCoalescer(-time.Second, func() {}).Delay())
	assert.Equal(t, time.Second, NewCoalescer(time.Second, func() {}).Delay())
}

func TestCoalescer_Concurrency(t *testing.T) {
	var callCount atomic.Int32

	c := NewCoalescer(50*time.Millisecond, func() {
		callCount.Add(1)
	})
	done := make(chan bool, 100)

	for i := 0; i < 100; i++ {
		go func() {
			c.Trigger()
			done <- true
		}()
	}
	for i := 0; i < 100; i++ {
		<-done
	}

	time.Sleep(120 * time.Millisecond)

	assert.Equal(t, int32(1), callCount.Load())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "pending", Pending.String())
}
