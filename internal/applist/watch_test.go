// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package applist

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wingedpig/cpanel/internal/events"
	"github.com/wingedpig/cpanel/internal/watcher"
)

func TestChangeWatcher_BurstCoalesces(t *testing.T) {
	bus := events.NewMemoryEventBus(nil)
	defer bus.Close()

	var published atomic.Int32
	bus.Subscribe(events.EventAppsUpdated, func(ctx context.Context, e events.Event) error {
		assert.Equal(t, "watch", e.Payload["trigger"])
		assert.Equal(t, 7, e.Payload["apps"])
		published.Add(1)
		return nil
	})

	var rebuilds atomic.Int32
	w := newChangeWatcher(func() int {
		rebuilds.Add(1)
		return 7
	}, 50*time.Millisecond, bus, nil)
	defer w.Close()

	for i := 0; i < 25; i++ {
		w.Notify("/apps/x.desktop")
	}
	assert.Equal(t, watcher.Pending, w.State())

	assert.Eventually(t, func() bool { return published.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(1), rebuilds.Load())
	assert.Equal(t, int32(1), published.Load())
	assert.Equal(t, watcher.Idle, w.State())
}

func TestChangeWatcher_ChangeDuringRebuildIsNotLost(t *testing.T) {
	var rebuilds atomic.Int32
	var w *ChangeWatcher
	w = newChangeWatcher(func() int {
		if rebuilds.Add(1) == 1 {
			w.Notify("/apps/late.desktop")
		}
		return 0
	}, 10*time.Millisecond, nil, nil)
	defer w.Close()

	w.Notify("/apps/first.desktop")

	assert.Eventually(t, func() bool { return rebuilds.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestChangeWatcher_CloseDisarms(t *testing.T) {
	var rebuilds atomic.Int32
	w := newChangeWatcher(func() int {
		rebuilds.Add(1)
		return 0
	}, 30*time.Millisecond, nil, nil)

	w.Notify("/apps/x.desktop")
	require.NoError(t, w.Close())
	w.Notify("/apps/y.desktop")

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), rebuilds.Load())
}

func TestChangeWatcher_WatchMissingDir(t *testing.T) {
	w := newChangeWatcher(func() int { return 0 }, 0, nil, nil)
	defer w.Close()

	assert.Error(t, w.watch("/nonexistent/cpanel/applets"))
}
