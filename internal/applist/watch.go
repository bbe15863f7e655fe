// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package applist

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/wingedpig/cpanel/internal/events"
	"github.com/wingedpig/cpanel/internal/logging"
	"github.com/wingedpig/cpanel/internal/watcher"
)

// ChangeWatcher rebuilds the registry after bursts of directory changes and
// tells observers once per rebuild.
type ChangeWatcher struct {
	coalescer *watcher.Coalescer
	dir       *watcher.DirWatcher
	rebuild   func() int
	bus       events.EventBus
	log       hclog.Logger
}

func newChangeWatcher(rebuild func() int, delay time.Duration, bus events.EventBus, log hclog.Logger) *ChangeWatcher {
	w := &ChangeWatcher{
		rebuild: rebuild,
		bus:     bus,
		log:     logging.OrNull(log),
	}
	w.coalescer = watcher.NewCoalescer(delay, w.run)
	return w
}

func (w *ChangeWatcher) watch(dir string) error {
	dw, err := watcher.WatchDir(dir, w.Notify, w.log)
	if err != nil {
		return err
	}
	w.dir = dw
	w.log.Info("watching descriptor directory", "dir", dw.Dir(), "debounce", w.coalescer.Delay())
	return nil
}

// Notify records a change to path. The first change of a burst schedules a
// rebuild; the rest are absorbed until it runs.
func (w *ChangeWatcher) Notify(path string) {
	if w.coalescer.Trigger() {
		w.log.Debug("change detected, rebuild scheduled", "path", path)
	}
}

// State returns whether a rebuild is pending.
func (w *ChangeWatcher) State() watcher.State {
	return w.coalescer.State()
}

func (w *ChangeWatcher) run() {
	n := w.rebuild()
	publishUpdated(context.Background(), w.bus, events.TriggerWatch, n, w.log)
}

// Close stops the directory watch and disarms a pending rebuild.
func (w *ChangeWatcher) Close() error {
	var err error
	if w.dir != nil {
		err = w.dir.Close()
	}
	w.coalescer.Stop()
	return err
}

func publishUpdated(ctx context.Context, bus events.EventBus, trigger events.UpdateTrigger, apps int, log hclog.Logger) {
	if bus == nil {
		return
	}
	err := bus.Publish(ctx, events.Event{
		Type: events.EventAppsUpdated,
		Payload: map[string]interface{}{
			"trigger": string(trigger),
			"apps":    apps,
		},
	})
	if err != nil {
		log.Warn("failed to publish update", "error", err)
	}
}
