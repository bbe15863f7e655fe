// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package applist keeps the live set of control-panel applets and their
// category assignment up to date.
package applist

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/wingedpig/cpanel/internal/applet"
	"github.com/wingedpig/cpanel/internal/category"
	"github.com/wingedpig/cpanel/internal/events"
	"github.com/wingedpig/cpanel/internal/logging"
	"github.com/wingedpig/cpanel/internal/settings"
)

// Options configures a Registry.
type Options struct {
	// Dir is the descriptor directory.
	Dir string

	// Locale is the POSIX locale names are resolved and sorted for. Empty
	// means untranslated names and root collation.
	Locale string

	// Store supplies the category lists. Nil leaves only the fallback.
	Store settings.Store

	// FallbackName overrides the translated fallback category name.
	FallbackName string

	// Debounce is the change-coalescing window. Zero uses the default.
	Debounce time.Duration

	// DisableWatch turns off change-driven rebuilds.
	DisableWatch bool

	// Bus receives applist events. Nil means nobody is notified.
	Bus events.EventBus

	Logger hclog.Logger
}

// Snapshot is one fully built registry state. It is never modified after
// it has been published.
type Snapshot struct {
	// Apps maps plugin id to applet.
	Apps map[string]*applet.Applet
	// Categories holds the catalog in order, each with its sorted members.
	Categories []category.Category
	// Generation counts rebuilds, starting at 1 for the initial scan.
	Generation uint64
	BuiltAt    time.Time
}

// Registry owns the applets found in the descriptor directory.
type Registry struct {
	dir     string
	scanner *applet.Scanner
	catalog *category.Catalog
	order   *category.Order
	bus     events.EventBus
	log     hclog.Logger

	// rebuildMu serializes rebuilds.
	rebuildMu  sync.Mutex
	generation uint64

	mu       sync.RWMutex
	snapshot *Snapshot

	watcher   *ChangeWatcher
	closeOnce sync.Once
}

// New loads the category catalog, scans the descriptor directory and, unless
// disabled, starts watching it. It never fails: problems are logged and the
// registry degrades to what still works.
func New(opts Options) *Registry {
	log := logging.OrNull(opts.Logger).Named("applist")
	tag := applet.LanguageTag(opts.Locale)

	r := &Registry{
		dir:     opts.Dir,
		scanner: applet.NewScanner(opts.Locale),
		order:   category.NewOrder(tag),
		bus:     opts.Bus,
		log:     log,
	}

	r.catalog = category.Load(context.Background(), opts.Store, category.LoadOptions{
		FallbackName: opts.FallbackName,
		Locale:       tag,
		Logger:       log.Named("category"),
	})

	// Arm the watcher before the first scan so nothing installed in between
	// is missed.
	if opts.DisableWatch {
		log.Info("directory watching disabled, rebuilds are manual only", "dir", r.dir)
	} else {
		r.armWatcher(opts.Debounce)
	}

	r.Update()
	if testHookAfterInitialScan != nil {
		testHookAfterInitialScan(r.dir)
	}

	return r
}

// testHookAfterInitialScan runs after New's first rebuild.
var testHookAfterInitialScan func(dir string)

func (r *Registry) armWatcher(debounce time.Duration) {
	cw := newChangeWatcher(func() int {
		return len(r.Update().Apps)
	}, debounce, r.bus, r.log.Named("watcher"))
	if err := cw.watch(r.dir); err != nil {
		cw.Close()
		r.log.Error("failed to watch descriptor directory, rebuilds are manual only", "dir", r.dir, "error", err)
		if r.bus != nil {
			r.bus.Publish(context.Background(), events.Event{
				Type:    events.EventWatchDisabled,
				Payload: map[string]interface{}{"dir": r.dir, "error": err.Error()},
			})
		}
		return
	}
	r.watcher = cw
}

// Dir returns the descriptor directory.
func (r *Registry) Dir() string {
	return r.dir
}

// Locale returns the locale names are resolved for.
func (r *Registry) Locale() string {
	return r.scanner.Locale()
}

// Watching reports whether change-driven rebuilds are active.
func (r *Registry) Watching() bool {
	return r.watcher != nil
}

// Watcher returns the change watcher, or nil when not watching.
func (r *Registry) Watcher() *ChangeWatcher {
	return r.watcher
}

// Update rescans the descriptor directory and replaces the registry
// contents. It does not publish any event. Readers see either the previous
// or the new snapshot, never a partial one.
func (r *Registry) Update() *Snapshot {
	if r == nil {
		panic("applist: Update called on nil Registry")
	}

	r.rebuildMu.Lock()
	defer r.rebuildMu.Unlock()

	start := time.Now()
	scanned, diags := r.scanner.Scan(r.dir)
	r.logDiagnostics(diags)

	apps := make(map[string]*applet.Applet, len(scanned))
	for _, a := range scanned {
		r.log.Trace("read descriptor", "path", a.Path, "name", a.Name, "plugin", a.Plugin,
			"icon", a.Icon, "category", a.Category)
		if prev, ok := apps[a.Plugin]; ok {
			r.log.Debug("duplicate plugin id, later descriptor wins",
				"plugin", a.Plugin, "replaced", prev.Path, "by", a.Path)
		}
		apps[a.Plugin] = a
	}

	r.generation++
	snap := &Snapshot{
		Apps:       apps,
		Categories: r.catalog.Bin(apps, r.order),
		Generation: r.generation,
		BuiltAt:    time.Now(),
	}

	r.mu.Lock()
	r.snapshot = snap
	r.mu.Unlock()

	r.log.Debug("registry rebuilt", "apps", len(apps), "generation", snap.Generation,
		"duration", time.Since(start))
	return snap
}

// Refresh rebuilds like Update and then publishes an updated event with the
// given trigger.
func (r *Registry) Refresh(ctx context.Context, trigger events.UpdateTrigger) *Snapshot {
	snap := r.Update()
	publishUpdated(ctx, r.bus, trigger, len(snap.Apps), r.log)
	return snap
}

func (r *Registry) logDiagnostics(diags []applet.Diagnostic) {
	for _, d := range diags {
		if d.Severity == applet.SeverityError {
			r.log.Warn("skipping descriptor", "path", d.Path, "error", d.Err)
		} else {
			r.log.Debug("descriptor warning", "path", d.Path, "error", d.Err)
		}
	}
}

// Snapshot returns the current state. The result must be treated as
// read-only.
func (r *Registry) Snapshot() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Apps returns a copy of the plugin id to applet mapping.
func (r *Registry) Apps() map[string]*applet.Applet {
	snap := r.Snapshot()
	out := make(map[string]*applet.Applet, len(snap.Apps))
	for id, a := range snap.Apps {
		out[id] = a
	}
	return out
}

// SortedApps returns the applets ordered by plugin id.
func (r *Registry) SortedApps() []*applet.Applet {
	return SortByPlugin(r.Snapshot().Apps)
}

// SortByPlugin flattens a plugin id mapping into a slice ordered by id.
func SortByPlugin(apps map[string]*applet.Applet) []*applet.Applet {
	out := make([]*applet.Applet, 0, len(apps))
	for _, a := range apps {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Plugin < out[j].Plugin
	})
	return out
}

// Categories returns the categories with copies of their member slices.
func (r *Registry) Categories() []category.Category {
	snap := r.Snapshot()
	out := make([]category.Category, len(snap.Categories))
	for i, c := range snap.Categories {
		out[i] = category.Category{
			ID:   c.ID,
			Name: c.Name,
			Apps: append([]*applet.Applet{}, c.Apps...),
		}
	}
	return out
}

// App looks up an applet by plugin id.
func (r *Registry) App(plugin string) (*applet.Applet, bool) {
	a, ok := r.Snapshot().Apps[plugin]
	return a, ok
}

// Close stops watching and disarms any pending rebuild. The registry stays
// readable and can still be updated manually.
func (r *Registry) Close() error {
	if r == nil {
		panic("applist: Close called on nil Registry")
	}
	var err error
	r.closeOnce.Do(func() {
		if r.watcher != nil {
			err = r.watcher.Close()
		}
	})
	return err
}
