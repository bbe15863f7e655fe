// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package watcher turns filesystem notifications into coalesced callbacks.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
	"github.com/wingedpig/cpanel/internal/logging"
)

// DirWatcher reports changes to the entries of a single directory.
type DirWatcher struct {
	dir       string
	watcher   *fsnotify.Watcher
	onChange  func(path string)
	log       hclog.Logger
	closeCh   chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// WatchDir starts watching dir. onChange is called from the watcher's
// goroutine with the path of each changed entry. Permission-only changes are
// ignored.
func WatchDir(dir string, onChange func(path string), log hclog.Logger) (*DirWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		absDir = dir
	}

	if err := fsWatcher.Add(absDir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", absDir, err)
	}

	w := &DirWatcher{
		dir:      absDir,
		watcher:  fsWatcher,
		onChange: onChange,
		log:      logging.OrNull(log),
		closeCh:  make(chan struct{}),
	}

	w.wg.Add(1)
	go w.processEvents()

	return w, nil
}

// Dir returns the absolute path being watched.
func (w *DirWatcher) Dir() string {
	return w.dir
}

// Close stops watching. It is safe to call more than once.
func (w *DirWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

func (w *DirWatcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("fsnotify error", "dir", w.dir, "error", err)
		}
	}
}

func (w *DirWatcher) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	w.log.Trace("directory changed", "path", event.Name, "op", event.Op.String())
	if w.onChange != nil {
		w.onChange(event.Name)
	}
}
