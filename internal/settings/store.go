// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package settings provides read access to the persisted key-value store
// holding control-panel category configuration.
package settings

import (
	"context"
	"errors"
	"fmt"
)

// Keys holding the configured category lists. Both lists are ordered and
// paired by position.
const (
	GroupIDsKey   = "controlpanel/group_ids"
	GroupNamesKey = "controlpanel/group_names"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("setting not found")

// ErrTypeMismatch is returned when a key holds something other than the
// requested type.
var ErrTypeMismatch = errors.New("setting has wrong type")

// Store is a read-only view of the settings store.
type Store interface {
	// GetStringList returns the string list stored under key.
	GetStringList(ctx context.Context, key string) ([]string, error)

	// Close releases the store.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open opens the store for the named backend.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendFile, "":
		s, err := OpenFile(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown settings backend %q", backend)
	}
}
