// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import "time"

// Applet is one installed control-panel applet.
type Applet struct {
	// Name is the display name resolved for the server's locale.
	Name string `json:"name"`

	// Plugin is the unique plugin id.
	Plugin string `json:"plugin"`

	// Icon is an icon name or path; empty when the descriptor has none.
	Icon string `json:"icon,omitempty"`

	// Category is the category id from the descriptor, which may not name
	// a configured category.
	Category string `json:"category,omitempty"`

	// Path is the descriptor file the applet was read from.
	Path string `json:"path,omitempty"`
}

// AppletDetail is an applet together with the category it was placed in.
type AppletDetail struct {
	Applet

	// CategoryName is the display name of the category holding the applet.
	CategoryName string `json:"category_name"`
}

// Category is a named group of applets. The fallback category has an empty
// ID and is always last.
type Category struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Apps []*Applet `json:"apps"`
}

// IsFallback reports whether c is the catch-all category.
func (c Category) IsFallback() bool {
	return c.ID == ""
}

// Status describes the server's registry.
type Status struct {
	Dir        string    `json:"dir"`
	Locale     string    `json:"locale"`
	Watching   bool      `json:"watching"`
	Apps       int       `json:"apps"`
	Categories int       `json:"categories"`
	Generation uint64    `json:"generation"`
	BuiltAt    time.Time `json:"built_at"`
	APIVersion string    `json:"api_version"`
}

// UpdateResult reports the outcome of a forced rescan.
type UpdateResult struct {
	Apps       int    `json:"apps"`
	Categories int    `json:"categories"`
	Generation uint64 `json:"-"`
}

// Event is a notification streamed from the server.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}
