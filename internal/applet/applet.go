// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package applet discovers control-panel applet descriptors on disk.
package applet

// Desktop entry group and keys recognized in a descriptor file.
const (
	DesktopGroup = "Desktop Entry"
	KeyName      = "Name"
	KeyPlugin    = "X-control-panel-plugin"
	KeyIcon      = "Icon"
	KeyCategory  = "X-control-panel-category"
)

// Applet is one discovered control-panel entry.
type Applet struct {
	Name     string `json:"name"`               // Display name for the scan locale
	Plugin   string `json:"plugin"`             // Launch target, unique per registry
	Icon     string `json:"icon,omitempty"`     // Opaque icon reference
	Category string `json:"category,omitempty"` // Configured category id, may not resolve
	Path     string `json:"path,omitempty"`     // Descriptor file it was read from
}
