// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package category groups applets into the configured control-panel
// categories.
package category

import (
	"slices"
	"strings"
	"sync"

	"github.com/wingedpig/cpanel/internal/applet"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FallbackID is the id of the always-present last category.
const FallbackID = ""

// Category is a named bucket of applets.
type Category struct {
	ID   string           `json:"id"`
	Name string           `json:"name"`
	Apps []*applet.Applet `json:"apps"`
}

// IsFallback reports whether c is the catch-all category.
func (c Category) IsFallback() bool {
	return c.ID == FallbackID
}

// Order sorts category members by collated display name, then by raw name
// bytes, then by plugin id. The result is a total order.
type Order struct {
	mu  sync.Mutex
	col *collate.Collator
}

// NewOrder creates an Order collating names for tag.
func NewOrder(tag language.Tag) *Order {
	return &Order{col: collate.New(tag)}
}

// Compare returns -1, 0 or +1. Only the same applet compares equal to itself.
func (o *Order) Compare(a, b *applet.Applet) int {
	o.mu.Lock()
	c := o.col.CompareString(a.Name, b.Name)
	o.mu.Unlock()
	if c != 0 {
		return c
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.Plugin, b.Plugin)
}

// Sort orders apps in place.
func (o *Order) Sort(apps []*applet.Applet) {
	slices.SortFunc(apps, o.Compare)
}
