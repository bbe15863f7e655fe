// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/wingedpig/cpanel/internal/api/middleware"
	"github.com/wingedpig/cpanel/internal/applet"
	"github.com/wingedpig/cpanel/internal/applist"
	"github.com/wingedpig/cpanel/internal/category"
	"github.com/wingedpig/cpanel/internal/events"
)

// Registry is the read and refresh surface the handlers need.
type Registry interface {
	Snapshot() *applist.Snapshot
	Refresh(ctx context.Context, trigger events.UpdateTrigger) *applist.Snapshot
	Dir() string
	Locale() string
	Watching() bool
}

// AppHandler serves the applet registry.
type AppHandler struct {
	registry Registry
}

// NewAppHandler creates a new applet handler.
func NewAppHandler(registry Registry) *AppHandler {
	return &AppHandler{registry: registry}
}

// StatusResponse describes the registry state.
type StatusResponse struct {
	Dir        string    `json:"dir"`
	Locale     string    `json:"locale"`
	Watching   bool      `json:"watching"`
	Apps       int       `json:"apps"`
	Categories int       `json:"categories"`
	Generation uint64    `json:"generation"`
	BuiltAt    time.Time `json:"built_at"`
	APIVersion string    `json:"api_version"`
}

// Status returns registry information.
func (h *AppHandler) Status(w http.ResponseWriter, r *http.Request) {
	snap := h.registry.Snapshot()
	WriteJSON(w, http.StatusOK, StatusResponse{
		Dir:        h.registry.Dir(),
		Locale:     h.registry.Locale(),
		Watching:   h.registry.Watching(),
		Apps:       len(snap.Apps),
		Categories: len(snap.Categories),
		Generation: snap.Generation,
		BuiltAt:    snap.BuiltAt,
		APIVersion: middleware.VersionFromContext(r.Context()),
	})
}

// Categories returns every category with its members in display order.
func (h *AppHandler) Categories(w http.ResponseWriter, r *http.Request) {
	snap := h.registry.Snapshot()
	if r.URL.Query().Get("nonempty") == "true" {
		out := make([]category.Category, 0, len(snap.Categories))
		for _, c := range snap.Categories {
			if len(c.Apps) > 0 {
				out = append(out, c)
			}
		}
		WriteSnapshotJSON(w, http.StatusOK, snap.Generation, out)
		return
	}
	WriteSnapshotJSON(w, http.StatusOK, snap.Generation, snap.Categories)
}

// List returns all applets ordered by plugin id.
func (h *AppHandler) List(w http.ResponseWriter, r *http.Request) {
	snap := h.registry.Snapshot()
	WriteSnapshotJSON(w, http.StatusOK, snap.Generation, applist.SortByPlugin(snap.Apps))
}

// Get returns a single applet.
func (h *AppHandler) Get(w http.ResponseWriter, r *http.Request) {
	plugin := mux.Vars(r)["plugin"]

	snap := h.registry.Snapshot()
	a, ok := snap.Apps[plugin]
	if !ok {
		WriteError(w, http.StatusNotFound, ErrNotFound, "applet not found: "+plugin)
		return
	}
	WriteSnapshotJSON(w, http.StatusOK, snap.Generation, appDetail{Applet: a, Category: snap.Categories[categoryIndex(snap, a)].Name})
}

type appDetail struct {
	*applet.Applet
	Category string `json:"category_name"`
}

func categoryIndex(snap *applist.Snapshot, a *applet.Applet) int {
	for i, c := range snap.Categories {
		for _, m := range c.Apps {
			if m == a {
				return i
			}
		}
	}
	return len(snap.Categories) - 1
}

// Update forces a rebuild and notifies observers.
func (h *AppHandler) Update(w http.ResponseWriter, r *http.Request) {
	snap := h.registry.Refresh(r.Context(), events.TriggerManual)
	WriteSnapshotJSON(w, http.StatusOK, snap.Generation, map[string]interface{}{
		"apps":       len(snap.Apps),
		"categories": len(snap.Categories),
	})
}
