// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package events fans control-panel notifications out to observers.
package events

import (
	"context"
	"time"
)

// Event is an immutable notification.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// EventHandler processes received events.
type EventHandler func(ctx context.Context, event Event) error

// SubscriptionID uniquely identifies a subscription.
type SubscriptionID string

// EventBus delivers events to registered observers.
type EventBus interface {
	// Publish delivers an event to every matching subscriber. Synchronous
	// handlers have run by the time it returns.
	Publish(ctx context.Context, event Event) error

	// Subscribe registers a synchronous handler for events matching pattern.
	Subscribe(pattern string, handler EventHandler) (SubscriptionID, error)

	// SubscribeAsync registers a handler fed through a buffered channel.
	SubscribeAsync(pattern string, handler EventHandler, bufferSize int) (SubscriptionID, error)

	// Unsubscribe removes a subscription.
	Unsubscribe(id SubscriptionID) error

	// Close shuts down the bus and all async handlers.
	Close() error
}

// Event types
const (
	// EventAppsUpdated fires once per completed registry rebuild that
	// observers should pick up.
	EventAppsUpdated = "applist.updated"

	// EventWatchDisabled fires when directory watching could not start.
	EventWatchDisabled = "applist.watch_disabled"
)

// UpdateTrigger says what caused a rebuild.
type UpdateTrigger string

const (
	TriggerWatch  UpdateTrigger = "watch"
	TriggerManual UpdateTrigger = "manual"
)
