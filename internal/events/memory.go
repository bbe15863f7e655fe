// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/wingedpig/cpanel/internal/logging"
)

// ErrBusClosed is returned when operating on a closed bus.
var ErrBusClosed = errors.New("event bus is closed")

// ErrSubscriptionNotFound is returned when unsubscribing with invalid ID.
var ErrSubscriptionNotFound = errors.New("subscription not found")

const defaultAsyncBuffer = 100

// MemoryEventBus is an in-process event bus.
type MemoryEventBus struct {
	mu            sync.RWMutex
	subscriptions map[SubscriptionID]*subscription
	closed        atomic.Bool
	wg            sync.WaitGroup
	log           hclog.Logger
}

type subscription struct {
	id      SubscriptionID
	pattern Pattern
	handler EventHandler
	async   bool
	ch      chan Event
	stopCh  chan struct{}
}

// NewMemoryEventBus creates a new in-memory event bus.
func NewMemoryEventBus(log hclog.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		subscriptions: make(map[SubscriptionID]*subscription),
		log:           logging.OrNull(log),
	}
}

// Publish implements EventBus.
func (bus *MemoryEventBus) Publish(ctx context.Context, event Event) error {
	if bus.closed.Load() {
		return ErrBusClosed
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	bus.mu.RLock()
	subs := make([]*subscription, 0, len(bus.subscriptions))
	for _, sub := range bus.subscriptions {
		subs = append(subs, sub)
	}
	bus.mu.RUnlock()

	for _, sub := range subs {
		if !sub.pattern.Match(event.Type) {
			continue
		}
		if sub.async {
			select {
			case sub.ch <- event:
			default:
				bus.log.Warn("dropped event, async subscriber buffer full", "type", event.Type, "subscription", sub.id)
			}
			continue
		}
		bus.dispatch(ctx, sub, event)
	}

	return nil
}

func (bus *MemoryEventBus) dispatch(ctx context.Context, sub *subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			bus.log.Error("event handler panic", "type", event.Type, "panic", r)
		}
	}()
	if err := sub.handler(ctx, event); err != nil {
		bus.log.Warn("event handler failed", "type", event.Type, "error", err)
	}
}

// Subscribe implements EventBus.
func (bus *MemoryEventBus) Subscribe(pattern string, handler EventHandler) (SubscriptionID, error) {
	return bus.subscribe(pattern, handler, false, 0)
}

// SubscribeAsync implements EventBus.
func (bus *MemoryEventBus) SubscribeAsync(pattern string, handler EventHandler, bufferSize int) (SubscriptionID, error) {
	if bufferSize <= 0 {
		bufferSize = defaultAsyncBuffer
	}
	return bus.subscribe(pattern, handler, true, bufferSize)
}

func (bus *MemoryEventBus) subscribe(pattern string, handler EventHandler, async bool, bufferSize int) (SubscriptionID, error) {
	if handler == nil {
		return "", errors.New("nil event handler")
	}

	compiled, err := CompilePattern(pattern)
	if err != nil {
		return "", err
	}

	sub := &subscription{
		id:      SubscriptionID(uuid.NewString()),
		pattern: compiled,
		handler: handler,
		async:   async,
	}
	if async {
		sub.ch = make(chan Event, bufferSize)
		sub.stopCh = make(chan struct{})
	}

	// Close holds mu while it flips closed, so wg.Add never races its Wait.
	bus.mu.Lock()
	if bus.closed.Load() {
		bus.mu.Unlock()
		return "", ErrBusClosed
	}
	bus.subscriptions[sub.id] = sub
	if async {
		bus.wg.Add(1)
	}
	bus.mu.Unlock()

	if async {
		go func() {
			defer bus.wg.Done()
			for {
				select {
				case <-sub.stopCh:
					return
				case event := <-sub.ch:
					bus.dispatch(context.Background(), sub, event)
				}
			}
		}()
	}

	return sub.id, nil
}

// Unsubscribe implements EventBus.
func (bus *MemoryEventBus) Unsubscribe(id SubscriptionID) error {
	bus.mu.Lock()
	sub, ok := bus.subscriptions[id]
	if !ok {
		bus.mu.Unlock()
		return ErrSubscriptionNotFound
	}
	delete(bus.subscriptions, id)
	bus.mu.Unlock()

	if sub.async {
		close(sub.stopCh)
	}
	return nil
}

// Close implements EventBus.
func (bus *MemoryEventBus) Close() error {
	bus.mu.Lock()
	if bus.closed.Swap(true) {
		bus.mu.Unlock()
		return nil
	}
	for _, sub := range bus.subscriptions {
		if sub.async {
			close(sub.stopCh)
		}
	}
	bus.subscriptions = make(map[SubscriptionID]*subscription)
	bus.mu.Unlock()

	bus.wg.Wait()
	return nil
}
