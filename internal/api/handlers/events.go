// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
	"github.com/wingedpig/cpanel/internal/events"
	"github.com/wingedpig/cpanel/internal/logging"
)

const (
	pingInterval = 54 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
	eventBuffer  = 100
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// EventHandler streams bus events to websocket clients.
type EventHandler struct {
	bus events.EventBus
	log hclog.Logger

	pingInterval time.Duration
	pongWait     time.Duration
}

// NewEventHandler creates a new event handler.
func NewEventHandler(bus events.EventBus, log hclog.Logger) *EventHandler {
	return &EventHandler{
		bus:          bus,
		log:          logging.OrNull(log),
		pingInterval: pingInterval,
		pongWait:     pongWait,
	}
}

// WebSocket handles the WebSocket connection for real-time events.
// The optional pattern query parameter filters event types; it defaults to
// all applist events.
func (h *EventHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	pattern := r.URL.Query().Get("pattern")
	if pattern == "" {
		pattern = "applist.*"
	}
	if _, err := events.CompilePattern(pattern); err != nil {
		WriteError(w, http.StatusBadRequest, ErrBadRequest, err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	eventCh := make(chan events.Event, eventBuffer)
	done := make(chan struct{})

	subID, err := h.bus.SubscribeAsync(pattern, func(_ context.Context, event events.Event) error {
		select {
		case eventCh <- event:
		case <-done:
		default:
			// Drop if buffer full
		}
		return nil
	}, eventBuffer)
	if err != nil {
		conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}
	defer h.bus.Unsubscribe(subID)

	h.log.Debug("websocket client connected", "remote", r.RemoteAddr, "pattern", pattern)
	defer h.log.Debug("websocket client disconnected", "remote", r.RemoteAddr)

	// A peer that stops answering pings is dropped once pongWait passes,
	// including one that never answers the first.
	conn.SetReadDeadline(time.Now().Add(h.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.pongWait))
	})
	go h.readControl(conn, r.RemoteAddr, done)

	ping := time.NewTicker(h.pingInterval)
	defer ping.Stop()

	for {
		var err error
		select {
		case event := <-eventCh:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			err = conn.WriteJSON(event)
		case <-ping.C:
			err = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		case <-done:
			return
		}
		if err != nil {
			h.log.Debug("websocket write failed", "remote", r.RemoteAddr, "error", err)
			return
		}
	}
}

// readControl consumes incoming frames so pongs and the close handshake are
// processed. Clients send no data. It closes done when the peer goes away or
// the read deadline passes.
func (h *EventHandler) readControl(conn *websocket.Conn, remote string, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("websocket read ended", "remote", remote, "error", err)
			}
			return
		}
	}
}
