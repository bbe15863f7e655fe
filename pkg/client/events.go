// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// Event types published by the server.
const (
	EventUpdated       = "applist.updated"
	EventWatchDisabled = "applist.watch_disabled"
)

// EventClient streams registry events over a websocket.
type EventClient struct {
	c *Client
}

// Subscription is a live event stream. Close it to release the connection.
type Subscription struct {
	conn   *websocket.Conn
	events chan Event
	done   chan struct{}

	mu  sync.Mutex
	err error

	closeOnce sync.Once
}

// Subscribe opens an event stream filtered by pattern. An empty pattern
// receives all applist events.
//
// The stream ends when ctx is cancelled, the subscription is closed, or the
// connection fails; [Subscription.Err] reports the failure, if any.
func (e *EventClient) Subscribe(ctx context.Context, pattern string) (*Subscription, error) {
	wsURL, err := e.wsURL(pattern)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set(VersionHeader, e.c.version)

	dialer := websocket.Dialer{HandshakeTimeout: e.c.httpClient.Timeout}
	conn, resp, err := dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil && resp.StatusCode >= 400 {
			defer resp.Body.Close()
			if _, _, perr := parseResponse(resp); perr != nil {
				return nil, perr
			}
		}
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	sub := &Subscription{
		conn:   conn,
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
	go sub.read()
	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.done:
		}
	}()
	return sub, nil
}

func (e *EventClient) wsURL(pattern string) (string, error) {
	u, err := url.Parse(e.c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/v1/events/ws"
	if pattern != "" {
		u.RawQuery = url.Values{"pattern": {pattern}}.Encode()
	}
	return u.String(), nil
}

// Events returns the channel of received events. It is closed when the
// stream ends.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Err returns the error that ended the stream, or nil if it was closed
// normally.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close ends the stream.
func (s *Subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err = s.conn.Close()
	})
	return err
}

func (s *Subscription) read() {
	defer close(s.events)
	for {
		var ev Event
		if err := s.conn.ReadJSON(&ev); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				!isClosedConn(err) && !s.closed() {
				s.mu.Lock()
				s.err = err
				s.mu.Unlock()
			}
			return
		}
		if ev.Type == "" {
			continue
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

func (s *Subscription) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func isClosedConn(err error) bool {
	return strings.Contains(err.Error(), "use of closed network connection")
}
