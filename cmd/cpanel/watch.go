// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/wingedpig/cpanel/internal/app"
	"github.com/wingedpig/cpanel/internal/events"
	"github.com/wingedpig/cpanel/pkg/client"
)

func newWatchCommand(flags *globalFlags) *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print a line for every registry update until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if server != "" {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return watchRemote(ctx, client.New(server), cmd.OutOrStdout())
			}

			application, err := app.New(flags.appOptions(version, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			if err := application.Initialize(cmd.Context()); err != nil {
				return err
			}
			defer application.Shutdown(context.Background())

			reg := application.Registry()
			if !reg.Watching() {
				return fmt.Errorf("not watching %s; see log for details", reg.Dir())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "watching %s (%d applets)\n", reg.Dir(), len(reg.Apps()))
			return watchUpdates(ctx, application.EventBus(), out)
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "Follow a running server (e.g. http://127.0.0.1:8470) instead of watching locally")
	return cmd
}

// watchRemote prints events streamed from a server until ctx is done or the
// connection drops.
func watchRemote(ctx context.Context, c *client.Client, out io.Writer) error {
	sub, err := c.Events.Subscribe(ctx, "")
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", c.BaseURL(), err)
	}
	defer sub.Close()

	fmt.Fprintf(out, "following %s\n", c.BaseURL())
	for ev := range sub.Events() {
		fmt.Fprintln(out, formatEvent(events.Event{
			ID:        ev.ID,
			Type:      ev.Type,
			Timestamp: ev.Timestamp,
			Payload:   ev.Payload,
		}))
	}
	if ctx.Err() != nil {
		return nil
	}
	return sub.Err()
}

// watchUpdates prints each applist event until ctx is done.
func watchUpdates(ctx context.Context, bus events.EventBus, out io.Writer) error {
	var mu sync.Mutex
	id, err := bus.SubscribeAsync("applist.*", func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		_, err := fmt.Fprintln(out, formatEvent(e))
		return err
	}, 0)
	if err != nil {
		return err
	}
	defer bus.Unsubscribe(id)

	<-ctx.Done()
	return nil
}

func formatEvent(e events.Event) string {
	ts := e.Timestamp.Format("15:04:05.000")
	switch e.Type {
	case events.EventAppsUpdated:
		return fmt.Sprintf("%s %s trigger=%v apps=%v", ts, e.Type, e.Payload["trigger"], e.Payload["apps"])
	default:
		return fmt.Sprintf("%s %s %v", ts, e.Type, e.Payload)
	}
}
