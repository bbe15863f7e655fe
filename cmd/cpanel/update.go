// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wingedpig/cpanel/pkg/client"
)

func newUpdateCommand() *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Ask a running server to rescan its applet directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.New(server).Apps.Update(cmd.Context())
			if err != nil {
				return fmt.Errorf("update %s: %w", server, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d applets in %d categories (generation %d)\n",
				result.Apps, result.Categories, result.Generation)
			return nil
		},
	}
	cmd.Flags().StringVar(&server, "server", "http://127.0.0.1:8470", "Server base URL")
	return cmd
}
