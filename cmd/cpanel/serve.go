// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"
	"github.com/wingedpig/cpanel/internal/app"
)

type serveFlags struct {
	host    string
	port    int
	noWatch bool
}

func addServeFlags(cmd *cobra.Command, f *serveFlags) {
	cmd.Flags().StringVar(&f.host, "host", "", "HTTP server host (overrides config)")
	cmd.Flags().IntVar(&f.port, "port", 0, "HTTP server port (overrides config)")
	cmd.Flags().BoolVar(&f.noWatch, "no-watch", false, "Disable change-driven rebuilds")
}

func newServeCommand(flags *globalFlags, version string) *cobra.Command {
	serve := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and keep the registry current",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags, serve, version)
		},
	}
	addServeFlags(cmd, serve)
	return cmd
}

func runServe(cmd *cobra.Command, flags *globalFlags, serve *serveFlags, version string) error {
	opts := flags.appOptions(version, cmd.ErrOrStderr())
	opts.Host = serve.host
	opts.Port = serve.port
	opts.DisableWatch = serve.noWatch

	application, err := app.New(opts)
	if err != nil {
		return err
	}
	if opts.ConfigPath != "" {
		application.Logger().Info("using config", "path", opts.ConfigPath)
	}

	return application.Run(cmd.Context())
}
