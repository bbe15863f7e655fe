// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/wingedpig/cpanel/internal/app"
	"github.com/wingedpig/cpanel/internal/config"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	dir        string
	locale     string
	debug      bool
}

func newRootCommand(version string) *cobra.Command {
	flags := &globalFlags{}
	serve := &serveFlags{}

	rootCmd := &cobra.Command{
		Use:   "cpanel",
		Short: "Control-panel applet discovery service",
		Long: `cpanel scans a directory of control-panel applet descriptors, groups the
applets into configured categories and keeps the result current as
descriptors are installed or removed.

Without a subcommand it runs the HTTP API (same as "cpanel serve").`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags, serve, version)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to config file (default: auto-detect cpanel.hjson)")
	pf.StringVar(&flags.dir, "dir", "", "Applet descriptor directory (overrides config)")
	pf.StringVar(&flags.locale, "locale", "", "Locale for names and sorting, e.g. de_DE (overrides config)")
	pf.BoolVar(&flags.debug, "debug", false, "Enable debug logging")

	addServeFlags(rootCmd, serve)

	rootCmd.AddCommand(newServeCommand(flags, version))
	rootCmd.AddCommand(newListCommand(flags))
	rootCmd.AddCommand(newWatchCommand(flags))
	rootCmd.AddCommand(newUpdateCommand())
	rootCmd.AddCommand(newInitCommand())

	return rootCmd
}

// resolveConfig returns the explicit config path, or the auto-detected one,
// or "" to run on defaults.
func resolveConfig(path string) string {
	if path != "" {
		return path
	}
	found, err := config.NewLoader().FindConfig()
	if err != nil {
		return ""
	}
	return found
}

func (f *globalFlags) appOptions(version string, logOutput io.Writer) app.Options {
	return app.Options{
		ConfigPath: resolveConfig(f.configPath),
		AppletsDir: f.dir,
		Locale:     f.locale,
		Debug:      f.debug,
		Version:    version,
		LogOutput:  logOutput,
	}
}
