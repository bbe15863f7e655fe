// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wingedpig/cpanel/internal/config"
)

type initFlags struct {
	output   string
	dir      string
	backend  string
	settings string
	port     int
	force    bool
}

func newInitCommand() *cobra.Command {
	f := &initFlags{}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented cpanel.hjson with default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !f.force {
				if _, err := os.Stat(f.output); err == nil {
					return fmt.Errorf("%s already exists; remove it first or pass --force", f.output)
				}
			}

			content := generateConfig(f)
			cfg, err := config.Parse([]byte(content))
			if err != nil {
				return fmt.Errorf("generated config does not parse: %w", err)
			}
			config.ApplyDefaults(cfg)
			if err := config.NewValidator().Validate(cfg); err != nil {
				return err
			}
			if err := os.WriteFile(f.output, []byte(content), 0644); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", f.output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.output, "output", "o", "cpanel.hjson", "File to write")
	cmd.Flags().StringVar(&f.dir, "applets-dir", config.DefaultAppletsDir, "Applet descriptor directory")
	cmd.Flags().StringVar(&f.backend, "settings-backend", config.DefaultBackend, "Settings backend: file or sqlite")
	cmd.Flags().StringVar(&f.settings, "settings-path", "", "Settings document or database holding the category lists")
	cmd.Flags().IntVar(&f.port, "port", config.DefaultPort, "HTTP server port")
	cmd.Flags().BoolVar(&f.force, "force", false, "Overwrite an existing file")
	return cmd
}

// escapeHJSONValue escapes a string for safe inclusion in an HJSON double-quoted value.
func escapeHJSONValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

func generateConfig(f *initFlags) string {
	var sb strings.Builder

	sb.WriteString(`{
  // cpanel configuration (HJSON: JSON with comments and relaxed syntax)

  applets: {
    // Directory holding one descriptor file per applet.
`)
	fmt.Fprintf(&sb, "    dir: \"%s\"\n", escapeHJSONValue(f.dir))
	sb.WriteString(`    // Locale for names and sorting, e.g. "de_DE". Empty uses the system locale.
    locale: ""
  }

  settings: {
    // "file" reads an HJSON or YAML document, "sqlite" a settings database.
`)
	fmt.Fprintf(&sb, "    backend: \"%s\"\n", escapeHJSONValue(f.backend))
	sb.WriteString("    // Holds controlpanel/group_ids and controlpanel/group_names. Empty means\n")
	sb.WriteString("    // every applet lands in the fallback category.\n")
	fmt.Fprintf(&sb, "    path: \"%s\"\n", escapeHJSONValue(f.settings))
	sb.WriteString(`  }

  categories: {
    // Display name of the catch-all category. Empty uses a translated "Extras".
    fallback_name: ""
  }

  watch: {
    // Rebuild this long after the first change of a burst.
    debounce: "500ms"
    disabled: false
  }

  server: {
    host: "127.0.0.1"
`)
	fmt.Fprintf(&sb, "    port: %d\n", f.port)
	sb.WriteString(`  }

  logging: {
    // trace, debug, info, warn or error
    level: "info"
    // text or json
    format: "text"
  }
}
`)
	return sb.String()
}
