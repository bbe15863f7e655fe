// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/wingedpig/cpanel/internal/app"
	"github.com/wingedpig/cpanel/internal/applet"
	"github.com/wingedpig/cpanel/internal/category"
	"github.com/wingedpig/cpanel/pkg/client"
)

var (
	categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	nameStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	pluginStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	summaryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type listFlags struct {
	json      bool
	showEmpty bool
	showIcons bool
	server    string
}

func newListCommand(flags *globalFlags) *cobra.Command {
	lf := &listFlags{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Scan once and print applets by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cats []category.Category
			if lf.server != "" {
				remote, err := client.New(lf.server).Apps.Categories(cmd.Context())
				if err != nil {
					return fmt.Errorf("fetch categories from %s: %w", lf.server, err)
				}
				cats = fromRemote(remote)
			} else {
				opts := flags.appOptions(version, cmd.ErrOrStderr())
				opts.DisableWatch = true

				application, err := app.New(opts)
				if err != nil {
					return err
				}
				if err := application.Initialize(cmd.Context()); err != nil {
					return err
				}
				defer application.Shutdown(context.Background())
				cats = application.Registry().Categories()
			}

			if lf.json {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cats)
			}
			renderCategories(cmd.OutOrStdout(), cats, lf)
			return nil
		},
	}
	cmd.Flags().BoolVar(&lf.json, "json", false, "Print JSON instead of styled text")
	cmd.Flags().BoolVar(&lf.showEmpty, "all", false, "Include categories without applets")
	cmd.Flags().BoolVar(&lf.showIcons, "icons", false, "Show icon names")
	cmd.Flags().StringVar(&lf.server, "server", "", "Query a running server (e.g. http://127.0.0.1:8470) instead of scanning")
	return cmd
}

// fromRemote converts API categories for rendering.
func fromRemote(remote []client.Category) []category.Category {
	cats := make([]category.Category, 0, len(remote))
	for _, rc := range remote {
		c := category.Category{ID: rc.ID, Name: rc.Name, Apps: make([]*applet.Applet, 0, len(rc.Apps))}
		for _, ra := range rc.Apps {
			c.Apps = append(c.Apps, &applet.Applet{
				Name:     ra.Name,
				Plugin:   ra.Plugin,
				Icon:     ra.Icon,
				Category: ra.Category,
				Path:     ra.Path,
			})
		}
		cats = append(cats, c)
	}
	return cats
}

// renderCategories writes one block per category with its applets in
// display order.
func renderCategories(w io.Writer, cats []category.Category, lf *listFlags) {
	var blocks []string
	total := 0
	for _, c := range cats {
		total += len(c.Apps)
		if len(c.Apps) == 0 && !lf.showEmpty {
			continue
		}

		title := c.Name
		if c.IsFallback() && title == "" {
			title = "(uncategorized)"
		}
		lines := []string{categoryStyle.Render(title)}

		if len(c.Apps) == 0 {
			lines = append(lines, "  "+emptyStyle.Render("no applets"))
		}
		for _, a := range c.Apps {
			line := "  " + nameStyle.Render(a.Name) + "  " + pluginStyle.Render(a.Plugin)
			if lf.showIcons && a.Icon != "" {
				line += "  " + pluginStyle.Render("["+a.Icon+"]")
			}
			lines = append(lines, line)
		}
		blocks = append(blocks, lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	blocks = append(blocks, summaryStyle.Render(fmt.Sprintf("%d applets in %d categories", total, len(cats))))
	fmt.Fprintln(w, strings.Join(blocks, "\n\n"))
}
