// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"shmod-cli/internal/discovery"
	"shmod-cli/pkg/shmod"

	"github.com/ddddddO/gtree"
	"github.com/spf13/cobra"
)

// newListCommand creates the `shmod list` command.
func newListCommand(app *App) *cobra.Command {
	var (
		listRoot string
		listTree bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List discoverable modules",
		Long: `List modules from all discovery sources: the module enclosing the
working directory, the user modules directory (~/.shmod/modules), and
the configured module roots.

Examples:
  shmod list
  shmod list --root ~/modules
  shmod list --tree`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), app, listRoot, listTree)
		},
	}

	cmd.Flags().StringVar(&listRoot, "root", "", "list modules under a directory instead of the discovery sources")
	cmd.Flags().BoolVar(&listTree, "tree", false, "render modules with their exports as a tree")

	return cmd
}

func runList(ctx context.Context, app *App, rootDir string, tree bool) error {
	var (
		discovered []*discovery.DiscoveredModule
		diags      []shmod.Diagnostic
		err        error
	)
	if rootDir != "" {
		discovered, diags, err = app.Modules.DiscoverUnder(ctx, rootDir)
		loadManifests(discovered)
	} else {
		discovered, diags, err = app.Modules.LoadAll(ctx)
	}
	app.Diagnostics.Render(ctx, diags, app.stderr)
	if err != nil {
		return err
	}

	if len(discovered) == 0 {
		fmt.Fprintf(app.stdout, "%s No modules found\n", infoIcon)
		fmt.Fprintln(app.stdout)
		fmt.Fprintf(app.stdout, "%s To create one, use: %s\n", infoIcon, CmdStyle.Render("shmod create <name>"))
		return nil
	}

	fmt.Fprintf(app.stdout, "%s Found %d module(s)\n", infoIcon, len(discovered))
	fmt.Fprintln(app.stdout)

	if tree {
		return renderModuleTree(app, discovered)
	}

	for _, dm := range discovered {
		icon := successIcon
		if dm.Error != nil {
			icon = errorIcon
		}

		fmt.Fprintf(app.stdout, "%s %s", icon, nameStyle.Render(dm.Module.Name))
		if dm.Manifest != nil && dm.Manifest.Version != "" {
			fmt.Fprintf(app.stdout, " %s", versionStyle.Render(dm.Manifest.Version))
		}
		fmt.Fprintln(app.stdout)

		fmt.Fprintf(app.stdout, "   Source:   %s\n", dm.Source)
		fmt.Fprintf(app.stdout, "   Path:     %s\n", pathStyle.Render(dm.Module.Root))
		switch {
		case dm.Error != nil:
			fmt.Fprintf(app.stdout, "   Manifest: %s\n", ErrorStyle.Render(dm.Error.Error()))
		case dm.Manifest != nil:
			fmt.Fprintf(app.stdout, "   Exports:  %d function(s), %d alias(es)\n",
				len(dm.Manifest.Exports.Functions), len(dm.Manifest.Exports.Aliases))
			if dm.Manifest.Description != "" {
				fmt.Fprintf(app.stdout, "   About:    %s\n", dm.Manifest.Description)
			}
		}
		fmt.Fprintln(app.stdout)
	}

	return nil
}

// renderModuleTree prints each module as a tree root with its exported
// functions and aliases as branches.
func renderModuleTree(app *App, discovered []*discovery.DiscoveredModule) error {
	for _, dm := range discovered {
		label := dm.Module.Name
		if dm.Manifest != nil && dm.Manifest.Version != "" {
			label = fmt.Sprintf("%s %s", dm.Module.Name, dm.Manifest.Version)
		}
		root := gtree.NewRoot(label)

		switch {
		case dm.Error != nil:
			root.Add("manifest error: " + dm.Error.Error())
		case dm.Manifest != nil:
			functions := root.Add("functions")
			for _, fn := range dm.Manifest.Exports.Functions {
				functions.Add(fn)
			}
			if len(dm.Manifest.Exports.Aliases) > 0 {
				aliases := root.Add("aliases")
				for _, alias := range dm.Manifest.Exports.Aliases {
					aliases.Add(alias)
				}
			}
		}

		if err := gtree.OutputProgrammably(app.stdout, root); err != nil {
			return fmt.Errorf("failed to render tree: %w", err)
		}
		fmt.Fprintln(app.stdout)
	}
	return nil
}

// loadManifests fills Manifest on entries that discovery has not parsed yet,
// recording parse failures on the entry instead of aborting the listing.
func loadManifests(discovered []*discovery.DiscoveredModule) {
	for _, dm := range discovered {
		if dm.Manifest != nil || dm.Error != nil {
			continue
		}
		manifest, err := dm.Module.LoadManifest()
		if err != nil {
			dm.Error = err
			continue
		}
		dm.Manifest = manifest
	}
}
