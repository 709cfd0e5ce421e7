// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"time"

	"shmod-cli/internal/watch"
	"shmod-cli/pkg/shmod"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// newWatchCommand creates the `shmod watch` command.
func newWatchCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Regenerate on file changes",
		Long: `Watch a module's function files and regenerate the loader and manifest
exports whenever they change.

Changes are debounced (watch.debounce_ms in the config, default 250ms)
and runs are skipped while a previous one is still going. The loader is
written outside the watched patterns, so loader writes never retrigger
the watcher; a manifest update settles after one follow-up no-op run.

Press Ctrl+C to stop.

Examples:
  shmod watch
  shmod watch ./netkit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), app, args)
		},
	}

	return cmd
}

func runWatch(ctx context.Context, app *App, args []string) error {
	dir := ""
	if len(args) == 1 {
		dir = args[0]
	}

	mod, err := resolveSingleTarget(dir)
	if err != nil {
		renderIssueCard(app.stderr, err)
		return err
	}

	cfg, cfgDiags := loadConfigWithFallback(ctx, app.Config, cfgFile)
	app.Diagnostics.Render(ctx, cfgDiags, app.stderr)

	regenOnce := func(ctx context.Context) error {
		result, regenErr := shmod.Regenerate(mod)
		if regenErr != nil {
			return regenErr
		}
		app.Diagnostics.Render(ctx, result.Diagnostics, app.stderr)
		renderRegenResult(app, result)
		return nil
	}

	// Regenerate once immediately before starting the watcher.
	fmt.Fprintf(app.stdout, "%s Watch mode: initial regeneration of '%s'\n", arrowIcon, mod.Name)
	if execErr := regenOnce(ctx); execErr != nil {
		// Log but don't stop; the user may fix the error and save again.
		fmt.Fprintf(app.stderr, "%s Initial regeneration failed: %v\n", warningIcon, execErr)
		renderIssueCard(app.stderr, execErr)
	}

	fmt.Fprintf(app.stdout, "\n%s Watching for changes (Ctrl+C to stop)...\n\n", arrowIcon)
	log.Debug("watch started", "module", mod.Name, "debounce_ms", int(cfg.Watch.DebounceMillis))

	watchCfg := watch.Config{
		// The loader lands at the module root, which no pattern matches.
		// A manifest splice does match, but its follow-up run is a no-op.
		Patterns: []string{
			shmod.PublicDirName + "/**/*.sh",
			shmod.PrivateDirName + "/**/*.sh",
			shmod.ManifestName,
		},
		Debounce:    time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond,
		ClearScreen: cfg.Watch.ClearScreen,
		BaseDir:     mod.Root,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(app.stdout, "%s Detected %d change(s). Regenerating '%s'...\n",
				arrowIcon, len(changed), mod.Name)
			if execErr := regenOnce(ctx); execErr != nil {
				fmt.Fprintf(app.stderr, "%s Regeneration failed: %v\n", warningIcon, execErr)
			}
			fmt.Fprintf(app.stdout, "\n%s Watching for changes...\n\n", arrowIcon)
			return nil
		},
		Stdout: app.stdout,
		Stderr: app.stderr,
	}

	w, err := watch.New(watchCfg)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	return w.Run(ctx)
}
