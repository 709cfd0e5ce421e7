// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"shmod-cli/pkg/shmod"

	"github.com/spf13/cobra"
)

// newRegenCommand creates the `shmod regen` command.
func newRegenCommand(app *App) *cobra.Command {
	var (
		regenAll   bool
		regenRoot  string
		regenCheck bool
	)

	cmd := &cobra.Command{
		Use:   "regen [dir...]",
		Short: "Regenerate module loaders and manifest exports",
		Long: `Regenerate the loader script and the manifest's export arrays from the
function files under public/.

Each target may be a module directory or a bare module name resolvable
across the discovery sources. Without targets, the module enclosing the
working directory is regenerated.

Artifacts are only rewritten when their content actually changed, so a
clean tree stays clean.

Examples:
  shmod regen                     Regenerate the enclosing module
  shmod regen ./netkit ./gitkit   Regenerate two module directories
  shmod regen netkit              Regenerate by module name
  shmod regen --all               Regenerate every discoverable module
  shmod regen --root ~/modules    Regenerate all modules under a directory
  shmod regen --check             Report stale artifacts without writing (CI)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegen(cmd.Context(), app, args, regenAll, regenRoot, regenCheck)
		},
	}

	cmd.Flags().BoolVar(&regenAll, "all", false, "regenerate every discoverable module")
	cmd.Flags().StringVar(&regenRoot, "root", "", "regenerate all modules under a directory")
	cmd.Flags().BoolVar(&regenCheck, "check", false, "report stale artifacts without writing")

	return cmd
}

func runRegen(ctx context.Context, app *App, args []string, all bool, rootDir string, check bool) error {
	mods, diags, err := resolveTargets(ctx, app, args, all, rootDir)
	app.Diagnostics.Render(ctx, diags, app.stderr)
	if err != nil {
		renderIssueCard(app.stderr, err)
		return err
	}

	run := shmod.Regenerate
	if check {
		run = shmod.Check
	}

	var failed, stale int
	for _, mod := range mods {
		result, regenErr := run(mod)
		if regenErr != nil {
			failed++
			fmt.Fprintf(app.stderr, "%s %s: %v\n", errorIcon, mod.Name, regenErr)
			renderIssueCard(app.stderr, regenErr)
			continue
		}

		app.Diagnostics.Render(ctx, result.Diagnostics, app.stderr)
		renderRegenResult(app, result)
		if result.Stale() {
			stale++
		}
	}

	if failed > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("regeneration failed for %d module(s)", failed)}
	}
	if check && stale > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("%d module(s) have stale artifacts; run 'shmod regen'", stale)}
	}
	return nil
}

// renderRegenResult prints one module's outcome with per-artifact status lines.
func renderRegenResult(app *App, result *shmod.RegenerationResult) {
	fmt.Fprintf(app.stdout, "%s %s\n", nameStyle.Render(result.Module.Name), pathStyle.Render("("+result.Module.Root+")"))
	for _, artifact := range result.Artifacts {
		fmt.Fprintf(app.stdout, "  %s %-9s %s\n", statusIcon(artifact.Status), artifact.Status, artifact.Name)
	}
	fmt.Fprintf(app.stdout, "  %s %d file(s) scanned, %d function(s), %d alias(es) exported\n",
		infoIcon, result.FilesScanned, len(result.Exports.Functions), len(result.Exports.Aliases))
}

// statusIcon maps an artifact status to its list icon.
func statusIcon(status shmod.ArtifactStatus) string {
	switch status {
	case shmod.StatusUpdated:
		return successIcon
	case shmod.StatusStale, shmod.StatusSkipped:
		return warningIcon
	default:
		return infoIcon
	}
}
