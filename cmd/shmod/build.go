// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"shmod-cli/pkg/shmod"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// newBuildCommand creates the `shmod build` command.
func newBuildCommand(app *App) *cobra.Command {
	var (
		buildAll          bool
		buildRoot         string
		buildSkipLint     bool
		buildSkipReimport bool
	)

	cmd := &cobra.Command{
		Use:   "build [dir...]",
		Short: "Regenerate, lint, and smoke-test modules",
		Long: `Run the full build pipeline for each target module:

  1. Regenerate the loader and manifest exports
  2. Lint the function files (lint errors fail the build, warnings do not)
  3. Source the loader in a sandboxed shell interpreter and probe that
     every exported function is actually defined

Examples:
  shmod build                   Build the enclosing module
  shmod build --all             Build every discoverable module
  shmod build --skip-reimport   Skip the loader smoke test`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), app, args, buildAll, buildRoot, buildSkipLint, buildSkipReimport)
		},
	}

	cmd.Flags().BoolVar(&buildAll, "all", false, "build every discoverable module")
	cmd.Flags().StringVar(&buildRoot, "root", "", "build all modules under a directory")
	cmd.Flags().BoolVar(&buildSkipLint, "skip-lint", false, "skip the lint step")
	cmd.Flags().BoolVar(&buildSkipReimport, "skip-reimport", false, "skip the loader reimport smoke test")

	return cmd
}

func runBuild(ctx context.Context, app *App, args []string, all bool, rootDir string, skipLint, skipReimport bool) error {
	mods, diags, err := resolveTargets(ctx, app, args, all, rootDir)
	app.Diagnostics.Render(ctx, diags, app.stderr)
	if err != nil {
		renderIssueCard(app.stderr, err)
		return err
	}

	cfg, cfgDiags := loadConfigWithFallback(ctx, app.Config, cfgFile)
	app.Diagnostics.Render(ctx, cfgDiags, app.stderr)

	opts := shmod.BuildOptions{
		SkipLint:       skipLint,
		SkipReimport:   skipReimport,
		LintConfigFile: string(cfg.Lint.ConfigFile),
	}

	var failed int
	for _, mod := range mods {
		fmt.Fprintf(app.stdout, "%s Building %s\n", arrowIcon, nameStyle.Render(mod.Name))
		log.Debug("build started", "module", mod.Name, "skip_lint", skipLint, "skip_reimport", skipReimport)

		result, buildErr := shmod.Build(ctx, mod, opts)
		if result != nil {
			if result.Regen != nil {
				app.Diagnostics.Render(ctx, result.Regen.Diagnostics, app.stderr)
				renderRegenResult(app, result.Regen)
			}
			if result.Lint != nil {
				renderLintFindings(app, result.Lint)
			}
			renderProbes(app, result.Probes)
		}

		if buildErr != nil {
			failed++
			fmt.Fprintf(app.stderr, "%s %s: %v\n", errorIcon, mod.Name, buildErr)
			renderIssueCard(app.stderr, buildErr)
			continue
		}

		fmt.Fprintf(app.stdout, "%s Build passed\n\n", successIcon)
	}

	if failed > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("build failed for %d module(s)", failed)}
	}
	return nil
}

// renderProbes summarizes the reimport smoke test.
func renderProbes(app *App, probes []shmod.FunctionProbe) {
	if len(probes) == 0 {
		return
	}

	defined := 0
	for _, probe := range probes {
		if probe.Defined {
			defined++
		}
	}

	icon := successIcon
	if defined < len(probes) {
		icon = errorIcon
	}
	fmt.Fprintf(app.stdout, "  %s reimport probe: %d/%d function(s) defined\n", icon, defined, len(probes))

	for _, probe := range probes {
		if !probe.Defined {
			fmt.Fprintf(app.stdout, "    %s %s not defined after sourcing the loader\n", errorIcon, probe.Function)
		}
	}
}
