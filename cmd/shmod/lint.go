// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"shmod-cli/pkg/shmod"

	"github.com/spf13/cobra"
)

// newLintCommand creates the `shmod lint` command.
func newLintCommand(app *App) *cobra.Command {
	var lintConfigFile string

	cmd := &cobra.Command{
		Use:   "lint [dir...]",
		Short: "Lint module function files",
		Long: `Lint the function files of each target module.

Checks performed:
  - Shell syntax (files must parse as bash)
  - Each file defines a function named after its basename
  - Alias annotations use the [alias: a, b] grammar
  - No alias is claimed by more than one file
  - The generated loader exists

Findings can be suppressed per file and code through a lint.toml
exception file in the module root. Lint errors exit non-zero; warnings
do not.

Examples:
  shmod lint
  shmod lint ./netkit --lint-config ./ci/lint.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd.Context(), app, args, lintConfigFile)
		},
	}

	cmd.Flags().StringVar(&lintConfigFile, "lint-config", "", "lint exception file (default: lint.toml in the module root)")

	return cmd
}

func runLint(ctx context.Context, app *App, args []string, configFile string) error {
	mods, diags, err := resolveTargets(ctx, app, args, false, "")
	app.Diagnostics.Render(ctx, diags, app.stderr)
	if err != nil {
		renderIssueCard(app.stderr, err)
		return err
	}

	if configFile == "" {
		cfg, cfgDiags := loadConfigWithFallback(ctx, app.Config, cfgFile)
		app.Diagnostics.Render(ctx, cfgDiags, app.stderr)
		configFile = string(cfg.Lint.ConfigFile)
	}

	var failed, errorCount int
	for _, mod := range mods {
		result, lintErr := shmod.Lint(mod, shmod.LintOptions{ConfigFile: configFile})
		if lintErr != nil {
			failed++
			fmt.Fprintf(app.stderr, "%s %s: %v\n", errorIcon, mod.Name, lintErr)
			renderIssueCard(app.stderr, lintErr)
			continue
		}

		fmt.Fprintf(app.stdout, "%s %s\n", nameStyle.Render(mod.Name), pathStyle.Render("("+mod.Root+")"))
		renderLintFindings(app, result)
		errorCount += result.ErrorCount()
	}

	if failed > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("lint failed to run for %d module(s)", failed)}
	}
	if errorCount > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("%w: %d error(s)", shmod.ErrLintFailed, errorCount)}
	}
	return nil
}

// renderLintFindings prints findings as path:line code message lines followed
// by a one-line summary.
func renderLintFindings(app *App, result *shmod.LintResult) {
	for _, finding := range result.Findings {
		icon := warningIcon
		if finding.Severity == shmod.SeverityError {
			icon = errorIcon
		}

		loc := finding.Path
		if finding.Line > 0 {
			loc = fmt.Sprintf("%s:%d", finding.Path, finding.Line)
		}
		fmt.Fprintf(app.stdout, "  %s %s %s: %s\n", icon, pathStyle.Render(loc), finding.Code, finding.Message)
	}

	summary := fmt.Sprintf("%d file(s) linted, %d finding(s)", result.FilesLinted, len(result.Findings))
	if result.Suppressed > 0 {
		summary += fmt.Sprintf(", %d suppressed", result.Suppressed)
	}
	fmt.Fprintf(app.stdout, "  %s %s\n", infoIcon, summary)
}
