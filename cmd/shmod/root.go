// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"shmod-cli/internal/config"
	"shmod-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "shmod",
		Short: "A manager for shell function modules",
		Long: TitleStyle.Render("shmod") + SubtitleStyle.Render(" - A manager for shell function modules") + `

shmod maintains directories of shell functions as versioned modules:
one function per file under public/, a CUE manifest describing the
module, and a generated loader script that sources everything and
exports the public surface.

The loader and the manifest's export arrays are derived from the
files on disk. Edit your functions; shmod keeps the generated
artifacts in sync.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Create a module with: shmod create mytools
  2. Add one function per .sh file under public/
  3. Run 'shmod regen' and source the loader from your shell profile

` + SubtitleStyle.Render("Examples:") + `
  shmod regen               Refresh the loader and manifest exports
  shmod regen --check       Fail if generated artifacts are stale (CI)
  shmod build               Regenerate, lint, and smoke-test the loader
  shmod bump minor          Raise the manifest version
  shmod list --tree         Show modules with their exports
  shmod config show         Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/shmod/config.cue)")

	// Add subcommands. Handlers that need discovery or configuration receive
	// the shared App; the rest are plain package-level commands.
	app := NewApp(Dependencies{})
	rootCmd.AddCommand(newRegenCommand(app))
	rootCmd.AddCommand(newBuildCommand(app))
	rootCmd.AddCommand(bumpCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(newLintCommand(app))
	rootCmd.AddCommand(newListCommand(app))
	rootCmd.AddCommand(newWatchCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))
	rootCmd.AddCommand(newCompletionCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	// Set custom config file path if provided via --config flag
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}

	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	log.SetPrefix(config.AppName)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
