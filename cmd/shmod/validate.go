// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"shmod-cli/pkg/shmod"

	"github.com/spf13/cobra"
)

// validateCmd checks module structure and artifacts
var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate module structure and artifacts",
	Long: `Validate the structure and contents of a module.

Checks performed:
  - Directory name follows the module naming grammar
  - Manifest parses against the schema and matches the directory name
  - public/ exists and its function files use exportable names
  - Generated artifacts are present and up to date
  - No symlinked function files or files beyond the loader's depth

Problems are collected and reported as a batch; warnings do not fail
the run, errors do.

Examples:
  shmod validate
  shmod validate ./netkit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	var dir string
	switch {
	case len(args) == 1:
		dir = args[0]
	default:
		if mod, err := enclosingModule(); err == nil {
			dir = mod.Root
		} else {
			// No enclosing manifest: validate the working directory itself so
			// a module missing its manifest still gets a structural report.
			dir = "."
		}
	}

	result, err := shmod.Validate(dir)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	fmt.Println(sectionTitleStyle.Render("Module Validation"))
	fmt.Printf("%s Path: %s\n", infoIcon, pathStyle.Render(result.ModulePath))
	if result.ModuleName != "" {
		fmt.Printf("%s Name: %s\n", infoIcon, CmdStyle.Render(result.ModuleName))
	}
	fmt.Println()

	warnings := result.Warnings()

	if result.Valid {
		fmt.Printf("%s Module is valid\n", successIcon)
		fmt.Println()
		fmt.Printf("%s Structure check passed\n", successIcon)
		fmt.Printf("%s Naming check passed\n", successIcon)
		fmt.Printf("%s Manifest parses and matches the directory name\n", successIcon)

		if len(warnings) > 0 {
			fmt.Println()
			fmt.Printf("%s %d warning(s):\n", warningIcon, len(warnings))
			printIssues(warnings)
		}
		return nil
	}

	fmt.Printf("%s Module validation failed with %d issue(s)\n", errorIcon, len(result.Issues))
	fmt.Println()
	printIssues(result.Issues)

	return &ExitError{Code: 1, Err: fmt.Errorf("module validation failed")}
}

// printIssues writes numbered issue lines in [type] path message form.
func printIssues(issues []shmod.ValidationIssue) {
	for i, issue := range issues {
		num := issueNumStyle.Render(fmt.Sprintf("%d.", i+1))
		tag := issueTagStyle.Render(fmt.Sprintf("[%s]", issue.Type))

		if issue.Path != "" {
			fmt.Printf("%s %s %s %s\n", num, tag, pathStyle.Render(issue.Path), issue.Message)
		} else {
			fmt.Printf("%s %s %s\n", num, tag, issue.Message)
		}
	}
}
