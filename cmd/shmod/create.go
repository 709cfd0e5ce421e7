// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"shmod-cli/pkg/shmod"
	"shmod-cli/pkg/types"

	"github.com/spf13/cobra"
)

var (
	// createDir is the parent directory for the new module
	createDir string

	// createDescription is the manifest description
	createDescription string

	// createCmd scaffolds a new module
	createCmd = &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new shell function module",
		Long: `Create a new shell function module with the given name.

The module name becomes the directory name, the manifest's module field
and the loader filename, so it must be shell-identifier safe:
  - Start with a lowercase letter
  - Contain only lowercase letters, digits, '_' or '-'

The scaffold includes a manifest, public/ and private/ directories with
a sample function, and a generated loader ready to source.

Examples:
  shmod create netkit
  shmod create netkit --dir ~/modules
  shmod create netkit --description "Network probing helpers"`,
		Args: cobra.ExactArgs(1),
		RunE: runCreate,
	}
)

func init() {
	createCmd.Flags().StringVarP(&createDir, "dir", "d", "", "parent directory for the module (default: current directory)")
	createCmd.Flags().StringVar(&createDescription, "description", "", "description for the manifest")
}

func runCreate(cmd *cobra.Command, args []string) error {
	name := args[0]

	if createDescription != "" {
		if ok, errs := types.DescriptionText(createDescription).IsValid(); !ok {
			return fmt.Errorf("invalid description: %w", errors.Join(errs...))
		}
	}

	fmt.Println(sectionTitleStyle.Render("Create Module"))

	mod, err := shmod.Create(shmod.CreateOptions{
		Name:        name,
		ParentDir:   createDir,
		Description: createDescription,
	})
	if err != nil {
		return fmt.Errorf("failed to create module: %w", err)
	}

	fmt.Printf("%s Module created\n", successIcon)
	fmt.Println()
	fmt.Printf("%s Path: %s\n", infoIcon, pathStyle.Render(mod.Root))
	fmt.Printf("%s Name: %s\n", infoIcon, CmdStyle.Render(mod.Name))

	fmt.Println()
	fmt.Printf("%s Next steps:\n", infoIcon)
	fmt.Printf("   1. Add function files under %s\n", pathStyle.Render(filepath.Join(mod.Root, shmod.PublicDirName)))
	fmt.Printf("   2. Run %s to refresh the loader\n", CmdStyle.Render("shmod regen"))
	fmt.Printf("   3. Source %s from your shell profile\n", pathStyle.Render(mod.LoaderPath()))

	return nil
}
