// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"shmod-cli/pkg/shmod"

	"github.com/spf13/cobra"
)

var (
	// bumpSet is an explicit target version, bypassing part increments
	bumpSet string

	// bumpForce allows --set to move the version backwards
	bumpForce bool

	// bumpCmd rewrites the manifest's version field
	bumpCmd = &cobra.Command{
		Use:   "bump [major|minor|patch] [dir]",
		Short: "Bump the module version",
		Long: `Bump the module's semantic version by rewriting the manifest's version
field in place. Everything else in the file is preserved verbatim.

Incrementing major resets minor and patch; incrementing minor resets
patch. With --set the version is written as given, as long as it does
not move backwards (use --force to allow that).

Examples:
  shmod bump patch              1.2.3 → 1.2.4
  shmod bump minor ./netkit     1.2.3 → 1.3.0 in a specific module
  shmod bump --set 2.0.0-rc.1   Set an explicit version
  shmod bump --set 1.0.0 --force`,
		Args: cobra.MaximumNArgs(2),
		RunE: runBump,
	}
)

func init() {
	bumpCmd.Flags().StringVar(&bumpSet, "set", "", "set an explicit version instead of incrementing a part")
	bumpCmd.Flags().BoolVar(&bumpForce, "force", false, "allow --set to move the version backwards")
}

func runBump(cmd *cobra.Command, args []string) error {
	part, dir, err := parseBumpArgs(args, bumpSet)
	if err != nil {
		renderIssueCard(os.Stderr, err)
		return err
	}

	mod, err := resolveSingleTarget(dir)
	if err != nil {
		renderIssueCard(os.Stderr, err)
		return err
	}

	result, err := shmod.BumpVersion(mod, shmod.BumpOptions{Part: part, Set: bumpSet, Force: bumpForce})
	if err != nil {
		renderIssueCard(os.Stderr, err)
		if errors.Is(err, shmod.ErrVersionDowngrade) {
			fmt.Fprintf(os.Stderr, "%s Use --force to set a lower version\n", infoIcon)
		}
		return err
	}

	if !result.Changed {
		fmt.Printf("%s %s already at %s\n", infoIcon, nameStyle.Render(mod.Name), versionStyle.Render(result.New))
		return nil
	}

	fmt.Printf("%s %s %s → %s\n", successIcon, nameStyle.Render(mod.Name), result.Old, versionStyle.Render(result.New))
	return nil
}

// parseBumpArgs splits the positional args into a bump part and an optional
// module directory. With --set the part is omitted entirely.
func parseBumpArgs(args []string, set string) (shmod.BumpPart, string, error) {
	if set != "" {
		switch len(args) {
		case 0:
			return "", "", nil
		case 1:
			return "", args[0], nil
		default:
			return "", "", fmt.Errorf("unexpected argument %q: --set takes at most a module directory", args[1])
		}
	}

	if len(args) == 0 {
		return "", "", fmt.Errorf("missing version part: expected major, minor or patch (or --set <version>)")
	}

	part := shmod.BumpPart(args[0])
	if err := part.Validate(); err != nil {
		return "", "", err
	}

	dir := ""
	if len(args) == 2 {
		dir = args[1]
	}
	return part, dir, nil
}
