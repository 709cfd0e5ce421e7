// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"shmod-cli/internal/config"
	"shmod-cli/internal/discovery"
	"shmod-cli/internal/issue"
	"shmod-cli/pkg/shmod"
)

// resolveTargets maps the shared targeting inputs of the batch commands to
// concrete modules.
//
// Precedence: explicit args beat --all, which beats --root, which beats the
// module enclosing the working directory. Explicit args may be module
// directories or bare module names; names are looked up across the normal
// discovery sources, so `shmod regen netkit` works from anywhere.
func resolveTargets(ctx context.Context, app *App, args []string, all bool, rootDir string) ([]*shmod.Module, []shmod.Diagnostic, error) {
	switch {
	case len(args) > 0:
		var mods []*shmod.Module
		var diags []shmod.Diagnostic
		for _, arg := range args {
			mod, targetDiags, err := resolveTarget(ctx, app, arg)
			diags = append(diags, targetDiags...)
			if err != nil {
				return nil, diags, err
			}
			mods = append(mods, mod)
		}
		return mods, diags, nil

	case all:
		discovered, diags, err := app.Modules.DiscoverAll(ctx)
		if err != nil {
			return nil, diags, err
		}
		return modulesOf(discovered), diags, nil

	case rootDir != "":
		discovered, diags, err := app.Modules.DiscoverUnder(ctx, rootDir)
		if err != nil {
			return nil, diags, err
		}
		if len(discovered) == 0 {
			return nil, diags, fmt.Errorf("no modules found under %s", rootDir)
		}
		return modulesOf(discovered), diags, nil

	default:
		mod, err := enclosingModule()
		if err != nil {
			return nil, nil, err
		}
		return []*shmod.Module{mod}, nil, nil
	}
}

// resolveTarget resolves one positional target: a module directory first,
// then a name lookup when the argument could only be a bare name.
func resolveTarget(ctx context.Context, app *App, arg string) (*shmod.Module, []shmod.Diagnostic, error) {
	if shmod.IsModuleDir(arg) {
		mod, err := shmod.NewModule(arg)
		return mod, nil, err
	}

	if looksLikeModuleName(arg) {
		found, diags, err := app.Modules.FindByName(ctx, arg)
		if err != nil {
			return nil, diags, err
		}
		return found.Module, diags, nil
	}

	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		return nil, nil, fmt.Errorf("%w: no %s in %s", shmod.ErrManifestNotFound, shmod.ManifestName, arg)
	}
	return nil, nil, fmt.Errorf("not a module directory: %s", arg)
}

// resolveSingleTarget resolves an optional directory argument to a module,
// falling back to the module enclosing the working directory.
func resolveSingleTarget(dir string) (*shmod.Module, error) {
	if dir == "" {
		return enclosingModule()
	}
	if !shmod.IsModuleDir(dir) {
		return nil, fmt.Errorf("%w: no %s in %s", shmod.ErrManifestNotFound, shmod.ManifestName, dir)
	}
	return shmod.NewModule(dir)
}

// enclosingModule finds the module containing the working directory.
func enclosingModule() (*shmod.Module, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot resolve working directory: %w", err)
	}
	return discovery.FindEnclosing(wd)
}

// looksLikeModuleName reports whether arg can only be a module name, not a
// path. Anything with a separator is treated as a path and never looked up.
func looksLikeModuleName(arg string) bool {
	return shmod.IsValidModuleName(arg) && !strings.ContainsAny(arg, `/\`)
}

func modulesOf(discovered []*discovery.DiscoveredModule) []*shmod.Module {
	mods := make([]*shmod.Module, 0, len(discovered))
	for _, dm := range discovered {
		mods = append(mods, dm.Module)
	}
	return mods
}

// renderIssueCard writes the styled card for a known failure class to w.
// Errors outside the registry render nothing; RunE still returns the error
// itself, so the user always sees at least the plain message.
func renderIssueCard(w io.Writer, err error) {
	id, ok := issueIDForError(err)
	if !ok {
		return
	}
	rendered, renderErr := issue.Get(id).Render(glamourStyle())
	if renderErr != nil {
		return
	}
	fmt.Fprint(w, rendered)
}

// issueIDForError maps sentinel errors to their issue cards.
func issueIDForError(err error) (issue.Id, bool) {
	switch {
	case errors.Is(err, discovery.ErrNoEnclosingModule),
		errors.Is(err, discovery.ErrModuleNotFound):
		return issue.ModuleNotFoundId, true
	case errors.Is(err, shmod.ErrPublicDirMissing):
		return issue.PublicDirMissingId, true
	case errors.Is(err, shmod.ErrManifestNotFound):
		return issue.ManifestNotFoundId, true
	case errors.Is(err, shmod.ErrLintFailed):
		return issue.LintFailedId, true
	case errors.Is(err, shmod.ErrReimportFailed):
		return issue.ReimportFailedId, true
	case errors.Is(err, shmod.ErrInvalidVersion),
		errors.Is(err, shmod.ErrVersionFieldMissing),
		errors.Is(err, shmod.ErrInvalidBumpPart):
		return issue.InvalidVersionId, true
	}
	return 0, false
}

// glamourStyle maps the configured color scheme to a glamour style name.
func glamourStyle() string {
	cfg, err := config.Load()
	if err != nil || cfg == nil {
		return "dark"
	}
	switch cfg.UI.ColorScheme {
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeAuto:
		return "auto"
	default:
		return "dark"
	}
}
