// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"shmod-cli/pkg/shmod"
)

// noiseDirs are directory names that never contain modules worth walking
// into. VCS metadata and dependency trees tend to be huge and irrelevant.
var noiseDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
}

// DiscoverUnder finds all modules in the directory tree rooted at root and
// reports non-fatal problems as warning diagnostics. A missing root is a
// warning, not an error: configured roots may legitimately not exist yet.
//
// Module interiors are not recursed into, so a module vendored inside
// another module's public/ or private/ tree is invisible here. Results are
// sorted by module root path for deterministic ordering.
func (d *Discovery) DiscoverUnder(ctx context.Context, root string, source Source) ([]*DiscoveredModule, []shmod.Diagnostic, error) {
	var modules []*DiscoveredModule
	diagnostics := make([]shmod.Diagnostic, 0)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		slog.Warn("failed to resolve absolute path for discovery root", "root", root, "error", err)
		diagnostics = append(diagnostics, shmod.Diagnostic{
			Severity: shmod.SeverityWarning,
			Code:     "root_path_invalid",
			Message:  fmt.Sprintf("failed to resolve module root %q: %v", root, err),
			Path:     root,
			Cause:    err,
		})
		return modules, diagnostics, nil
	}

	if _, statErr := os.Stat(absRoot); os.IsNotExist(statErr) {
		diagnostics = append(diagnostics, shmod.Diagnostic{
			Severity: shmod.SeverityWarning,
			Code:     "root_missing",
			Message:  fmt.Sprintf("module root does not exist, skipping: %s", absRoot),
			Path:     absRoot,
		})
		return modules, diagnostics, nil
	}

	walkErr := filepath.WalkDir(absRoot, func(path string, entry fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			diagnostics = append(diagnostics, shmod.Diagnostic{
				Severity: shmod.SeverityWarning,
				Code:     "dir_unreadable",
				Message:  fmt.Sprintf("skipping unreadable path while scanning %s: %v", absRoot, err),
				Path:     path,
				Cause:    err,
			})
			return nil
		}

		if !entry.IsDir() {
			return nil
		}

		if noiseDirs[entry.Name()] {
			return filepath.SkipDir
		}

		if shmod.IsModuleDir(path) {
			m, modErr := shmod.NewModule(path)
			if modErr != nil {
				diagnostics = append(diagnostics, shmod.Diagnostic{
					Severity: shmod.SeverityWarning,
					Code:     "module_load_skipped",
					Message:  fmt.Sprintf("skipping invalid module at %s: %v", path, modErr),
					Path:     path,
					Cause:    modErr,
				})
				return filepath.SkipDir
			}

			modules = append(modules, &DiscoveredModule{
				Module: m,
				Source: source,
			})

			// Do not look for modules inside modules.
			return filepath.SkipDir
		}

		return nil
	})
	if walkErr != nil {
		return nil, diagnostics, fmt.Errorf("scan module root %s: %w", absRoot, walkErr)
	}

	sort.Slice(modules, func(i, j int) bool {
		return modules[i].Module.Root < modules[j].Module.Root
	})

	return modules, diagnostics, nil
}
