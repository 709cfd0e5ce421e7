// SPDX-License-Identifier: MPL-2.0

package shmod

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shmod-cli/pkg/platform"
)

// Validate performs structural validation of a module at the given path.
// Returns a ValidationResult with all issues found, or an error if the path
// cannot be accessed at all. Issues are collected, not fail-fast: a single
// run reports everything a fix-up pass needs.
func Validate(modulePath string) (*ValidationResult, error) {
	absPath, err := filepath.Abs(modulePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	result := &ValidationResult{
		Valid:      true,
		ModulePath: absPath,
		Issues:     []ValidationIssue{},
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			result.AddIssue("structure", "path does not exist", "")
			return result, nil
		}
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}
	if !info.IsDir() {
		result.AddIssue("structure", "path is not a directory", "")
		return result, nil
	}

	result.ModuleName = filepath.Base(absPath)
	if !IsValidModuleName(result.ModuleName) {
		result.AddIssue("naming", fmt.Sprintf(
			"directory name %q is not a valid module name: must start with a lowercase letter and contain only lowercase letters, digits, '_' or '-'",
			result.ModuleName), "")
	}

	mod := &Module{Name: result.ModuleName, Root: absPath}

	validateManifest(mod, result)
	validatePublicDir(mod, result)
	validateTree(mod, result)

	return result, nil
}

// validateManifest checks the manifest's presence, schema validity, and that
// its module field matches the directory name.
func validateManifest(mod *Module, result *ValidationResult) {
	manifestInfo, err := os.Stat(mod.ManifestPath())
	switch {
	case err != nil && os.IsNotExist(err):
		result.AddIssue("structure", "missing required "+ManifestName, "")
		return
	case err != nil:
		result.AddIssue("structure", fmt.Sprintf("cannot access %s: %v", ManifestName, err), "")
		return
	case manifestInfo.IsDir():
		result.AddIssue("structure", ManifestName+" must be a file, not a directory", "")
		return
	}

	manifest, parseErr := mod.LoadManifest()
	if parseErr != nil {
		result.AddIssue("manifest", fmt.Sprintf("failed to parse %s: %v", ManifestName, parseErr), ManifestName)
		return
	}
	if manifest.Module != mod.Name {
		result.AddIssue("naming", fmt.Sprintf(
			"module field %q in %s must match directory name %q",
			manifest.Module, ManifestName, mod.Name), ManifestName)
	}
}

// validatePublicDir checks the export surface: public/ exists and the
// generated artifacts are present and current. Staleness is a warning;
// the module still works, it just needs a regen run.
func validatePublicDir(mod *Module, result *ValidationResult) {
	info, err := os.Stat(mod.PublicDir())
	switch {
	case err != nil && os.IsNotExist(err):
		result.AddIssue("structure", "missing required "+PublicDirName+"/ directory", "")
		return
	case err != nil:
		result.AddIssue("structure", fmt.Sprintf("cannot access %s/: %v", PublicDirName, err), "")
		return
	case !info.IsDir():
		result.AddIssue("structure", PublicDirName+" must be a directory", "")
		return
	}

	if _, err := os.Stat(mod.LoaderPath()); os.IsNotExist(err) {
		result.AddWarning("artifacts", fmt.Sprintf("loader %s not generated yet; run 'shmod regen'", mod.LoaderName()), "")
		return
	}

	check, err := Check(mod)
	if err != nil {
		result.AddWarning("artifacts", fmt.Sprintf("cannot check generated artifacts: %v", err), "")
		return
	}
	for _, artifact := range check.Artifacts {
		if artifact.Status == StatusStale {
			rel, _ := filepath.Rel(mod.Root, artifact.Path)
			result.AddWarning("artifacts", "out of date; run 'shmod regen'", rel)
		}
	}
	for _, diag := range check.Diagnostics {
		if diag.Code == CodeAliasContention {
			result.AddWarning("aliases", diag.Message, relOrSelf(mod.Root, diag.Path))
		}
	}
}

// validateTree walks the whole module checking per-file concerns: symlinked
// function files, files nested below the loader's reach, names reserved on
// Windows, and exported names outside the grammar.
func validateTree(mod *Module, result *ValidationResult) {
	publicDir := mod.PublicDir()

	_ = filepath.WalkDir(mod.Root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // Intentionally skip errors to continue walking
		}
		if path == mod.Root {
			return nil
		}

		relPath, _ := filepath.Rel(mod.Root, path)

		if d.Type()&os.ModeSymlink != 0 {
			result.AddWarning("structure", "symlinks are not portable across module installs", relPath)
			return nil
		}

		if platform.IsWindowsReservedName(d.Name()) {
			result.AddWarning("compatibility", fmt.Sprintf("filename %q is reserved on Windows", d.Name()), relPath)
		}

		if d.IsDir() || filepath.Ext(d.Name()) != FunctionFileExt {
			return nil
		}

		// Depth and grammar checks only apply to exported function files.
		relToPublic, err := filepath.Rel(publicDir, path)
		if err != nil || strings.HasPrefix(relToPublic, "..") {
			return nil
		}

		if depth := len(strings.Split(filepath.ToSlash(relToPublic), "/")); depth > MaxLoaderDepth {
			result.AddWarning("structure", fmt.Sprintf(
				"nested deeper than the loader sources (%d levels); it will not be loaded", MaxLoaderDepth), relPath)
		}

		name := strings.TrimSuffix(d.Name(), FunctionFileExt)
		if !IsValidFunctionName(strings.TrimSuffix(name, WIPSuffix)) {
			result.AddIssue("naming", fmt.Sprintf(
				"file base name %q is not a valid function name", name), relPath)
		}

		return nil
	})
}

// relOrSelf returns path relative to root, or path itself when it does not
// sit under root.
func relOrSelf(root, path string) string {
	if path == "" {
		return ""
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
