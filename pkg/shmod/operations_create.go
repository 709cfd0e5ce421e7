// SPDX-License-Identifier: MPL-2.0

package shmod

import (
	"fmt"
	"os"
	"path/filepath"
)

// CreateOptions configures module scaffolding.
type CreateOptions struct {
	// Name is the module name; it becomes the directory base name and the
	// manifest's module field. Must match the module name grammar.
	Name string

	// ParentDir is where the module directory is created.
	// Defaults to the current directory.
	ParentDir string

	// Description is the manifest description.
	// Defaults to a generated one-liner.
	Description string
}

// Create scaffolds a new module: the directory, a manifest, public/ and
// private/ with a sample function, then one Regenerate pass so the loader
// and the manifest export arrays exist from the first commit. On any failure
// the partially created directory is removed.
func Create(opts CreateOptions) (*Module, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("module name cannot be empty")
	}
	if !IsValidModuleName(opts.Name) {
		return nil, fmt.Errorf("module name %q is invalid: must start with a lowercase letter and contain only lowercase letters, digits, '_' or '-' (e.g. 'netkit', 'aws-tools')", opts.Name)
	}

	parentDir := opts.ParentDir
	if parentDir == "" {
		var err error
		parentDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	absParentDir, err := filepath.Abs(parentDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve parent directory: %w", err)
	}

	modulePath := filepath.Join(absParentDir, opts.Name)
	if _, err := os.Stat(modulePath); err == nil {
		return nil, fmt.Errorf("module already exists at %s", modulePath)
	}

	if err := os.MkdirAll(modulePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create module directory: %w", err)
	}

	description := opts.Description
	if description == "" {
		description = fmt.Sprintf("Shell functions from the %s module", opts.Name)
	}

	manifestContent := fmt.Sprintf(`// Manifest for the %s module.
// The exports block is maintained by 'shmod regen'; edit everything else.

module: %q
version: "0.1.0"
description: %q

exports: {
	functions: []
	aliases: []
}
`, opts.Name, opts.Name, description)

	manifestPath := filepath.Join(modulePath, ManifestName)
	if err := os.WriteFile(manifestPath, []byte(manifestContent), 0o644); err != nil {
		_ = os.RemoveAll(modulePath) // Best-effort cleanup on error path
		return nil, fmt.Errorf("failed to create %s: %w", ManifestName, err)
	}

	// Sample function so a fresh module loads and exports something.
	sampleContent := fmt.Sprintf(`hello() {
	echo "Hello from the %s module!"
}
`, opts.Name)

	publicDir := filepath.Join(modulePath, PublicDirName)
	if err := os.MkdirAll(publicDir, 0o755); err != nil {
		_ = os.RemoveAll(modulePath) // Best-effort cleanup on error path
		return nil, fmt.Errorf("failed to create public directory: %w", err)
	}
	samplePath := filepath.Join(publicDir, "hello"+FunctionFileExt)
	if err := os.WriteFile(samplePath, []byte(sampleContent), 0o644); err != nil {
		_ = os.RemoveAll(modulePath) // Best-effort cleanup on error path
		return nil, fmt.Errorf("failed to create sample function: %w", err)
	}

	privateDir := filepath.Join(modulePath, PrivateDirName)
	if err := os.MkdirAll(privateDir, 0o755); err != nil {
		_ = os.RemoveAll(modulePath) // Best-effort cleanup on error path
		return nil, fmt.Errorf("failed to create private directory: %w", err)
	}
	gitkeepPath := filepath.Join(privateDir, ".gitkeep")
	if err := os.WriteFile(gitkeepPath, []byte(""), 0o644); err != nil {
		_ = os.RemoveAll(modulePath) // Best-effort cleanup on error path
		return nil, fmt.Errorf("failed to create .gitkeep: %w", err)
	}

	mod, err := NewModule(modulePath)
	if err != nil {
		_ = os.RemoveAll(modulePath) // Best-effort cleanup on error path
		return nil, err
	}

	if _, err := Regenerate(mod); err != nil {
		_ = os.RemoveAll(modulePath) // Best-effort cleanup on error path
		return nil, fmt.Errorf("failed to generate loader: %w", err)
	}

	return mod, nil
}
