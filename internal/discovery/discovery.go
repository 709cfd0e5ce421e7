// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"shmod-cli/internal/config"
	"shmod-cli/pkg/shmod"
	"shmod-cli/pkg/types"
)

const (
	// SourceExplicit indicates the module path was given on the command line
	SourceExplicit Source = iota
	// SourceCurrentDir indicates the module encloses the working directory
	SourceCurrentDir
	// SourceUserDir indicates the module was found in ~/.shmod/modules
	SourceUserDir
	// SourceConfigRoot indicates the module was found under a configured module root
	SourceConfigRoot
)

var (
	// ErrNoEnclosingModule is returned when no ancestor of the start
	// directory contains a shmod.cue manifest.
	ErrNoEnclosingModule = errors.New("no enclosing module")

	// ErrModuleNotFound is returned when a name lookup matches no
	// discovered module.
	ErrModuleNotFound = errors.New("module not found")
)

type (
	// Source represents where a module was found
	Source int

	// DiscoveredModule represents a found module with its source
	DiscoveredModule struct {
		// Module locates the module on disk
		Module *shmod.Module
		// Source indicates where the module was found
		Source Source
		// Manifest is the parsed content (may be nil if not yet parsed)
		Manifest *shmod.Manifest
		// Error contains any error that occurred during parsing
		Error error
	}

	// Discovery handles finding modules
	Discovery struct {
		cfg        *config.Config
		baseDir    string
		modulesDir string
		// initDiagnostics captures construction-time failures (e.g. os.Getwd)
		// so they surface through the standard diagnostic rendering pipeline.
		initDiagnostics []shmod.Diagnostic
	}

	// Option customizes a Discovery instance at construction time.
	Option func(*Discovery)
)

// WithBaseDir overrides the working directory used for enclosing-module
// lookup. Primarily for tests.
func WithBaseDir(dir types.FilesystemPath) Option {
	return func(d *Discovery) {
		d.baseDir = string(dir)
	}
}

// WithModulesDir overrides the user modules directory. Primarily for tests.
func WithModulesDir(dir types.FilesystemPath) Option {
	return func(d *Discovery) {
		d.modulesDir = string(dir)
	}
}

// String returns a human-readable source name
func (s Source) String() string {
	switch s {
	case SourceExplicit:
		return "command line"
	case SourceCurrentDir:
		return "current directory"
	case SourceUserDir:
		return "user modules (~/.shmod/modules)"
	case SourceConfigRoot:
		return "configured module root"
	default:
		return "unknown"
	}
}

// New creates a new Discovery instance. Construction never fails; problems
// resolving the working directory or the user modules directory are recorded
// as diagnostics and the affected source is skipped during discovery.
func New(cfg *config.Config, opts ...Option) *Discovery {
	d := &Discovery{cfg: cfg}

	for _, opt := range opts {
		opt(d)
	}

	if d.baseDir == "" {
		baseDir, err := os.Getwd()
		if err != nil {
			d.initDiagnostics = append(d.initDiagnostics, shmod.Diagnostic{
				Severity: shmod.SeverityWarning,
				Code:     "workdir_unavailable",
				Message:  fmt.Sprintf("cannot resolve working directory, skipping current-directory discovery: %v", err),
				Cause:    err,
			})
		} else {
			d.baseDir = baseDir
		}
	}

	if d.modulesDir == "" {
		modulesDir, err := config.ModulesDir()
		if err != nil {
			d.initDiagnostics = append(d.initDiagnostics, shmod.Diagnostic{
				Severity: shmod.SeverityWarning,
				Code:     "user_modules_dir_unavailable",
				Message:  fmt.Sprintf("cannot resolve user modules directory, skipping: %v", err),
				Cause:    err,
			})
		} else {
			d.modulesDir = modulesDir
		}
	}

	return d
}

// DiscoverAll finds all modules from all sources in 3-level precedence order:
//  1. The module enclosing the working directory (highest precedence)
//  2. The user modules directory (~/.shmod/modules)
//  3. Configured module_roots, or the working directory tree when no
//     roots are configured
//
// Earlier sources take precedence for disambiguation when the same module
// name appears in multiple sources; the shadowed module is skipped with a
// warning diagnostic.
func (d *Discovery) DiscoverAll(ctx context.Context) ([]*DiscoveredModule, []shmod.Diagnostic, error) {
	var modules []*DiscoveredModule
	// Seed with any init-time diagnostics so they surface through the
	// standard diagnostic rendering pipeline.
	diagnostics := make([]shmod.Diagnostic, 0, len(d.initDiagnostics))
	diagnostics = append(diagnostics, d.initDiagnostics...)

	// 1. Enclosing module of the working directory (highest precedence).
	// Skip when baseDir is empty (os.Getwd failed at construction).
	if d.baseDir != "" {
		if enclosing, err := FindEnclosing(d.baseDir); err == nil {
			modules = append(modules, &DiscoveredModule{
				Module: enclosing,
				Source: SourceCurrentDir,
			})
		} else if !errors.Is(err, ErrNoEnclosingModule) {
			diagnostics = append(diagnostics, shmod.Diagnostic{
				Severity: shmod.SeverityWarning,
				Code:     "enclosing_lookup_failed",
				Message:  fmt.Sprintf("failed to look for an enclosing module of %s: %v", d.baseDir, err),
				Path:     d.baseDir,
				Cause:    err,
			})
		}
	}

	// 2. User modules directory. A missing directory is common and not
	// worth a warning, unlike an explicitly configured root.
	if d.modulesDir != "" {
		if _, statErr := os.Stat(d.modulesDir); statErr == nil {
			userModules, userDiags, err := d.DiscoverUnder(ctx, d.modulesDir, SourceUserDir)
			if err != nil {
				return nil, diagnostics, err
			}
			modules = append(modules, userModules...)
			diagnostics = append(diagnostics, userDiags...)
		}
	}

	// 3. Configured module roots, falling back to the working directory
	// tree when none are configured
	switch {
	case d.cfg != nil && len(d.cfg.ModuleRoots) > 0:
		for _, root := range d.cfg.ModuleRoots {
			rootModules, rootDiags, err := d.DiscoverUnder(ctx, string(root), SourceConfigRoot)
			if err != nil {
				return nil, diagnostics, err
			}
			modules = append(modules, rootModules...)
			diagnostics = append(diagnostics, rootDiags...)
		}
	case d.baseDir != "":
		cwdModules, cwdDiags, err := d.DiscoverUnder(ctx, d.baseDir, SourceCurrentDir)
		if err != nil {
			return nil, diagnostics, err
		}
		modules = append(modules, cwdModules...)
		diagnostics = append(diagnostics, cwdDiags...)
	}

	modules, dedupeDiags := dedupeByName(modules)
	diagnostics = append(diagnostics, dedupeDiags...)

	return modules, diagnostics, nil
}

// LoadAll discovers all modules and parses their manifests. Parse failures
// are recorded per module (Error field) and as warning diagnostics; they
// never abort the batch.
func (d *Discovery) LoadAll(ctx context.Context) ([]*DiscoveredModule, []shmod.Diagnostic, error) {
	modules, diagnostics, err := d.DiscoverAll(ctx)
	if err != nil {
		return nil, diagnostics, err
	}

	for _, dm := range modules {
		manifest, parseErr := dm.Module.LoadManifest()
		if parseErr != nil {
			dm.Error = parseErr
			diagnostics = append(diagnostics, shmod.Diagnostic{
				Severity: shmod.SeverityWarning,
				Code:     "manifest_parse_skipped",
				Message:  fmt.Sprintf("skipping unparseable manifest of module %s: %v", dm.Module.Name, parseErr),
				Path:     dm.Module.ManifestPath(),
				Cause:    parseErr,
			})
			continue
		}
		dm.Manifest = manifest
	}

	return modules, diagnostics, nil
}

// FindByName finds a module by name across all sources, honoring source
// precedence. Returns ErrModuleNotFound (wrapped) when no module matches.
func (d *Discovery) FindByName(ctx context.Context, name string) (*DiscoveredModule, []shmod.Diagnostic, error) {
	modules, diagnostics, err := d.DiscoverAll(ctx)
	if err != nil {
		return nil, diagnostics, err
	}

	for _, dm := range modules {
		if dm.Module.Name == name {
			return dm, diagnostics, nil
		}
	}

	return nil, diagnostics, fmt.Errorf("module %q: %w", name, ErrModuleNotFound)
}

// FindEnclosing walks up from dir until it finds a directory containing a
// shmod.cue manifest. Returns ErrNoEnclosingModule when the filesystem root
// is reached without a match.
func FindEnclosing(dir string) (*shmod.Module, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve start directory %s: %w", dir, err)
	}

	for {
		if shmod.IsModuleDir(current) {
			return shmod.NewModule(current)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return nil, fmt.Errorf("%s: %w", dir, ErrNoEnclosingModule)
		}
		current = parent
	}
}

// dedupeByName drops modules whose name was already claimed by an earlier
// (higher precedence) source. Two discoveries of the same directory are
// collapsed silently; a genuine name collision between different
// directories earns a warning diagnostic.
func dedupeByName(modules []*DiscoveredModule) ([]*DiscoveredModule, []shmod.Diagnostic) {
	var diagnostics []shmod.Diagnostic

	out := make([]*DiscoveredModule, 0, len(modules))
	claimed := make(map[string]*DiscoveredModule)

	for _, dm := range modules {
		first, exists := claimed[dm.Module.Name]
		if !exists {
			claimed[dm.Module.Name] = dm
			out = append(out, dm)
			continue
		}

		if first.Module.Root == dm.Module.Root {
			continue
		}

		diagnostics = append(diagnostics, shmod.Diagnostic{
			Severity: shmod.SeverityWarning,
			Code:     "module_name_shadowed",
			Message: fmt.Sprintf("module %q at %s is shadowed by %s (%s)",
				dm.Module.Name, dm.Module.Root, first.Module.Root, first.Source),
			Path: dm.Module.Root,
		})
	}

	return out, diagnostics
}
