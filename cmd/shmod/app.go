// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"shmod-cli/internal/config"
	"shmod-cli/internal/discovery"
	"shmod-cli/pkg/shmod"
	"shmod-cli/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: command handlers that need discovery or
	// configuration receive an App reference and delegate through its
	// service interfaces.
	App struct {
		Config      ConfigProvider
		Modules     ModuleResolver
		Diagnostics DiagnosticRenderer
		stdout      io.Writer
		stderr      io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp. Tests can supply mock
	// implementations to isolate specific service behavior.
	Dependencies struct {
		Config      ConfigProvider
		Modules     ModuleResolver
		Diagnostics DiagnosticRenderer
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources or mock
	// implementations.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// ModuleResolver finds modules for the batch commands. All methods return
	// user-renderable diagnostics rather than writing to stderr directly.
	ModuleResolver interface {
		// DiscoverAll finds modules across all discovery sources.
		DiscoverAll(ctx context.Context) ([]*discovery.DiscoveredModule, []shmod.Diagnostic, error)
		// DiscoverUnder finds modules in the tree rooted at root.
		DiscoverUnder(ctx context.Context, root string) ([]*discovery.DiscoveredModule, []shmod.Diagnostic, error)
		// LoadAll discovers modules and parses their manifests.
		LoadAll(ctx context.Context) ([]*discovery.DiscoveredModule, []shmod.Diagnostic, error)
		// FindByName resolves a bare module name across the discovery sources.
		FindByName(ctx context.Context, name string) (*discovery.DiscoveredModule, []shmod.Diagnostic, error)
	}

	// DiagnosticRenderer renders structured diagnostics.
	DiagnosticRenderer interface {
		Render(ctx context.Context, diags []shmod.Diagnostic, stderr io.Writer)
	}

	// appModuleResolver implements ModuleResolver by building a fresh
	// discovery.Discovery from the current configuration on every call.
	// Config load failures downgrade to defaults with a diagnostic so batch
	// commands stay operational.
	appModuleResolver struct {
		config ConfigProvider
	}

	defaultDiagnosticRenderer struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Modules == nil {
		deps.Modules = &appModuleResolver{config: deps.Config}
	}
	if deps.Diagnostics == nil {
		deps.Diagnostics = &defaultDiagnosticRenderer{}
	}

	return &App{
		Config:      deps.Config,
		Modules:     deps.Modules,
		Diagnostics: deps.Diagnostics,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
	}
}

// DiscoverAll finds modules from all sources and prepends configuration diagnostics.
func (r *appModuleResolver) DiscoverAll(ctx context.Context) ([]*discovery.DiscoveredModule, []shmod.Diagnostic, error) {
	disc, cfgDiags := r.discovery(ctx)
	modules, diags, err := disc.DiscoverAll(ctx)
	return modules, append(cfgDiags, diags...), err
}

// DiscoverUnder finds modules in the tree rooted at root.
func (r *appModuleResolver) DiscoverUnder(ctx context.Context, root string) ([]*discovery.DiscoveredModule, []shmod.Diagnostic, error) {
	disc, cfgDiags := r.discovery(ctx)
	modules, diags, err := disc.DiscoverUnder(ctx, root, discovery.SourceExplicit)
	return modules, append(cfgDiags, diags...), err
}

// LoadAll discovers modules and parses their manifests.
func (r *appModuleResolver) LoadAll(ctx context.Context) ([]*discovery.DiscoveredModule, []shmod.Diagnostic, error) {
	disc, cfgDiags := r.discovery(ctx)
	modules, diags, err := disc.LoadAll(ctx)
	return modules, append(cfgDiags, diags...), err
}

// FindByName resolves a bare module name across the discovery sources.
func (r *appModuleResolver) FindByName(ctx context.Context, name string) (*discovery.DiscoveredModule, []shmod.Diagnostic, error) {
	disc, cfgDiags := r.discovery(ctx)
	found, diags, err := disc.FindByName(ctx, name)
	return found, append(cfgDiags, diags...), err
}

// discovery builds a Discovery instance from the current configuration.
func (r *appModuleResolver) discovery(ctx context.Context) (*discovery.Discovery, []shmod.Diagnostic) {
	cfg, diags := loadConfigWithFallback(ctx, r.config, cfgFile)
	return discovery.New(cfg), diags
}

// loadConfigWithFallback loads configuration via the provider. On failure it
// returns defaults with a diagnostic so callers stay operational.
//
// Diagnostic severity depends on the failure mode:
//   - Explicit --config path: always SeverityError (user-specified file must work).
//   - Default path with existing but malformed file: SeverityError (syntax errors
//     in a file the user created should not be silently downgraded to a warning).
//   - Default path with missing config dir or similar infrastructure error:
//     SeverityWarning (common on fresh installs, defaults are appropriate).
func loadConfigWithFallback(ctx context.Context, provider ConfigProvider, configPath string) (*config.Config, []shmod.Diagnostic) {
	cfg, err := provider.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(configPath)})
	if err == nil {
		return cfg, nil
	}

	// When the user explicitly specified a config path, do not silently fall
	// back to defaults; surface the error as a diagnostic so downstream
	// callers can decide whether to abort.
	if configPath != "" {
		return config.DefaultConfig(), []shmod.Diagnostic{{
			Severity: shmod.SeverityError,
			Code:     "config_load_failed",
			Message:  fmt.Sprintf("failed to load config from %s: %v", configPath, err),
			Path:     configPath,
			Cause:    err,
		}}
	}

	// Default config path: the loader only returns errors for existing files;
	// missing files silently return defaults. So an error here usually means a
	// config file exists but is malformed. A missing config directory (fresh
	// install, unusual HOME) is the one infrastructure case worth downgrading.
	severity := shmod.SeverityError
	if errors.Is(err, os.ErrNotExist) {
		severity = shmod.SeverityWarning
	}

	return config.DefaultConfig(), []shmod.Diagnostic{{
		Severity: severity,
		Code:     "config_load_failed",
		Message:  fmt.Sprintf("failed to load config, using defaults: %v", err),
		Cause:    err,
	}}
}

// Render writes structured diagnostics to stderr with lipgloss styling.
func (r *defaultDiagnosticRenderer) Render(_ context.Context, diags []shmod.Diagnostic, stderr io.Writer) {
	for _, diag := range diags {
		var prefix string
		switch diag.Severity {
		case shmod.SeverityError:
			prefix = ErrorStyle.Render("error")
		case shmod.SeverityNote:
			prefix = SubtitleStyle.Render("note")
		default:
			prefix = WarningStyle.Render("warning")
		}

		if diag.Path != "" {
			_, _ = fmt.Fprintf(stderr, "%s: %s (%s)\n", prefix, diag.Message, diag.Path)
			continue
		}

		_, _ = fmt.Fprintf(stderr, "%s: %s\n", prefix, diag.Message)
	}
}
