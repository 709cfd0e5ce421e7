// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// maxDebounceMillis caps the watch debounce window at ten minutes.
	// Larger values almost certainly mean the user typed seconds by mistake.
	maxDebounceMillis = 600000
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidModuleRootPath is the sentinel error wrapped by InvalidModuleRootPathError.
	ErrInvalidModuleRootPath = errors.New("invalid module root path")
	// ErrInvalidDebounce is returned when a DebounceMillis value is out of range.
	ErrInvalidDebounce = errors.New("invalid debounce interval")
	// ErrInvalidLintConfigPath is returned when a LintConfigPath value is whitespace-only.
	ErrInvalidLintConfigPath = errors.New("invalid lint config path")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidWatchConfig is the sentinel error wrapped by InvalidWatchConfigError.
	ErrInvalidWatchConfig = errors.New("invalid watch config")
	// ErrInvalidLintConfig is the sentinel error wrapped by InvalidLintConfigError.
	ErrInvalidLintConfig = errors.New("invalid lint config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// ModuleRootPath represents a filesystem path to a directory that is
	// scanned for shell modules. A valid path must be non-empty and not
	// whitespace-only.
	ModuleRootPath string

	// InvalidModuleRootPathError is returned when a ModuleRootPath value is
	// empty or whitespace-only. It wraps ErrInvalidModuleRootPath for errors.Is().
	InvalidModuleRootPathError struct {
		Value ModuleRootPath
	}

	// DebounceMillis is the watch-mode debounce window in milliseconds.
	// The zero value (0) is valid and means "use the built-in default".
	// Non-zero values must be in the range 1–600000.
	DebounceMillis int

	// InvalidDebounceError is returned when a DebounceMillis value is
	// negative or exceeds the maximum window.
	InvalidDebounceError struct {
		Value DebounceMillis
	}

	// LintConfigPath represents a filesystem path to a lint configuration file.
	// The zero value ("") is valid and means "use the per-module lint.toml".
	// Non-zero values must not be whitespace-only.
	LintConfigPath string

	// InvalidLintConfigPathError is returned when a LintConfigPath value is
	// non-empty but whitespace-only.
	InvalidLintConfigPathError struct {
		Value LintConfigPath
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidWatchConfigError is returned when a WatchConfig has invalid fields.
	// It wraps ErrInvalidWatchConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}

	// InvalidLintConfigError is returned when a LintConfig has invalid fields.
	// It wraps ErrInvalidLintConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidLintConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ModuleRoots lists directories scanned for shell modules in addition
		// to the working directory.
		ModuleRoots []ModuleRootPath `json:"module_roots" mapstructure:"module_roots"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Watch configures watch-mode behavior
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
		// Lint configures lint defaults
		Lint LintConfig `json:"lint" mapstructure:"lint"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// WatchConfig configures watch-mode behavior.
	WatchConfig struct {
		// DebounceMillis is the quiet window before a rebuild fires.
		DebounceMillis DebounceMillis `json:"debounce_ms" mapstructure:"debounce_ms"`
		// ClearScreen clears the terminal before each watch-triggered run.
		ClearScreen bool `json:"clear_screen" mapstructure:"clear_screen"`
	}

	// LintConfig configures lint defaults.
	LintConfig struct {
		// ConfigFile overrides the per-module lint.toml lookup.
		ConfigFile LintConfigPath `json:"config_file" mapstructure:"config_file"`
	}
)

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the WatchConfig has valid fields.
// It delegates to DebounceMillis.IsValid(); bool fields need no validation.
func (c WatchConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.DebounceMillis.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidWatchConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidWatchConfigError.
func (e *InvalidWatchConfigError) Error() string {
	return fmt.Sprintf("invalid watch config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidWatchConfig for errors.Is() compatibility.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }

// IsValid returns whether the LintConfig has valid fields.
// It delegates to ConfigFile.IsValid().
func (c LintConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ConfigFile.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidLintConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidLintConfigError.
func (e *InvalidLintConfigError) Error() string {
	return fmt.Sprintf("invalid lint config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidLintConfig for errors.Is() compatibility.
func (e *InvalidLintConfigError) Unwrap() error { return ErrInvalidLintConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to each ModuleRoots entry's IsValid(), UI.IsValid(),
// Watch.IsValid(), and Lint.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, root := range c.ModuleRoots {
		if valid, fieldErrs := root.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Watch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Lint.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the ModuleRootPath.
func (p ModuleRootPath) String() string { return string(p) }

// IsValid returns whether the ModuleRootPath is valid.
// A valid path must be non-empty and not whitespace-only.
func (p ModuleRootPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidModuleRootPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidModuleRootPathError.
func (e *InvalidModuleRootPathError) Error() string {
	return fmt.Sprintf("invalid module root path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidModuleRootPath for errors.Is() compatibility.
func (e *InvalidModuleRootPathError) Unwrap() error { return ErrInvalidModuleRootPath }

// IsValid returns whether the DebounceMillis is valid.
// The zero value (0) is valid (means "use the built-in default").
// Non-zero values must be in the range 1–600000.
func (d DebounceMillis) IsValid() (bool, []error) {
	if d < 0 || d > maxDebounceMillis {
		return false, []error{&InvalidDebounceError{Value: d}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDebounceError.
func (e *InvalidDebounceError) Error() string {
	return fmt.Sprintf("invalid debounce interval %dms (valid: 0-%dms)", e.Value, maxDebounceMillis)
}

// Unwrap returns ErrInvalidDebounce for errors.Is() compatibility.
func (e *InvalidDebounceError) Unwrap() error { return ErrInvalidDebounce }

// String returns the string representation of the LintConfigPath.
func (p LintConfigPath) String() string { return string(p) }

// IsValid returns whether the LintConfigPath is valid.
// The zero value ("") is valid (means "use the per-module lint.toml").
// Non-zero values must not be whitespace-only.
func (p LintConfigPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidLintConfigPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidLintConfigPathError.
func (e *InvalidLintConfigPathError) Error() string {
	return fmt.Sprintf("invalid lint config path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidLintConfigPath for errors.Is() compatibility.
func (e *InvalidLintConfigPathError) Unwrap() error { return ErrInvalidLintConfigPath }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ModuleRoots: []ModuleRootPath{},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Watch: WatchConfig{
			DebounceMillis: 250,
			ClearScreen:    true,
		},
		Lint: LintConfig{
			ConfigFile: "",
		},
	}
}
