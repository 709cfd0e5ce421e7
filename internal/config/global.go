// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"

	"shmod-cli/pkg/types"
)

// Package-level state backing the cached Load() path used by the CLI
// bootstrap. Commands that need explicit control use Provider instead.
var (
	cachedConfig *Config

	// configPath is the file the cached config was loaded from, or "" when
	// defaults are in effect.
	configPath string

	// configFilePathOverride forces loading from a specific file (--config flag).
	configFilePathOverride string

	// configDirOverride allows tests to override the config directory.
	// This is necessary because os.UserHomeDir() doesn't reliably respect
	// the HOME environment variable on all platforms (e.g., macOS in CI).
	configDirOverride string
)

// Load returns the application configuration, loading it on first use and
// caching the result for subsequent calls.
func Load() (*Config, error) {
	if cachedConfig != nil {
		return cachedConfig, nil
	}

	cfg, resolvedPath, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: types.FilesystemPath(configFilePathOverride),
	})
	if err != nil {
		return nil, err
	}

	cachedConfig = cfg
	configPath = resolvedPath
	return cfg, nil
}

// ConfigFilePath returns the path of the loaded config file, or "" when no
// file has been loaded (defaults in effect, or Load not yet called).
func ConfigFilePath() string {
	return configPath
}

// SetConfigFilePathOverride forces Load to read a specific config file.
// Called from the root command when --config is set. Clears the cache.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
	cachedConfig = nil
	configPath = ""
}

// SetConfigDirOverride sets a custom config directory path.
// This is primarily intended for testing to bypass os.UserHomeDir() which
// doesn't reliably respect the HOME env var on all platforms (e.g., macOS in CI).
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
	cachedConfig = nil
	configPath = ""
}

// ResetCache clears the cached config while preserving overrides, forcing the
// next Load to re-read from disk.
func ResetCache() {
	cachedConfig = nil
	configPath = ""
}

// Reset clears test overrides and the cached config. Call from test cleanup
// to restore defaults.
func Reset() {
	configFilePathOverride = ""
	configDirOverride = ""
	cachedConfig = nil
	configPath = ""
}
