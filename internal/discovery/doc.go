// SPDX-License-Identifier: MPL-2.0

// Package discovery handles finding shell modules across the configured
// search locations.
//
// A module is any directory containing a shmod.cue manifest. Discovery
// walks three sources in precedence order: the module enclosing the
// working directory, the user modules directory (~/.shmod/modules), and
// the configured module_roots. Non-fatal problems surface as structured
// shmod.Diagnostic values returned to the caller; the package never
// writes to stderr so the CLI layer keeps a single rendering policy.
//
// File organization:
//   - discovery.go: Core types (Discovery, DiscoveredModule) and loading methods
//   - walk.go: Root walking (DiscoverUnder, module-interior and noise skipping)
package discovery
