// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for shmod.
//
// This package implements the Cobra command hierarchy for the shmod CLI:
// the root command, the regeneration and build pipeline commands, module
// scaffolding and inspection commands, watch mode, and configuration
// management. Command handlers delegate business logic to pkg/shmod and
// the internal services wired through the App composition root.
package cmd
