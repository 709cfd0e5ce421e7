// SPDX-License-Identifier: MPL-2.0

// Package shmod defines the shell function module format and the operations
// that keep a module's generated artifacts in sync with its function files.
//
// A module is a directory holding one shell function per file under public/
// (the exported surface) and private/ (helpers), a declarative CUE manifest
// (shmod.cue), and a generated loader script (<module>.sh). The regeneration
// pipeline scans the public directory, derives the export surface, renders
// the loader wholesale, and patches the two export arrays inside the manifest
// in place. Regeneration is idempotent: rendering is a pure function of the
// discovered function set, so a second run with unchanged sources writes
// nothing.
//
// The remaining operations wrap that core: Create scaffolds a module,
// Validate checks its structure, Lint checks the function files themselves,
// Build chains regeneration, lint, and an in-process reimport probe, and
// Bump rewrites the manifest version field.
package shmod
