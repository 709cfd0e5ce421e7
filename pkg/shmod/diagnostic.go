// SPDX-License-Identifier: MPL-2.0

package shmod

const (
	// SeverityNote indicates an informational diagnostic.
	SeverityNote Severity = "note"
	// SeverityWarning indicates a recoverable warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal error diagnostic.
	SeverityError Severity = "error"
)

// Diagnostic codes emitted by scanning and regeneration.
const (
	// CodeFileUnreadable flags a function file that could not be read.
	// The file is excluded from the export surface for this run.
	CodeFileUnreadable = "file_unreadable"
	// CodeManifestMissing flags a module whose shmod.cue is absent; the
	// manifest sync step is skipped but loader generation proceeds.
	CodeManifestMissing = "manifest_missing"
	// CodeExportPatternMissing flags a manifest in which an export array
	// field could not be located; that replacement is skipped.
	CodeExportPatternMissing = "export_pattern_missing"
	// CodeAliasContention flags an alias declared by more than one
	// function file; the lexically-first function keeps it.
	CodeAliasContention = "alias_contention"
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// Diagnostic represents a structured warning or error that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level (note, warning, or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "file_unreadable").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}
)
