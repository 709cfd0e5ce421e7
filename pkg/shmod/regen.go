// SPDX-License-Identifier: MPL-2.0

package shmod

import (
	"fmt"
	"os"
)

const (
	// StatusUnchanged means the on-disk artifact already matches the
	// rendered content; nothing was written.
	StatusUnchanged ArtifactStatus = "unchanged"
	// StatusUpdated means the artifact differed and was overwritten.
	StatusUpdated ArtifactStatus = "updated"
	// StatusStale means the artifact differs but the run was check-only.
	StatusStale ArtifactStatus = "stale"
	// StatusSkipped means the artifact could not be processed (e.g. the
	// manifest is absent); details are in the result diagnostics.
	StatusSkipped ArtifactStatus = "skipped"
)

// Artifact names reported per regeneration.
const (
	ArtifactLoader   = "loader"
	ArtifactManifest = "manifest"
)

type (
	// ArtifactStatus is the per-artifact outcome of a regeneration run.
	ArtifactStatus string

	// ArtifactResult reports the outcome for one generated artifact.
	ArtifactResult struct {
		Name   string
		Path   string
		Status ArtifactStatus
	}

	// RegenerationResult is the full outcome of regenerating (or checking)
	// one module. Diagnostics carry every warning produced along the way;
	// nothing below the CLI layer prints.
	RegenerationResult struct {
		Module       *Module
		Artifacts    []ArtifactResult
		Exports      *ExportSet
		FilesScanned int
		Diagnostics  []Diagnostic
	}
)

// Stale reports whether any artifact was found out of date by a check run.
func (r *RegenerationResult) Stale() bool {
	for _, a := range r.Artifacts {
		if a.Status == StatusStale {
			return true
		}
	}
	return false
}

// Artifact returns the result entry for the named artifact, or nil.
func (r *RegenerationResult) Artifact(name string) *ArtifactResult {
	for i := range r.Artifacts {
		if r.Artifacts[i].Name == name {
			return &r.Artifacts[i]
		}
	}
	return nil
}

// Regenerate derives the module's export surface from public/ and syncs both
// generated artifacts: the loader script is rendered whole, the manifest's
// two export arrays are spliced in place. Artifacts whose normalized content
// already matches disk are not rewritten, so a second run reports every
// artifact unchanged.
func Regenerate(mod *Module) (*RegenerationResult, error) {
	return regenerate(mod, true)
}

// Check performs the same derivation and comparison as Regenerate but never
// writes: artifacts that would change report StatusStale. Useful as a
// pre-commit or CI guard.
func Check(mod *Module) (*RegenerationResult, error) {
	return regenerate(mod, false)
}

func regenerate(mod *Module, write bool) (*RegenerationResult, error) {
	scan, err := ScanPublicDir(mod)
	if err != nil {
		return nil, err
	}

	set, diags := BuildExportSet(scan.Records)

	result := &RegenerationResult{
		Module:       mod,
		FilesScanned: scan.FilesScanned,
		Exports:      set,
		Diagnostics:  append(scan.Diagnostics, diags...),
	}

	loaderStatus, err := syncArtifact(mod.LoaderPath(), RenderLoader(mod, set), write)
	if err != nil {
		return nil, fmt.Errorf("failed to sync loader: %w", err)
	}
	result.Artifacts = append(result.Artifacts, ArtifactResult{
		Name:   ArtifactLoader,
		Path:   mod.LoaderPath(),
		Status: loaderStatus,
	})

	manifestResult := ArtifactResult{Name: ArtifactManifest, Path: mod.ManifestPath()}
	manifestData, readErr := os.ReadFile(mod.ManifestPath())
	if readErr != nil {
		// A missing or unreadable manifest skips the manifest sync only;
		// the loader above has already been handled.
		manifestResult.Status = StatusSkipped
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeManifestMissing,
			Message:  fmt.Sprintf("cannot read manifest: %v; skipping export sync", readErr),
			Path:     mod.ManifestPath(),
			Cause:    readErr,
		})
		result.Artifacts = append(result.Artifacts, manifestResult)
		return result, nil
	}

	synced, syncDiags := SyncManifestExports(manifestData, set)
	for i := range syncDiags {
		syncDiags[i].Path = mod.ManifestPath()
	}
	result.Diagnostics = append(result.Diagnostics, syncDiags...)

	manifestResult.Status, err = syncContent(mod.ManifestPath(), string(manifestData), string(synced), write)
	if err != nil {
		return nil, fmt.Errorf("failed to sync manifest: %w", err)
	}
	result.Artifacts = append(result.Artifacts, manifestResult)

	return result, nil
}

// syncArtifact reads the artifact at path and brings it up to date with the
// rendered content. A missing artifact counts as changed and is created.
func syncArtifact(path, rendered string, write bool) (ArtifactStatus, error) {
	current, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return syncContent(path, string(current), rendered, write)
}

// syncContent compares current and rendered content under normalization and
// overwrites the file wholesale when they differ. The write is the full
// rendered content, never a partial patch.
func syncContent(path, current, rendered string, write bool) (ArtifactStatus, error) {
	if NormalizeArtifact(current) == NormalizeArtifact(rendered) {
		return StatusUnchanged, nil
	}
	if !write {
		return StatusStale, nil
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return StatusUpdated, nil
}
