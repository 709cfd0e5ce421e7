// SPDX-License-Identifier: MPL-2.0

package shmod

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// BumpPart selects which version component BumpVersion increments.
type BumpPart string

const (
	BumpMajor BumpPart = "major"
	BumpMinor BumpPart = "minor"
	BumpPatch BumpPart = "patch"
)

var (
	// ErrInvalidBumpPart indicates an unrecognized bump part.
	ErrInvalidBumpPart = errors.New("invalid bump part")
	// ErrInvalidVersion indicates a version string that is not valid semver.
	ErrInvalidVersion = errors.New("invalid semver version")
	// ErrVersionFieldMissing indicates the manifest has no recognizable
	// version field to rewrite.
	ErrVersionFieldMissing = errors.New("manifest version field not found")
	// ErrVersionDowngrade indicates an explicit target version below the
	// current one without Force.
	ErrVersionDowngrade = errors.New("target version is lower than current")
)

// InvalidBumpPartError provides details about an invalid bump part.
type InvalidBumpPartError struct {
	Value BumpPart
}

func (e *InvalidBumpPartError) Error() string {
	return fmt.Sprintf("%v: %q (valid parts: major, minor, patch)", ErrInvalidBumpPart, string(e.Value))
}

func (e *InvalidBumpPartError) Unwrap() error {
	return ErrInvalidBumpPart
}

// Validate checks that the part names a version component.
func (p BumpPart) Validate() error {
	switch p {
	case BumpMajor, BumpMinor, BumpPatch:
		return nil
	default:
		return &InvalidBumpPartError{Value: p}
	}
}

// String returns the string representation.
func (p BumpPart) String() string {
	return string(p)
}

// versionFieldPattern locates the manifest's version field. Only the first
// match is rewritten, in place; the rest of the file is preserved verbatim.
var versionFieldPattern = regexp.MustCompile(`(?m)^([ \t]*version:[ \t]*")([^"\n]*)(")`)

type (
	// BumpOptions selects the target version. A non-empty Set takes
	// precedence over Part.
	BumpOptions struct {
		// Part is the component to increment: major, minor or patch.
		Part BumpPart
		// Set is an explicit target version. It must not be lower than
		// the current version unless Force is set.
		Set string
		// Force allows Set to move the version backwards.
		Force bool
	}

	// BumpResult reports a version change. Changed is false when the
	// manifest already carried the target version and nothing was written.
	BumpResult struct {
		Module  *Module
		Old     string
		New     string
		Changed bool
	}
)

// BumpVersion rewrites the manifest's version field in place: it parses the
// current value as strict semver, computes the target from opts, and splices
// the new value into the field without touching anything else in the file.
// A manifest without a parseable version field is an error, not a warning;
// versions are too load-bearing backwards to guess at.
func BumpVersion(mod *Module, opts BumpOptions) (*BumpResult, error) {
	data, err := os.ReadFile(mod.ManifestPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, mod.ManifestPath())
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	loc := versionFieldPattern.FindSubmatchIndex(data)
	if loc == nil {
		return nil, fmt.Errorf("%w in %s", ErrVersionFieldMissing, mod.ManifestPath())
	}

	currentStr := string(data[loc[4]:loc[5]])
	current, err := semver.StrictNewVersion(currentStr)
	if err != nil {
		return nil, fmt.Errorf("%w: manifest version %q: %v", ErrInvalidVersion, currentStr, err)
	}

	next, err := targetVersion(current, opts)
	if err != nil {
		return nil, err
	}

	result := &BumpResult{
		Module: mod,
		Old:    current.String(),
		New:    next.String(),
	}
	if result.New == currentStr {
		return result, nil
	}

	var out []byte
	out = append(out, data[:loc[4]]...)
	out = append(out, result.New...)
	out = append(out, data[loc[5]:]...)
	if err := os.WriteFile(mod.ManifestPath(), out, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	result.Changed = true

	return result, nil
}

func targetVersion(current *semver.Version, opts BumpOptions) (semver.Version, error) {
	if opts.Set != "" {
		next, err := semver.StrictNewVersion(opts.Set)
		if err != nil {
			return semver.Version{}, fmt.Errorf("%w: target version %q: %v", ErrInvalidVersion, opts.Set, err)
		}
		if next.LessThan(current) && !opts.Force {
			return semver.Version{}, fmt.Errorf("%w: %s < %s (use force to override)",
				ErrVersionDowngrade, next, current)
		}
		return *next, nil
	}

	switch opts.Part {
	case BumpMajor:
		return current.IncMajor(), nil
	case BumpMinor:
		return current.IncMinor(), nil
	case BumpPatch:
		return current.IncPatch(), nil
	default:
		return semver.Version{}, &InvalidBumpPartError{Value: opts.Part}
	}
}
