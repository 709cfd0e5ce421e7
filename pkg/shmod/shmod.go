// SPDX-License-Identifier: MPL-2.0

package shmod

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"shmod-cli/pkg/cueutil"
)

const (
	// ManifestName is the file that marks a directory as a shmod module.
	ManifestName = "shmod.cue"

	// FunctionFileExt is the extension of shell function source files.
	FunctionFileExt = ".sh"

	// WIPSuffix marks a function file as work-in-progress. WIP files are
	// still sourced by the loader but never appear in the export lists.
	WIPSuffix = "-wip"

	// PublicDirName holds the exported function files, one function per file.
	PublicDirName = "public"

	// PrivateDirName holds helper files that are sourced but never exported.
	PrivateDirName = "private"

	// MaxLoaderDepth is how many directory levels below public/ and private/
	// the generated loader sources. The scan itself has no depth limit;
	// Validate warns when a function file sits deeper than the loader reaches.
	MaxLoaderDepth = 3
)

var (
	//go:embed shmod_schema.cue
	manifestSchema string

	// ErrManifestNotFound is returned when shmod.cue is missing from a module
	// directory. Callers can check for it with errors.Is.
	ErrManifestNotFound = errors.New("shmod.cue not found")

	// ErrPublicDirMissing is returned when a module has no public directory.
	// Regeneration treats this as a fatal precondition for the module.
	ErrPublicDirMissing = errors.New("public directory missing")

	// moduleNamePattern constrains module names to shell-identifier-safe
	// lowercase names. The loader filename and export variable values derive
	// from the module name, so the grammar is deliberately narrow.
	moduleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

	// functionNamePattern constrains exported function and alias names.
	// Function names come from file base names; bash accepts hyphens in
	// function names, so the grammar mirrors moduleNamePattern.
	functionNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)
)

type (
	// Module locates a module's directories and artifacts on disk. It is
	// constructed fresh for each operation and never persisted.
	Module struct {
		// Name is the module name, equal to the directory base name.
		Name string

		// Root is the absolute path to the module directory.
		Root string
	}

	// Manifest mirrors the shmod.cue file. The Exports block is owned by
	// regeneration; everything else is human-edited.
	Manifest struct {
		// Module is the module identifier; must match the directory base name.
		Module string `json:"module"`
		// Version is the module's semantic version.
		Version string `json:"version"`
		// Description is an optional one-line summary.
		Description string `json:"description,omitempty"`
		// Exports lists the advertised functions and aliases.
		Exports Exports `json:"exports"`
		// FilePath records where the manifest was loaded from (not in CUE).
		FilePath string `json:"-"`
	}

	// Exports is the manifest's generated block.
	Exports struct {
		// Functions are the exported function names, sorted.
		Functions []string `json:"functions"`
		// Aliases are the exported alias names, sorted.
		Aliases []string `json:"aliases"`
	}

	// ValidationIssue represents a single domain-level validation problem in a
	// module. Use ValidationIssue for problems that are collected and reported
	// as a batch via ValidationResult. Use error returns for I/O or
	// infrastructure failures that prevent validation from continuing.
	//
	//nolint:errname // Intentionally named Issue, not Error - semantic domain type
	ValidationIssue struct {
		// Type categorizes the issue (e.g., "structure", "naming", "manifest")
		Type string
		// Severity is the issue level; errors flip Valid, warnings do not.
		Severity Severity
		// Message describes the specific problem
		Message string
		// Path is the relative path within the module where the issue was found (optional)
		Path string
	}

	// ValidationResult contains the result of module validation.
	ValidationResult struct {
		// Valid is true if the module passed all error-level checks.
		// Warning-level issues do not flip it.
		Valid bool
		// ModulePath is the absolute path to the validated module
		ModulePath string
		// ModuleName is the directory base name
		ModuleName string
		// Issues contains all validation problems found
		Issues []ValidationIssue
	}
)

// Error implements the error interface for ValidationIssue.
func (v ValidationIssue) Error() string {
	if v.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", v.Type, v.Path, v.Message)
	}
	return fmt.Sprintf("[%s] %s", v.Type, v.Message)
}

// AddIssue adds an error-level validation issue to the result.
func (r *ValidationResult) AddIssue(issueType, message, path string) {
	r.Issues = append(r.Issues, ValidationIssue{
		Type:     issueType,
		Severity: SeverityError,
		Message:  message,
		Path:     path,
	})
	r.Valid = false
}

// AddWarning adds a warning-level issue; the result stays valid.
func (r *ValidationResult) AddWarning(issueType, message, path string) {
	r.Issues = append(r.Issues, ValidationIssue{
		Type:     issueType,
		Severity: SeverityWarning,
		Message:  message,
		Path:     path,
	})
}

// Warnings returns only the warning-level issues.
func (r *ValidationResult) Warnings() []ValidationIssue {
	var out []ValidationIssue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			out = append(out, issue)
		}
	}
	return out
}

// NewModule builds a Module for the directory at root. The module name is
// the directory base name; no filesystem access happens here.
func NewModule(root string) (*Module, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve module path %s: %w", root, err)
	}
	return &Module{
		Name: filepath.Base(abs),
		Root: abs,
	}, nil
}

// IsModuleDir reports whether path is a module directory, i.e. contains a
// shmod.cue file.
func IsModuleDir(path string) bool {
	info, err := os.Stat(filepath.Join(path, ManifestName))
	return err == nil && !info.IsDir()
}

// IsValidModuleName reports whether name satisfies the module name grammar.
func IsValidModuleName(name string) bool {
	return moduleNamePattern.MatchString(name)
}

// IsValidFunctionName reports whether name satisfies the exported-name
// grammar shared by functions and aliases.
func IsValidFunctionName(name string) bool {
	return functionNamePattern.MatchString(name)
}

// PublicDir returns the module's public function directory.
func (m *Module) PublicDir() string {
	return filepath.Join(m.Root, PublicDirName)
}

// PrivateDir returns the module's private helper directory.
func (m *Module) PrivateDir() string {
	return filepath.Join(m.Root, PrivateDirName)
}

// ManifestPath returns the absolute path to the module's shmod.cue.
func (m *Module) ManifestPath() string {
	return filepath.Join(m.Root, ManifestName)
}

// LoaderName returns the loader script filename, derived from the module name.
func (m *Module) LoaderName() string {
	return m.Name + FunctionFileExt
}

// LoaderPath returns the absolute path to the generated loader script.
func (m *Module) LoaderPath() string {
	return filepath.Join(m.Root, m.LoaderName())
}

// ParseManifest reads and parses the manifest at path.
// Returns ErrManifestNotFound (wrapped) when the file does not exist.
func ParseManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrManifestNotFound)
		}
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return ParseManifestBytes(data, path)
}

// ParseManifestBytes parses manifest content against the embedded schema.
// Uses cueutil.ParseAndDecodeString for the 3-step CUE parsing flow:
// compile schema, compile user data, validate and decode.
func ParseManifestBytes(data []byte, path string) (*Manifest, error) {
	result, err := cueutil.ParseAndDecodeString[Manifest](
		manifestSchema,
		data,
		"#Manifest",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, err
	}

	manifest := result.Value
	manifest.FilePath = path
	return manifest, nil
}

// LoadManifest reads the module's manifest from its canonical location.
func (m *Module) LoadManifest() (*Manifest, error) {
	return ParseManifest(m.ManifestPath())
}
